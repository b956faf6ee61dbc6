package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("ONTOLOGY_MATCHER_CACHE_PATH", filepath.Join(t.TempDir(), "cache.db"))

	application, err := New("test", "none", "unknown")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(application.Close)
	return application
}

// TestNew verifies the application assembles with defaults.
func TestNew(t *testing.T) {
	application := newTestApp(t)

	if application.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if application.matcher == nil {
		t.Error("matcher not wired")
	}
	if application.root == nil {
		t.Error("root command not built")
	}
}

// TestExecute_IDTypes verifies the idtypes command lists every kind.
func TestExecute_IDTypes(t *testing.T) {
	application := newTestApp(t)

	var out bytes.Buffer
	application.root.SetOut(&out)

	if err := application.Execute(context.Background(), []string{"idtypes"}); err != nil {
		t.Fatalf("Execute(idtypes) failed: %v", err)
	}

	for _, kind := range []string{"Disease", "Gene", "Compound", "Symptom", "Metabolite"} {
		if !strings.Contains(out.String(), kind) {
			t.Errorf("idtypes output missing %s", kind)
		}
	}
}

// TestExecute_Template verifies the template command writes a header row.
func TestExecute_Template(t *testing.T) {
	application := newTestApp(t)
	application.root.SetOut(&bytes.Buffer{})

	path := filepath.Join(t.TempDir(), "template.tsv")
	if err := application.Execute(context.Background(), []string{"template", "-o", path}); err != nil {
		t.Fatalf("Execute(template) failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("template file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "id\t") {
		t.Errorf("template header = %q, want id column first", string(data))
	}
}

// TestExecute_UnknownCommand verifies unknown subcommands error out.
func TestExecute_UnknownCommand(t *testing.T) {
	application := newTestApp(t)

	if err := application.Execute(context.Background(), []string{"bogus"}); err == nil {
		t.Error("Execute(bogus) succeeded, want error")
	}
}

func TestSiblingPath(t *testing.T) {
	tests := []struct {
		path   string
		suffix string
		want   string
	}{
		{"out/result.tsv", ".remaining.tsv", "out/result.remaining.tsv"},
		{"result.csv", ".aggregated.tsv", "result.aggregated.tsv"},
		{"noext", ".remaining.tsv", "noext.remaining.tsv"},
	}
	for _, tt := range tests {
		if got := siblingPath(tt.path, tt.suffix); got != tt.want {
			t.Errorf("siblingPath(%q, %q) = %q, want %q", tt.path, tt.suffix, got, tt.want)
		}
	}
}
