package matcher

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-prophetdb/ontology-matcher/internal/transport"
	"github.com/open-prophetdb/ontology-matcher/pkg/formatter"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontologies"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	return New(ontologies.DefaultRegistry(), transport.New())
}

func TestResolverWiring(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		kind    string
		service string
	}{
		{"Disease", "oxo"},
		{"Symptom", "oxo"},
		{"Gene", "mygene"},
		{"Compound", "mychem"},
		{"Metabolite", "mychem"},
	}
	for _, tt := range tests {
		entry, err := m.Registry().Get(tt.kind)
		require.NoError(t, err)

		resolver, err := m.Resolver(entry)
		require.NoError(t, err, tt.kind)
		assert.Equal(t, tt.service, resolver.ID(), tt.kind)
	}
}

func TestRunReformatsFromExistingSnapshot(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.tsv")
	outputPath := filepath.Join(dir, "output.tsv")

	input := "id\tname\tlabel\tresource\nDOID:7402\tskin carcinoma\tDisease\tDOID\n"
	require.NoError(t, os.WriteFile(inputPath, []byte(input), 0o644))

	snapshot := &formatter.Snapshot{
		ConversionResult: &ontology.ConversionResult{
			IDs:             []string{"DOID:7402"},
			Strategy:        ontology.StrategyMixture,
			DefaultDatabase: "MONDO",
			ConvertedIDs: []*ontology.ConvertedID{
				{
					Index: 0,
					RawID: "DOID:7402",
					Databases: map[string][]string{
						"DOID":  {"DOID:7402"},
						"MONDO": {"MONDO:0005233"},
					},
				},
			},
		},
	}
	data, err := json.Marshal(snapshot)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(formatter.SnapshotPath(outputPath), data, 0o644))

	m := newTestMatcher(t)
	result, err := m.Run(context.Background(), RunOptions{
		Kind:       "Disease",
		InputPath:  inputPath,
		OutputPath: outputPath,
	})
	require.NoError(t, err)

	assert.True(t, result.Reformatted, "must not re-query when a snapshot exists")
	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 1, result.Formatted)

	rows, err := formatter.ReadTable(outputPath)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "MONDO:0005233", rows[0].ID)
	assert.Equal(t, "DOID:7402", rows[0].RawID)
}

func TestRunRejectsUnknownKind(t *testing.T) {
	m := newTestMatcher(t)
	_, err := m.Run(context.Background(), RunOptions{Kind: "pathway"})
	assert.Error(t, err)
}
