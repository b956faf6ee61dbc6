package ontologies

import (
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
)

// Registry maps entity kind names to their configuration. Lookup is
// case-insensitive so the CLI accepts "gene" and "Gene" alike, while the
// canonical kind casing is preserved for output labels.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry builds a registry from entries.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for _, entry := range entries {
		r.entries[strings.ToLower(entry.Ontology.Kind)] = entry
	}
	return r
}

// DefaultRegistry returns the built-in entity kinds.
func DefaultRegistry() *Registry {
	return NewRegistry(Disease, Gene, Compound, Symptom, Metabolite)
}

// Get returns the entry for a kind name.
func (r *Registry) Get(kind string) (Entry, error) {
	entry, found := r.entries[strings.ToLower(kind)]
	if !found {
		return Entry{}, errors.NewNotFoundError("entity kind", kind)
	}
	return entry, nil
}

// Kinds returns the registered kind names in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		kinds = append(kinds, entry.Ontology.Kind)
	}
	sort.Strings(kinds)
	return kinds
}

// DefaultDatabases maps each kind's output label to its canonical database,
// which is the shape the dedup engine consumes.
func (r *Registry) DefaultDatabases() map[string]string {
	defaults := make(map[string]string, len(r.entries))
	for _, entry := range r.entries {
		defaults[entry.Ontology.Kind] = entry.Ontology.Default
	}
	return defaults
}

type registryFile struct {
	Ontologies []Entry `yaml:"ontologies"`
}

// LoadRegistry reads kind configurations from a YAML file. File entries
// replace the built-in entry of the same kind and may add new kinds; kinds
// absent from the file keep their built-in configuration.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	registry := DefaultRegistry()
	for _, entry := range file.Ontologies {
		if err := validateEntry(entry); err != nil {
			return nil, err
		}
		registry.entries[strings.ToLower(entry.Ontology.Kind)] = entry
	}
	return registry, nil
}

func validateEntry(entry Entry) error {
	var violations []errors.Violation
	if entry.Ontology.Kind == "" {
		violations = append(violations, errors.Violation{Reason: "ontology kind is required"})
	}
	if entry.Ontology.Default == "" {
		violations = append(violations, errors.Violation{
			ID: entry.Ontology.Kind, Reason: "default database is required"})
	}
	if !entry.Ontology.HasDatabase(entry.Ontology.Default) {
		violations = append(violations, errors.Violation{
			ID: entry.Ontology.Kind, Reason: "default database must be one of the configured databases"})
	}
	switch entry.Service {
	case ServiceOXO, ServiceMyGene, ServiceMyChem, ServiceMyDisease:
	default:
		violations = append(violations, errors.Violation{
			ID: entry.Ontology.Kind, Reason: "unknown service " + entry.Service})
	}
	if len(violations) > 0 {
		return errors.NewValidationError(violations)
	}
	return nil
}
