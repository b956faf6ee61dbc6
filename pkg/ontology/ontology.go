// Package ontology defines the core data model for biomedical identifier
// conversion: prefixed identifiers, per-entity-kind ontology configuration,
// conversion strategies, and the serializable conversion result.
//
// Example usage:
//
//	ot := ontology.OntologyType{Kind: "Disease", Default: "MONDO", Choices: []string{"MONDO", "DOID", "MESH"}}
//	ids, err := ontology.ValidateIDs([]string{"DOID:7402", "MESH:D015673"}, ot)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	grouped := ontology.Group(ids)
package ontology

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
)

// OntologyType is the static configuration of one entity kind: its label,
// the canonical (default) database and the ordered set of supported
// databases. It is created once at startup and never mutated.
type OntologyType struct {
	Kind    string   `json:"type" yaml:"type"`
	Default string   `json:"default" yaml:"default"`
	Choices []string `json:"choices" yaml:"choices"`
}

// DefaultDatabase returns the canonical database for this entity kind.
func (ot OntologyType) DefaultDatabase() string { return ot.Default }

// Databases returns the ordered set of supported databases.
func (ot OntologyType) Databases() []string { return ot.Choices }

// HasDatabase reports whether db is one of the configured databases.
// Matching is case-sensitive.
func (ot OntologyType) HasDatabase(db string) bool {
	for _, choice := range ot.Choices {
		if choice == db {
			return true
		}
	}
	return false
}

// valuePattern constrains the local part of an identifier.
var valuePattern = regexp.MustCompile(`^[A-Za-z0-9.]+$`)

// Identifier is a validated (database, local value) pair parsed from a
// "database:value" string. Immutable once parsed.
type Identifier struct {
	Database string
	Value    string
}

// String returns the identifier in its "database:value" form.
func (id Identifier) String() string {
	return id.Database + ":" + id.Value
}

// ParseIdentifier parses raw into an Identifier, requiring the prefix to be
// one of the ontology type's configured databases and the local value to
// match [A-Za-z0-9.]+.
func ParseIdentifier(raw string, ot OntologyType) (Identifier, error) {
	prefix, value, found := strings.Cut(raw, ":")
	if !found || !ot.HasDatabase(prefix) || !valuePattern.MatchString(value) {
		return Identifier{}, fmt.Errorf(
			"the id must be in the format of <database>:<id>, only support the following databases: %v, and the id must match the pattern [A-Za-z0-9.]+: %q",
			ot.Choices, raw)
	}
	return Identifier{Database: prefix, Value: value}, nil
}

// ValidateIDs parses a list of raw identifier strings against the ontology
// type. Empty entries are dropped, mirroring how blank cells in an input
// table are skipped. If any remaining entry is malformed, validation fails
// atomically with a ValidationError carrying every violation, so the caller
// can fix the input file once instead of iterating.
func ValidateIDs(raw []string, ot OntologyType) ([]Identifier, error) {
	ids := make([]Identifier, 0, len(raw))
	var violations []errors.Violation

	pos := 0
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		id, err := ParseIdentifier(r, ot)
		if err != nil {
			violations = append(violations, errors.Violation{
				Index:  pos,
				ID:     r,
				Reason: err.Error(),
			})
		} else {
			ids = append(ids, id)
		}
		pos++
	}

	if len(violations) > 0 {
		return nil, errors.NewValidationError(violations)
	}
	return ids, nil
}
