package ontology

import (
	"encoding/json"
	"fmt"
)

// Strategy governs how ambiguous cross-database mappings are handled.
type Strategy string

const (
	// StrategyUnique rejects an identifier that maps to more than one target
	// value in any target database.
	StrategyUnique Strategy = "Unique"

	// StrategyMixture only rejects ambiguity in the default database; other
	// databases may carry multiple alias values, which are preserved as
	// list-valued cross-references.
	StrategyMixture Strategy = "Mixture"
)

// ParseStrategy converts a strategy name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategyUnique:
		return StrategyUnique, nil
	case StrategyMixture:
		return StrategyMixture, nil
	}
	return "", fmt.Errorf("unknown strategy %q, expected %q or %q", name, StrategyUnique, StrategyMixture)
}

// String returns the strategy name.
func (s Strategy) String() string { return string(s) }

// UnmarshalJSON rebuilds a Strategy from its string name, rejecting unknown
// values so a corrupted snapshot fails loudly.
func (s *Strategy) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStrategy(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Failure reasons attached to FailedID records. The wording is part of the
// failed-output contract and matches what downstream consumers grep for.
const (
	ReasonNoResults       = "No results found"
	ReasonMultipleDefault = "Multiple results found"
	ReasonMultipleUnique  = "The strategy is unique, but multiple results found"
)

// ReasonInvalidPrefix formats the failure reason for an identifier whose
// prefix is not one of the configured databases.
func ReasonInvalidPrefix(databases []string) string {
	return fmt.Sprintf("Invalid prefix, only support %v", databases)
}

// Resolve decides whether one identifier's candidate mappings are acceptable
// under the given strategy. It is the single place ambiguity policy is
// decided; every entity-kind converter routes through it identically.
//
// The default database must always be singular regardless of strategy,
// because it becomes the canonical output id. Under StrategyUnique any
// database with more than one candidate rejects the identifier; under
// StrategyMixture non-default ambiguity is kept as a list-valued alias.
// Resolve returns the failure reason, or "" to accept.
func Resolve(candidates map[string][]string, strategy Strategy, defaultDatabase string) string {
	if len(candidates[defaultDatabase]) > 1 {
		return ReasonMultipleDefault
	}
	if strategy == StrategyUnique {
		for db, values := range candidates {
			if db != defaultDatabase && len(values) > 1 {
				return ReasonMultipleUnique
			}
		}
	}
	return ""
}
