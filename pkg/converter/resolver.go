package converter

import (
	"context"

	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

// Match is the resolver-side result for one requested identifier: the set of
// equivalent values per target database, plus optional descriptive metadata
// when the backing service returns it inline.
type Match struct {
	// Query is the identifier this match answers.
	Query ontology.Identifier

	// Values maps each probed target database to its equivalent values,
	// always carrying the database prefix ("MONDO:0005233"). A nil slice
	// records a probed database with no match.
	Values map[string][]string

	// Metadata carries descriptive fields (name, synonyms, description,
	// pmids) when the service provides them with the lookup; nil otherwise.
	Metadata ontology.Metadata
}

// Resolver is the capability the orchestrator drives: one implementation per
// backing namespace-mapping service. Implementations own their retry policy
// (bounded attempts with jittered backoff); the orchestrator only sees
// terminal success or failure.
type Resolver interface {
	// ID names the backing service, for logging.
	ID() string

	// URL returns the service endpoint recorded in the conversion result.
	URL() string

	// Lookup resolves one batch of identifiers. It must return an error
	// satisfying errors.IsNoResult when the entire batch yields nothing,
	// so a service outage is distinguishable from "all ids unmapped".
	Lookup(ctx context.Context, ids []ontology.Identifier) ([]Match, error)

	// EnrichMetadata fetches descriptive metadata for already-converted
	// identifiers via their values in targetDatabase, mutating each
	// ConvertedID's metadata in place. Identifiers without metadata are
	// left untouched, not failed.
	EnrichMetadata(ctx context.Context, ids []*ontology.ConvertedID, targetDatabase string) error
}
