package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaultAmbiguityAlwaysRejects(t *testing.T) {
	candidates := map[string][]string{
		"MONDO": {"MONDO:1", "MONDO:2"},
		"MESH":  {"MESH:D1"},
	}
	for _, strategy := range []Strategy{StrategyUnique, StrategyMixture} {
		assert.Equal(t, ReasonMultipleDefault, Resolve(candidates, strategy, "MONDO"),
			"strategy %s must reject default-database ambiguity", strategy)
	}
}

func TestResolveUniqueRejectsAnyAmbiguity(t *testing.T) {
	candidates := map[string][]string{
		"MONDO": {"MONDO:1"},
		"MESH":  {"MESH:D1", "MESH:D2"},
	}
	assert.Equal(t, ReasonMultipleUnique, Resolve(candidates, StrategyUnique, "MONDO"))
}

func TestResolveMixtureKeepsNonDefaultAmbiguity(t *testing.T) {
	candidates := map[string][]string{
		"MONDO": {"MONDO:1"},
		"MESH":  {"MESH:D1", "MESH:D2"},
	}
	assert.Empty(t, Resolve(candidates, StrategyMixture, "MONDO"))
}

func TestResolveSingularCandidatesAccept(t *testing.T) {
	candidates := map[string][]string{
		"MONDO": {"MONDO:1"},
		"MESH":  {"MESH:D1"},
	}
	assert.Empty(t, Resolve(candidates, StrategyUnique, "MONDO"))
	assert.Empty(t, Resolve(candidates, StrategyMixture, "MONDO"))
}

func TestParseStrategy(t *testing.T) {
	parsed, err := ParseStrategy("Unique")
	require.NoError(t, err)
	assert.Equal(t, StrategyUnique, parsed)

	_, err = ParseStrategy("unique")
	assert.Error(t, err)

	_, err = ParseStrategy("both")
	assert.Error(t, err)
}
