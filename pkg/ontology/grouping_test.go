package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupPositionIsBijection(t *testing.T) {
	ids, err := ValidateIDs([]string{
		"DOID:7402", "MESH:D015673", "DOID:1234", "MONDO:0005233", "MESH:D001943",
	}, diseaseType)
	require.NoError(t, err)

	grouped := Group(ids)

	require.Len(t, grouped.Position, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, idx := range grouped.Position {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, len(ids))
		assert.False(t, seen[idx], "position %d assigned twice", idx)
		seen[idx] = true
	}
}

func TestGroupByDatabasePreservesInputOrder(t *testing.T) {
	ids, err := ValidateIDs([]string{"DOID:2", "MESH:D1", "DOID:1"}, diseaseType)
	require.NoError(t, err)

	grouped := Group(ids)

	assert.Equal(t, []string{"2", "1"}, grouped.ByDatabase["DOID"])
	assert.Equal(t, []string{"D1"}, grouped.ByDatabase["MESH"])
	assert.Equal(t, []string{"DOID", "MESH"}, grouped.Databases(ids))
}

func TestGroupSameValueUnderTwoDatabases(t *testing.T) {
	geneType := OntologyType{
		Kind:    "Gene",
		Default: "ENTREZ",
		Choices: []string{"ENTREZ", "HGNC"},
	}
	ids, err := ValidateIDs([]string{"HGNC:1", "ENTREZ:1"}, geneType)
	require.NoError(t, err)

	grouped := Group(ids)
	assert.Equal(t, 0, grouped.Position["HGNC:1"])
	assert.Equal(t, 1, grouped.Position["ENTREZ:1"])
}
