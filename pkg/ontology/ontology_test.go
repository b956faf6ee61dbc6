package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
)

var diseaseType = OntologyType{
	Kind:    "Disease",
	Default: "MONDO",
	Choices: []string{"MONDO", "DOID", "MESH", "OMIM", "ICD-9", "HP", "ICD10CM", "ORDO", "UMLS"},
}

func TestParseIdentifier(t *testing.T) {
	id, err := ParseIdentifier("DOID:7402", diseaseType)
	require.NoError(t, err)
	assert.Equal(t, "DOID", id.Database)
	assert.Equal(t, "7402", id.Value)
	assert.Equal(t, "DOID:7402", id.String())
}

func TestParseIdentifierHyphenatedDatabase(t *testing.T) {
	id, err := ParseIdentifier("ICD-9:140.9", diseaseType)
	require.NoError(t, err)
	assert.Equal(t, "ICD-9", id.Database)
	assert.Equal(t, "140.9", id.Value)
}

func TestParseIdentifierRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no separator", "DOID7402"},
		{"unknown database", "FAKE:123"},
		{"lowercased database", "doid:7402"},
		{"value with space", "DOID:74 02"},
		{"value with dash", "DOID:74-02"},
		{"empty value", "DOID:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIdentifier(tt.raw, diseaseType)
			assert.Error(t, err)
		})
	}
}

func TestValidateIDsAtomicFailure(t *testing.T) {
	_, err := ValidateIDs([]string{"DOID:7402", "bad", "FAKE:1"}, diseaseType)
	require.Error(t, err)

	var validationErr *errors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Violations, 2)
	assert.True(t, errors.IsValidationError(err))
}

func TestValidateIDsDropsEmptyEntries(t *testing.T) {
	ids, err := ValidateIDs([]string{"DOID:7402", "", "  ", "MESH:D015673"}, diseaseType)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "DOID:7402", ids[0].String())
	assert.Equal(t, "MESH:D015673", ids[1].String())
}

func TestHasDatabaseIsCaseSensitive(t *testing.T) {
	assert.True(t, diseaseType.HasDatabase("MONDO"))
	assert.False(t, diseaseType.HasDatabase("mondo"))
}
