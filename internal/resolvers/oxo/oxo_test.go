package oxo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-prophetdb/ontology-matcher/internal/transport"
	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

var diseaseType = ontology.OntologyType{
	Kind:    "Disease",
	Default: "MONDO",
	Choices: []string{"MONDO", "DOID", "MESH"},
}

const searchFixture = `{
  "_embedded": {
    "searchResults": [
      {
        "queryId": "DOID:7402",
        "curie": "DOID:7402",
        "label": "skin carcinoma",
        "mappingResponseList": [
          {"curie": "MONDO:0005233", "label": "skin carcinoma", "targetPrefix": "MONDO"},
          {"curie": "MESH:D012878", "label": "Skin Neoplasms", "targetPrefix": "MESH"}
        ]
      },
      {
        "queryId": "DOID:bogus",
        "curie": "DOID:bogus",
        "mappingResponseList": []
      }
    ]
  }
}`

func TestLookupParsesSearchResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, []any{"DOID:7402", "DOID:bogus"}, request["ids"])
		assert.Nil(t, request["inputSource"])
		assert.Equal(t, float64(1), request["distance"])

		_, _ = w.Write([]byte(searchFixture))
	}))
	defer server.Close()

	resolver := New(transport.New(), diseaseType, nil, WithBaseURL(server.URL))
	ids, err := ontology.ValidateIDs([]string{"DOID:7402", "DOID:bogus"}, diseaseType)
	require.NoError(t, err)

	matches, err := resolver.Lookup(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, []string{"MONDO:0005233"}, matches[0].Values["MONDO"])
	assert.Equal(t, []string{"MESH:D012878"}, matches[0].Values["MESH"])
	assert.Equal(t, "skin carcinoma", matches[0].Metadata["name"])

	// The unmapped id is present but carries no candidates.
	assert.Empty(t, matches[1].Values)
}

func TestLookupEmptyBatchIsNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_embedded": {"searchResults": []}}`))
	}))
	defer server.Close()

	resolver := New(transport.New(), diseaseType, nil, WithBaseURL(server.URL))
	ids, err := ontology.ValidateIDs([]string{"DOID:7402"}, diseaseType)
	require.NoError(t, err)

	_, err = resolver.Lookup(context.Background(), ids)
	require.Error(t, err)
	assert.True(t, errors.IsNoResult(err))
}

type recordingEnricher struct {
	targets []string
}

func (r *recordingEnricher) EnrichMetadata(_ context.Context, _ []*ontology.ConvertedID, targetDatabase string) error {
	r.targets = append(r.targets, targetDatabase)
	return nil
}

func TestEnrichMetadataDelegates(t *testing.T) {
	enricher := &recordingEnricher{}
	resolver := New(transport.New(), diseaseType, enricher)

	require.NoError(t, resolver.EnrichMetadata(context.Background(), nil, "MONDO"))
	assert.Equal(t, []string{"MONDO"}, enricher.targets)

	// A nil enricher leaves metadata absent without failing.
	bare := New(transport.New(), diseaseType, nil)
	assert.NoError(t, bare.EnrichMetadata(context.Background(), nil, "MONDO"))
}
