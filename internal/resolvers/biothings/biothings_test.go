package biothings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-prophetdb/ontology-matcher/internal/transport"
	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

var geneType = ontology.OntologyType{
	Kind:    "Gene",
	Default: "ENTREZ",
	Choices: []string{"ENTREZ", "SYMBOL", "ENSEMBL"},
}

func newGeneService(serverURL string) *Service {
	fields := map[string]Field{
		"ENTREZ":  {Scope: "entrezgene", Path: "entrezgene"},
		"SYMBOL":  {Scope: "symbol", Path: "symbol"},
		"ENSEMBL": {Scope: "ensembl.gene", Path: "ensembl.gene"},
	}
	metaFields := []MetaField{
		{Key: "name", Path: "name"},
		{Key: "taxid", Path: "taxid"},
		{Key: "alias", Path: "alias"},
	}
	return New(transport.New(), "mygene", serverURL, geneType, fields, metaFields)
}

const queryFixture = `[
  {
    "query": "TP53",
    "_id": "7157",
    "entrezgene": 7157,
    "symbol": "TP53",
    "name": "tumor protein p53",
    "taxid": 9606,
    "ensembl.gene": "ENSG00000141510",
    "alias": ["BCC7", "LFS1"]
  },
  {
    "query": "TP53",
    "_id": "100526772",
    "entrezgene": 100526772,
    "symbol": "TP53",
    "taxid": 9606
  },
  {
    "query": "GONE",
    "notfound": true
  }
]`

func TestLookupCollectsHitsPerQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "TP53,GONE", r.PostForm.Get("q"))
		assert.Equal(t, "symbol", r.PostForm.Get("scopes"))
		assert.Contains(t, r.PostForm.Get("fields"), "entrezgene")

		_, _ = w.Write([]byte(queryFixture))
	}))
	defer server.Close()

	service := newGeneService(server.URL)
	ids, err := ontology.ValidateIDs([]string{"SYMBOL:TP53", "SYMBOL:GONE"}, geneType)
	require.NoError(t, err)

	matches, err := service.Lookup(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	tp53 := matches[0]
	// Two service hits for one symbol accumulate as a two-element list.
	assert.Equal(t, []string{"ENTREZ:7157", "ENTREZ:100526772"}, tp53.Values["ENTREZ"])
	assert.Equal(t, []string{"ENSEMBL:ENSG00000141510"}, tp53.Values["ENSEMBL"])
	assert.Equal(t, "tumor protein p53", tp53.Metadata["name"])
	assert.Equal(t, "9606", tp53.Metadata["taxid"])

	assert.Empty(t, matches[1].Values, "notfound hit carries no candidates")
}

func TestLookupAllNotFoundIsNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"query": "GONE", "notfound": true}]`))
	}))
	defer server.Close()

	service := newGeneService(server.URL)
	ids, err := ontology.ValidateIDs([]string{"SYMBOL:GONE"}, geneType)
	require.NoError(t, err)

	_, err = service.Lookup(context.Background(), ids)
	require.Error(t, err)
	assert.True(t, errors.IsNoResult(err))
}

func TestEnrichMetadataPopulatesInPlace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "7157", r.PostForm.Get("q"))
		assert.Equal(t, "entrezgene", r.PostForm.Get("scopes"))

		_, _ = w.Write([]byte(`[{"query": "7157", "name": "tumor protein p53", "taxid": 9606}]`))
	}))
	defer server.Close()

	service := newGeneService(server.URL)
	converted := []*ontology.ConvertedID{
		{
			RawID: "SYMBOL:TP53",
			Databases: map[string][]string{
				"SYMBOL": {"SYMBOL:TP53"},
				"ENTREZ": {"ENTREZ:7157"},
			},
		},
	}

	require.NoError(t, service.EnrichMetadata(context.Background(), converted, "ENTREZ"))
	assert.Equal(t, "tumor protein p53", converted[0].Metadata["name"])
}

func TestEnrichMetadataSkipsAmbiguousValues(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	service := newGeneService(server.URL)
	converted := []*ontology.ConvertedID{
		{
			RawID: "SYMBOL:TP53",
			Databases: map[string][]string{
				"ENTREZ": {"ENTREZ:7157", "ENTREZ:100526772"},
			},
		},
	}

	require.NoError(t, service.EnrichMetadata(context.Background(), converted, "ENTREZ"))
	assert.False(t, called, "list-valued databases cannot key a metadata lookup")
	assert.Nil(t, converted[0].Metadata)
}

func TestPathValues(t *testing.T) {
	hit := map[string]any{
		"entrezgene":   float64(7157),
		"ensembl.gene": "ENSG00000141510",
		"uniprot":      map[string]any{"Swiss-Prot": "P04637"},
		"nested":       []any{map[string]any{"id": "a"}, map[string]any{"id": "b"}},
	}

	assert.Equal(t, []string{"7157"}, pathValues(hit, "entrezgene"))
	// dotfield keys take priority over nested traversal.
	assert.Equal(t, []string{"ENSG00000141510"}, pathValues(hit, "ensembl.gene"))
	assert.Equal(t, []string{"P04637"}, pathValues(hit, "uniprot.Swiss-Prot"))
	assert.Equal(t, []string{"a", "b"}, pathValues(hit, "nested.id"))
	assert.Empty(t, pathValues(hit, "absent.path"))
}

func TestCurieAvoidsDoublePrefix(t *testing.T) {
	assert.Equal(t, "CHEBI:15377", curie("CHEBI", "CHEBI:15377"))
	assert.Equal(t, "ENTREZ:7157", curie("ENTREZ", "7157"))
	assert.Equal(t, "15377", localValue("CHEBI", "CHEBI:15377"))
}
