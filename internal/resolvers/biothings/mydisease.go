package biothings

import (
	"github.com/open-prophetdb/ontology-matcher/internal/transport"
	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

// NewMyDisease creates a mydisease.info client. Disease conversion itself
// runs through OxO; this service is its metadata enricher, but it can also
// resolve on its own for the databases MONDO mirrors as xrefs.
func NewMyDisease(client *transport.Client, ot ontology.OntologyType) *Service {
	fields := map[string]Field{
		"MONDO": {Scope: "mondo.mondo", Path: "mondo.mondo"},
		"DOID":  {Scope: "mondo.xrefs.doid", Path: "mondo.xrefs.doid"},
		"MESH":  {Scope: "mondo.xrefs.mesh", Path: "mondo.xrefs.mesh"},
		"OMIM":  {Scope: "mondo.xrefs.omim", Path: "mondo.xrefs.omim"},
		"UMLS":  {Scope: "mondo.xrefs.umls", Path: "mondo.xrefs.umls"},
		"HP":    {Scope: "mondo.xrefs.hp", Path: "mondo.xrefs.hp"},
	}
	metaFields := []MetaField{
		{Key: "name", Path: "mondo.label"},
		{Key: "description", Path: "mondo.definition"},
		{Key: "synonyms", Path: "mondo.synonym.exact"},
	}
	return New(client, "mydisease", constants.MyDiseaseURL, ot, fields, metaFields)
}
