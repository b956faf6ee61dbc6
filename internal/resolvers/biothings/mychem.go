package biothings

import (
	"github.com/open-prophetdb/ontology-matcher/internal/transport"
	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

// NewMyChem creates the compound and metabolite resolver backed by
// mychem.info. Compounds and metabolites share the service; they differ only
// in which databases their ontology configuration admits, and databases
// outside the configuration simply never reach the query path.
func NewMyChem(client *transport.Client, ot ontology.OntologyType) *Service {
	fields := map[string]Field{
		"DrugBank": {Scope: "drugbank.id", Path: "drugbank.id"},
		"PUBCHEM":  {Scope: "pubchem.cid", Path: "pubchem.cid"},
		"CHEBI":    {Scope: "chebi.id", Path: "chebi.id"},
		"CHEMBL":   {Scope: "chembl.molecule_chembl_id", Path: "chembl.molecule_chembl_id"},
		"MESH":     {Scope: "umls.mesh", Path: "umls.mesh"},
		"UMLS":     {Scope: "umls.cui", Path: "umls.cui"},
		"HMDB":     {Scope: "unichem.hmdb", Path: "unichem.hmdb"},
	}
	metaFields := []MetaField{
		{Key: "name", Path: "chebi.name"},
		{Key: "description", Path: "chebi.definition"},
		{Key: "synonyms", Path: "chebi.synonyms"},
		{Key: "xrefs", Path: "chebi.xrefs"},
	}
	return New(client, "mychem", constants.MyChemURL, ot, fields, metaFields)
}
