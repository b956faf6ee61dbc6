package biothings

import (
	"github.com/open-prophetdb/ontology-matcher/internal/transport"
	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

// NewMyGene creates the gene resolver backed by mygene.info.
func NewMyGene(client *transport.Client, ot ontology.OntologyType) *Service {
	fields := map[string]Field{
		"ENTREZ":  {Scope: "entrezgene", Path: "entrezgene"},
		"ENSEMBL": {Scope: "ensembl.gene", Path: "ensembl.gene"},
		"HGNC":    {Scope: "HGNC", Path: "HGNC"},
		"MGI":     {Scope: "MGI", Path: "MGI"},
		"SYMBOL":  {Scope: "symbol", Path: "symbol"},
		"UNIPROT": {Scope: "uniprot.Swiss-Prot", Path: "uniprot.Swiss-Prot"},
	}
	metaFields := []MetaField{
		{Key: "symbol", Path: "symbol"},
		{Key: "name", Path: "name"},
		{Key: "taxid", Path: "taxid"},
		{Key: "summary", Path: "summary"},
		{Key: "alias", Path: "alias"},
	}
	return New(client, "mygene", constants.MyGeneURL, ot, fields, metaFields)
}
