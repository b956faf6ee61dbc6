// Package ontologies holds the static configuration of every supported
// entity kind: which databases each kind admits, which one is canonical, and
// which backing service resolves it. The built-in set can be overridden from
// a YAML file.
package ontologies

import (
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

// Backing service names.
const (
	ServiceOXO       = "oxo"
	ServiceMyGene    = "mygene"
	ServiceMyChem    = "mychem"
	ServiceMyDisease = "mydisease"
	ServiceOLS4      = "ols4"
)

// Entry is the full configuration of one entity kind.
type Entry struct {
	Ontology ontology.OntologyType `json:"ontology" yaml:"ontology"`

	// Service names the resolver backing conversion for this kind.
	Service string `json:"service" yaml:"service"`

	// Enricher names the service fetching descriptive metadata, when it is
	// not the resolver itself. Only OxO-backed kinds need one.
	Enricher string `json:"enricher,omitempty" yaml:"enricher,omitempty"`

	// Links maps each database to the browser URL of its authority.
	Links map[string]string `json:"links,omitempty" yaml:"links,omitempty"`
}

// Disease converts through OxO onto MONDO, with MyDisease metadata.
var Disease = Entry{
	Ontology: ontology.OntologyType{
		Kind:    "Disease",
		Default: "MONDO",
		Choices: []string{"MONDO", "DOID", "MESH", "OMIM", "ICD-9", "HP", "ICD10CM", "ORDO", "UMLS"},
	},
	Service:  ServiceOXO,
	Enricher: ServiceMyDisease,
	Links: map[string]string{
		"MONDO":   "https://monarchinitiative.org",
		"DOID":    "https://disease-ontology.org",
		"MESH":    "https://meshb.nlm.nih.gov",
		"OMIM":    "https://www.omim.org",
		"HP":      "https://hpo.jax.org",
		"ICD10CM": "https://www.icd10data.com",
		"ORDO":    "https://www.orpha.net",
		"UMLS":    "https://www.nlm.nih.gov/research/umls",
	},
}

// Gene converts through MyGene onto ENTREZ.
var Gene = Entry{
	Ontology: ontology.OntologyType{
		Kind:    "Gene",
		Default: "ENTREZ",
		Choices: []string{"ENTREZ", "ENSEMBL", "HGNC", "MGI", "SYMBOL", "UNIPROT"},
	},
	Service: ServiceMyGene,
	Links: map[string]string{
		"ENTREZ":  "https://www.ncbi.nlm.nih.gov/gene",
		"ENSEMBL": "https://www.ensembl.org",
		"HGNC":    "https://www.genenames.org",
		"MGI":     "https://www.informatics.jax.org",
		"UNIPROT": "https://www.uniprot.org",
	},
}

// Compound converts through MyChem onto DrugBank.
var Compound = Entry{
	Ontology: ontology.OntologyType{
		Kind:    "Compound",
		Default: "DrugBank",
		Choices: []string{"DrugBank", "PUBCHEM", "CHEBI", "MESH", "UMLS", "CHEMBL", "HMDB"},
	},
	Service: ServiceMyChem,
	Links: map[string]string{
		"DrugBank": "https://go.drugbank.com",
		"PUBCHEM":  "https://pubchem.ncbi.nlm.nih.gov",
		"CHEBI":    "https://www.ebi.ac.uk/chebi",
		"MESH":     "https://meshb.nlm.nih.gov",
		"CHEMBL":   "https://www.ebi.ac.uk/chembl",
		"HMDB":     "https://hmdb.ca",
	},
}

// Symptom converts through OxO onto MESH, with OLS4 metadata.
var Symptom = Entry{
	Ontology: ontology.OntologyType{
		Kind:    "Symptom",
		Default: "MESH",
		Choices: []string{"SYMP", "MESH", "UMLS", "HP"},
	},
	Service:  ServiceOXO,
	Enricher: ServiceOLS4,
	Links: map[string]string{
		"SYMP": "https://www.ebi.ac.uk/ols4/ontologies/symp",
		"MESH": "https://meshb.nlm.nih.gov",
		"HP":   "https://hpo.jax.org",
	},
}

// Metabolite converts through MyChem onto HMDB.
var Metabolite = Entry{
	Ontology: ontology.OntologyType{
		Kind:    "Metabolite",
		Default: "HMDB",
		Choices: []string{"HMDB", "DrugBank", "PUBCHEM", "CHEBI", "MESH", "UMLS", "CHEMBL"},
	},
	Service: ServiceMyChem,
	Links: map[string]string{
		"HMDB":     "https://hmdb.ca",
		"DrugBank": "https://go.drugbank.com",
		"PUBCHEM":  "https://pubchem.ncbi.nlm.nih.gov",
		"CHEBI":    "https://www.ebi.ac.uk/chebi",
		"CHEMBL":   "https://www.ebi.ac.uk/chembl",
	},
}
