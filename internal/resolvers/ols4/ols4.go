// Package ols4 fetches descriptive metadata from the EBI Ontology Lookup
// Service. It enriches identifiers one at a time by exact obo_id search,
// which is how symptom terms pick up their labels and synonyms after OxO
// conversion.
package ols4

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/open-prophetdb/ontology-matcher/internal/transport"
	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/logging"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

const serviceName = "ols4"

// Enricher looks up term metadata by curie.
type Enricher struct {
	client *transport.Client
	url    string
	logger *zerolog.Logger
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithBaseURL overrides the search endpoint.
func WithBaseURL(url string) Option {
	return func(e *Enricher) { e.url = url }
}

// New creates an OLS4 enricher.
func New(client *transport.Client, opts ...Option) *Enricher {
	e := &Enricher{client: client, url: constants.OLS4URL, logger: logging.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type searchResponse struct {
	Response struct {
		NumFound int `json:"numFound"`
		Docs     []struct {
			IRI         string   `json:"iri"`
			OboID       string   `json:"obo_id"`
			Label       string   `json:"label"`
			Description []string `json:"description"`
			Synonym     []string `json:"synonym"`
		} `json:"docs"`
	} `json:"response"`
}

// EnrichMetadata resolves each converted id's value in targetDatabase to its
// OLS4 term and folds label, description and synonyms into the metadata.
// Terms the service does not know stay untouched.
func (e *Enricher) EnrichMetadata(ctx context.Context, ids []*ontology.ConvertedID, targetDatabase string) error {
	for _, cid := range ids {
		values := cid.Values(targetDatabase)
		if len(values) != 1 {
			continue
		}
		meta, err := e.lookupTerm(ctx, values[0])
		if err != nil {
			return err
		}
		if len(meta) > 0 {
			cid.UpdateMetadata(meta)
		}
	}
	return nil
}

// lookupTerm searches one curie. OLS4 indexes the same term once per
// ontology that imports it, so the doc whose obo_id matches exactly wins.
func (e *Enricher) lookupTerm(ctx context.Context, curie string) (ontology.Metadata, error) {
	query := url.Values{}
	query.Set("q", curie)
	query.Set("queryFields", "obo_id")
	query.Set("exact", "true")

	var response searchResponse
	if err := e.client.GetJSON(ctx, serviceName, e.url, query, &response); err != nil {
		return nil, err
	}
	if response.Response.NumFound == 0 {
		e.logger.Debug().Str("curie", curie).Msg("No OLS4 term found")
		return nil, nil
	}

	for _, doc := range response.Response.Docs {
		if !strings.EqualFold(doc.OboID, curie) {
			continue
		}
		meta := ontology.Metadata{}
		if doc.Label != "" {
			meta["name"] = doc.Label
		}
		if len(doc.Description) > 0 {
			meta["description"] = doc.Description[0]
		}
		if len(doc.Synonym) > 0 {
			meta["synonyms"] = doc.Synonym
		}
		return meta, nil
	}
	return nil, nil
}
