// Package oxo resolves identifiers through the EBI OxO cross-reference
// service. OxO only maps curies between databases; descriptive metadata comes
// from an injected enricher backed by another service.
package oxo

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/open-prophetdb/ontology-matcher/internal/transport"
	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/converter"
	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
	"github.com/open-prophetdb/ontology-matcher/pkg/logging"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

const serviceName = "oxo"

// Enricher fetches descriptive metadata for converted identifiers. A nil
// enricher leaves metadata absent.
type Enricher interface {
	EnrichMetadata(ctx context.Context, ids []*ontology.ConvertedID, targetDatabase string) error
}

// Resolver implements converter.Resolver on top of the OxO search API.
type Resolver struct {
	client   *transport.Client
	ontology ontology.OntologyType
	enricher Enricher
	url      string
	logger   *zerolog.Logger
}

var _ converter.Resolver = (*Resolver)(nil)

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURL overrides the search endpoint.
func WithBaseURL(url string) Option {
	return func(r *Resolver) { r.url = url }
}

// New creates an OxO resolver for one entity kind.
func New(client *transport.Client, ot ontology.OntologyType, enricher Enricher, opts ...Option) *Resolver {
	r := &Resolver{
		client:   client,
		ontology: ot,
		enricher: enricher,
		url:      constants.OXOURL,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID names the backing service.
func (r *Resolver) ID() string { return serviceName }

// URL returns the search endpoint.
func (r *Resolver) URL() string { return r.url }

type searchRequest struct {
	IDs           []string `json:"ids"`
	InputSource   *string  `json:"inputSource"`
	MappingTarget []string `json:"mappingTarget"`
	MappingSource []string `json:"mappingSource"`
	Distance      int      `json:"distance"`
}

type searchResponse struct {
	Embedded struct {
		SearchResults []struct {
			QueryID             string `json:"queryId"`
			Curie               string `json:"curie"`
			Label               string `json:"label"`
			MappingResponseList []struct {
				Curie        string `json:"curie"`
				Label        string `json:"label"`
				TargetPrefix string `json:"targetPrefix"`
			} `json:"mappingResponseList"`
		} `json:"searchResults"`
	} `json:"_embedded"`
}

// Lookup maps one batch of curies onto every configured target database in a
// single search call.
func (r *Resolver) Lookup(ctx context.Context, ids []ontology.Identifier) ([]converter.Match, error) {
	curies := make([]string, len(ids))
	for i, id := range ids {
		curies[i] = id.String()
	}

	request := searchRequest{
		IDs:           curies,
		InputSource:   nil,
		MappingTarget: r.ontology.Choices,
		MappingSource: []string{},
		Distance:      1,
	}

	var response searchResponse
	if err := r.client.PostJSON(ctx, serviceName, r.url, request, &response); err != nil {
		return nil, err
	}
	if len(response.Embedded.SearchResults) == 0 {
		return nil, errors.NewNoResultError()
	}

	// Preallocate so the byQuery pointers stay valid; growing the slice
	// while holding element pointers would strand them in stale arrays.
	byQuery := make(map[string]*converter.Match, len(ids))
	matches := make([]converter.Match, len(ids))
	for i, id := range ids {
		matches[i] = converter.Match{Query: id, Values: make(map[string][]string)}
		byQuery[id.String()] = &matches[i]
	}

	usable := 0
	for _, result := range response.Embedded.SearchResults {
		match, found := byQuery[result.QueryID]
		if !found {
			r.logger.Warn().Str("curie", result.QueryID).Msg("Dropping result for unrequested id")
			continue
		}
		if result.Label != "" && match.Metadata == nil {
			match.Metadata = ontology.Metadata{"name": result.Label}
		}
		for _, mapping := range result.MappingResponseList {
			if mapping.Curie == "" {
				continue
			}
			match.Values[mapping.TargetPrefix] = append(match.Values[mapping.TargetPrefix], mapping.Curie)
			usable++
		}
	}
	if usable == 0 {
		return nil, errors.NewNoResultError()
	}
	return matches, nil
}

// EnrichMetadata delegates to the injected enricher.
func (r *Resolver) EnrichMetadata(ctx context.Context, ids []*ontology.ConvertedID, targetDatabase string) error {
	if r.enricher == nil {
		return nil
	}
	return r.enricher.EnrichMetadata(ctx, ids, targetDatabase)
}
