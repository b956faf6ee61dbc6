// Package biothings resolves identifiers through the BioThings query APIs
// (MyGene, MyChem, MyDisease). The three services share one wire protocol:
// a form-encoded POST querymany call returning one hit object per matched
// query, with per-database values reachable by dotted field paths.
package biothings

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/open-prophetdb/ontology-matcher/internal/transport"
	"github.com/open-prophetdb/ontology-matcher/pkg/converter"
	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
	"github.com/open-prophetdb/ontology-matcher/pkg/logging"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

// Field binds one target database to its query scope and the dotted path of
// its value inside a hit.
type Field struct {
	Scope string
	Path  string
}

// MetaField copies a hit value reachable by Path into the metadata map under
// Key.
type MetaField struct {
	Key  string
	Path string
}

// Service is one BioThings-backed resolver.
type Service struct {
	name       string
	url        string
	ontology   ontology.OntologyType
	fields     map[string]Field
	metaFields []MetaField
	client     *transport.Client
	logger     *zerolog.Logger
}

var _ converter.Resolver = (*Service)(nil)

// New creates a Service. fields must cover every database the service can
// query; databases outside the map are reported as unmatched.
func New(client *transport.Client, name, serviceURL string, ot ontology.OntologyType, fields map[string]Field, metaFields []MetaField) *Service {
	return &Service{
		name:       name,
		url:        serviceURL,
		ontology:   ot,
		fields:     fields,
		metaFields: metaFields,
		client:     client,
		logger:     logging.Default(),
	}
}

// ID names the backing service.
func (s *Service) ID() string { return s.name }

// URL returns the query endpoint.
func (s *Service) URL() string { return s.url }

// Lookup groups the batch by database prefix and issues one querymany call
// per group, since the query scope differs per database.
func (s *Service) Lookup(ctx context.Context, ids []ontology.Identifier) ([]converter.Match, error) {
	grouped := ontology.Group(ids)

	byQuery := make(map[string]*converter.Match, len(ids))
	matches := make([]converter.Match, len(ids))
	for i, id := range ids {
		matches[i] = converter.Match{Query: id, Values: make(map[string][]string)}
		byQuery[queryKey(id.Database, id.Value)] = &matches[i]
	}

	usable := 0
	for _, db := range grouped.Databases(ids) {
		field, known := s.fields[db]
		if !known {
			continue
		}
		hits, err := s.queryMany(ctx, grouped.ByDatabase[db], field.Scope, s.lookupFields())
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			query, _ := hit["query"].(string)
			match, found := byQuery[queryKey(db, query)]
			if !found {
				s.logger.Warn().Str("query", query).Msg("Dropping hit for unrequested id")
				continue
			}
			if notFound(hit) {
				continue
			}
			for target, targetField := range s.fields {
				for _, value := range pathValues(hit, targetField.Path) {
					// Multiple hits for one query repeat the queried value;
					// only genuinely distinct candidates count as ambiguity.
					match.Values[target] = appendUnique(match.Values[target], curie(target, value))
					usable++
				}
			}
			if match.Metadata == nil {
				if meta := s.extractMetadata(hit); len(meta) > 0 {
					match.Metadata = meta
				}
			}
		}
	}
	if usable == 0 {
		return nil, errors.NewNoResultError()
	}
	return matches, nil
}

// EnrichMetadata queries the service by each converted id's value in
// targetDatabase and folds the descriptive fields into its metadata. Ids
// without a hit keep their metadata absent.
func (s *Service) EnrichMetadata(ctx context.Context, ids []*ontology.ConvertedID, targetDatabase string) error {
	field, known := s.fields[targetDatabase]
	if !known {
		s.logger.Warn().Str("database", targetDatabase).Msg("No query scope for database, skipping enrichment")
		return nil
	}

	byValue := make(map[string]*ontology.ConvertedID, len(ids))
	values := make([]string, 0, len(ids))
	for _, cid := range ids {
		dbValues := cid.Values(targetDatabase)
		if len(dbValues) != 1 {
			continue
		}
		value := localValue(targetDatabase, dbValues[0])
		byValue[value] = cid
		values = append(values, value)
	}
	if len(values) == 0 {
		return nil
	}

	hits, err := s.queryMany(ctx, values, field.Scope, s.metadataFields())
	if err != nil {
		return err
	}
	for _, hit := range hits {
		query, _ := hit["query"].(string)
		cid, found := byValue[query]
		if !found || notFound(hit) {
			continue
		}
		if meta := s.extractMetadata(hit); len(meta) > 0 {
			cid.UpdateMetadata(meta)
		}
	}
	return nil
}

// queryMany performs one batched query call and decodes the hit list.
func (s *Service) queryMany(ctx context.Context, values []string, scope string, fields []string) ([]map[string]any, error) {
	form := url.Values{}
	form.Set("q", strings.Join(values, ","))
	form.Set("scopes", scope)
	form.Set("fields", strings.Join(fields, ","))
	form.Set("dotfield", "true")

	var hits []map[string]any
	if err := s.client.PostForm(ctx, s.name, s.url, form, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

func (s *Service) lookupFields() []string {
	var out []string
	for _, field := range s.fields {
		out = append(out, field.Path)
	}
	for _, meta := range s.metaFields {
		out = append(out, meta.Path)
	}
	return dedupe(out)
}

func (s *Service) metadataFields() []string {
	var out []string
	for _, meta := range s.metaFields {
		out = append(out, meta.Path)
	}
	return dedupe(out)
}

func (s *Service) extractMetadata(hit map[string]any) ontology.Metadata {
	meta := ontology.Metadata{}
	for _, field := range s.metaFields {
		values := pathValues(hit, field.Path)
		switch len(values) {
		case 0:
		case 1:
			meta[field.Key] = values[0]
		default:
			meta[field.Key] = values
		}
	}
	return meta
}

func queryKey(db, value string) string { return db + "\x00" + value }

func appendUnique(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}
	return append(values, value)
}

// curie prefixes a value with its database unless the service already
// returned a curie (CHEBI ids, for example, arrive as "CHEBI:12345").
func curie(db, value string) string {
	if strings.HasPrefix(value, db+":") {
		return value
	}
	return db + ":" + value
}

func localValue(db, value string) string {
	return strings.TrimPrefix(value, db+":")
}

func notFound(hit map[string]any) bool {
	flag, _ := hit["notfound"].(bool)
	return flag
}

// pathValues collects the string renderings of the value at a dotted path.
// With dotfield enabled the path is usually a literal key, but nested maps
// and list-valued nodes still appear and are walked.
func pathValues(node any, path string) []string {
	if node == nil {
		return nil
	}
	if path == "" {
		return render(node)
	}

	switch typed := node.(type) {
	case map[string]any:
		if direct, ok := typed[path]; ok {
			return render(direct)
		}
		head, rest, found := strings.Cut(path, ".")
		if !found {
			return nil
		}
		return pathValues(typed[head], rest)
	case []any:
		var out []string
		for _, item := range typed {
			out = append(out, pathValues(item, path)...)
		}
		return out
	}
	return nil
}

// render flattens a decoded JSON value into strings, keeping integral
// numbers free of a trailing ".0".
func render(node any) []string {
	switch typed := node.(type) {
	case nil:
		return nil
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	case float64:
		if typed == float64(int64(typed)) {
			return []string{strconv.FormatInt(int64(typed), 10)}
		}
		return []string{strconv.FormatFloat(typed, 'f', -1, 64)}
	case bool:
		return []string{strconv.FormatBool(typed)}
	case []any:
		var out []string
		for _, item := range typed {
			out = append(out, render(item)...)
		}
		return out
	}
	return nil
}

// dedupe sorts so the fields parameter, and with it the request cache key,
// is stable across runs.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
