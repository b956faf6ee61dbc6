package formatter

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
	"github.com/open-prophetdb/ontology-matcher/pkg/logging"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

// Formatter builds output tables from a ConversionResult and the caller's
// original rows. Formatting is pure with respect to its inputs: running it
// twice on the same conversion result yields identical tables.
type Formatter struct {
	ontology ontology.OntologyType
	logger   *zerolog.Logger
}

// New creates a Formatter for one entity kind.
func New(ot ontology.OntologyType) *Formatter {
	return &Formatter{ontology: ot, logger: logging.Default()}
}

// Format joins the conversion result back to the original rows and returns
// the formatted table and the failed table. Every converted id must trace
// back to an input row; a miss is a broken invariant and fails the call.
func (f *Formatter) Format(result *ontology.ConversionResult, rows []Row) (formatted, failed []Row, err error) {
	index := indexRows(rows)

	f.logger.Info().
		Int("converted", len(result.ConvertedIDs)).
		Int("failed", len(result.FailedIDs)).
		Msg("Formatting conversion result")

	for _, converted := range result.ConvertedIDs {
		base, found := index[converted.RawID]
		if !found {
			return nil, nil, errors.NewNotFoundError("record", converted.RawID)
		}

		row := base
		if converted.Metadata != nil {
			overlayMetadata(&row, converted.Metadata)
		}

		// Non-default matches always travel as cross-references, unioned with
		// whatever the base row already carried.
		xrefs := Union(f.aliasIDs(converted), SplitList(row.Xrefs))
		row.Synonyms = JoinList(SplitList(row.Synonyms))
		row.Pmids = JoinList(SplitList(row.Pmids))

		defaults := converted.Values(f.ontology.Default)
		switch {
		case len(defaults) == 0:
			// No canonical mapping: keep the raw id and every matched
			// database as a cross-reference.
			row.ID = converted.RawID
			row.Xrefs = JoinList(xrefs)
			formatted = append(formatted, row)
		case len(defaults) > 1:
			// Conversion normally rejects this upstream; a reformatted
			// snapshot from an older run can still carry it.
			row.Xrefs = JoinList(Union(defaults, xrefs))
			row.Reason = ontology.ReasonMultipleDefault
			failed = append(failed, row)
		default:
			row.RawID = converted.RawID
			row.ID = defaults[0]
			row.Resource = f.ontology.Default
			row.Label = f.ontology.Kind
			row.Xrefs = JoinList(xrefs)
			formatted = append(formatted, row)
		}
	}

	for _, failedID := range result.FailedIDs {
		base, found := index[failedID.ID]
		if !found {
			return nil, nil, errors.NewNotFoundError("record", failedID.ID)
		}
		prefix, _, _ := strings.Cut(failedID.ID, ":")

		row := base
		row.ID = failedID.ID
		row.Label = f.ontology.Kind
		row.Resource = prefix
		// An unconverted id carries no trustworthy cross-references.
		row.Xrefs = ""

		// A failure is only fatal to cross-reference enrichment, not to
		// inclusion: rows already carrying the canonical prefix stay, and
		// under the mixture strategy every row stays.
		if prefix == f.ontology.Default || result.Strategy == ontology.StrategyMixture {
			formatted = append(formatted, row)
		} else {
			row.Reason = failedID.Reason
			failed = append(failed, row)
		}
	}

	return formatted, failed, nil
}

// aliasIDs collects every matched value outside the default database.
func (f *Formatter) aliasIDs(converted *ontology.ConvertedID) []string {
	var ids []string
	for _, db := range f.ontology.Choices {
		if db == f.ontology.Default {
			continue
		}
		ids = append(ids, converted.Values(db)...)
	}
	return Union(ids)
}

// indexRows maps raw id to its row. The first occurrence wins when an id is
// duplicated in the input.
func indexRows(rows []Row) map[string]Row {
	index := make(map[string]Row, len(rows))
	for _, row := range rows {
		if _, exists := index[row.ID]; !exists {
			index[row.ID] = row
		}
	}
	return index
}

// overlayMetadata folds resolver metadata into a row. Singleton fields keep
// the base value when the metadata has none; list-valued fields are unioned
// so data already present in the base row is never dropped.
func overlayMetadata(row *Row, metadata ontology.Metadata) {
	if name := metaString(metadata, "symbol", "name"); name != "" {
		row.Name = name
	}
	if description := metaString(metadata, "summary", "description"); description != "" {
		row.Description = description
	}
	if taxid := metaString(metadata, "taxid"); taxid != "" {
		row.Taxid = taxid
	}

	synonyms := Union(
		SplitList(row.Synonyms),
		metaStrings(metadata, "synonyms"),
		metaStrings(metadata, "alias"),
		metaStrings(metadata, "other_names"),
	)
	row.Synonyms = JoinList(synonyms)

	row.Xrefs = JoinList(Union(SplitList(row.Xrefs), metaStrings(metadata, "xrefs")))
	row.Pmids = JoinList(Union(SplitList(row.Pmids), metaStrings(metadata, "pmids")))
}

// metaString returns the first non-empty scalar among the given keys.
func metaString(metadata ontology.Metadata, keys ...string) string {
	for _, key := range keys {
		switch v := metadata[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return trimFloat(v)
		case int:
			return fmt.Sprintf("%d", v)
		}
	}
	return ""
}

// metaStrings coerces a metadata value into a string list, tolerating the
// scalar, list and JSON-decoded any-list shapes the services produce.
func metaStrings(metadata ontology.Metadata, key string) []string {
	switch v := metadata[key].(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// trimFloat renders a JSON number without a trailing ".0" so taxids like
// 9606 survive the decode round-trip as integers.
func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%v", v)
}
