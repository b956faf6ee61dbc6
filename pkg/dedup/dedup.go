// Package dedup collapses near-duplicate entity rows produced by repeated
// conversion runs. Rows carrying a non-canonical identifier are folded into
// the canonical row they cross-reference, then the whole table is aggregated
// by (id, label).
package dedup

import (
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/open-prophetdb/ontology-matcher/pkg/formatter"
	"github.com/open-prophetdb/ontology-matcher/pkg/logging"
)

var fold = cases.Fold()

// Engine deduplicates a formatted entity table. It needs to know, per label,
// which database is canonical; labels outside the map pass through unchanged.
type Engine struct {
	defaults map[string]string
	logger   *zerolog.Logger
}

// Result holds the three views of one dedup pass. Full is the merged table,
// Remaining holds the unofficial rows that could not be merged (no match or
// an ambiguous one), and Aggregated is Full grouped by (id, label).
type Result struct {
	Full       []formatter.Row
	Remaining  []formatter.Row
	Aggregated []formatter.Row
}

// New creates an Engine from a label to default-database map.
func New(defaults map[string]string) *Engine {
	return &Engine{defaults: defaults, logger: logging.Default()}
}

// Dedup collapses duplicates per label. For each unofficial row it tries, in
// order: its id in an official row's xrefs, its name in an official row's
// synonyms, its name contained in an official row's name. The first rule
// with any hits decides: exactly one candidate merges, more than one leaves
// the row unmerged. Matching never guesses among candidates.
func (e *Engine) Dedup(rows []formatter.Row) *Result {
	result := &Result{}

	for _, label := range labelsInOrder(rows) {
		group := rowsForLabel(rows, label)
		defaultDB, known := e.defaults[label]
		if !known {
			e.logger.Warn().
				Str("label", label).
				Int("rows", len(group)).
				Msg("Unknown label, keeping rows unchanged")
			result.Full = append(result.Full, group...)
			continue
		}

		official, unofficial := partition(group, defaultDB)
		var remaining []formatter.Row
		for _, row := range unofficial {
			if idx, ok := e.matchOfficial(row, official); ok {
				official[idx].Xrefs = formatter.JoinList(formatter.Union(
					formatter.SplitList(official[idx].Xrefs),
					[]string{row.ID},
					formatter.SplitList(row.Xrefs),
				))
				continue
			}
			remaining = append(remaining, row)
		}

		e.logger.Info().
			Str("label", label).
			Int("official", len(official)).
			Int("merged", len(unofficial)-len(remaining)).
			Int("remaining", len(remaining)).
			Msg("Deduplicated label group")

		result.Full = append(result.Full, official...)
		result.Full = append(result.Full, remaining...)
		result.Remaining = append(result.Remaining, remaining...)
	}

	result.Aggregated = aggregate(result.Full)
	return result
}

// matchOfficial finds the one official row the unofficial row belongs to.
// Rules run in priority order and the first rule with any candidates is
// final, whether or not it is unique.
func (e *Engine) matchOfficial(row formatter.Row, official []formatter.Row) (int, bool) {
	id := fold.String(strings.TrimSpace(row.ID))
	name := fold.String(strings.TrimSpace(row.Name))

	rules := []func(formatter.Row) bool{
		func(o formatter.Row) bool {
			return containsFolded(formatter.SplitList(o.Xrefs), id)
		},
		func(o formatter.Row) bool {
			return name != "" && containsFolded(formatter.SplitList(o.Synonyms), name)
		},
		func(o formatter.Row) bool {
			return name != "" && strings.Contains(fold.String(o.Name), name)
		},
	}

	for _, rule := range rules {
		candidates := indexesWhere(official, rule)
		if len(candidates) == 1 {
			return candidates[0], true
		}
		if len(candidates) > 1 {
			return 0, false
		}
	}
	return 0, false
}

func containsFolded(values []string, target string) bool {
	for _, v := range values {
		if fold.String(v) == target {
			return true
		}
	}
	return false
}

func indexesWhere(rows []formatter.Row, match func(formatter.Row) bool) []int {
	var out []int
	for i, row := range rows {
		if match(row) {
			out = append(out, i)
		}
	}
	return out
}

// partition splits rows into official (id prefix equals the label's default
// database) and everything else, preserving order.
func partition(rows []formatter.Row, defaultDB string) (official, unofficial []formatter.Row) {
	for _, row := range rows {
		prefix, _, _ := strings.Cut(row.ID, ":")
		if prefix == defaultDB {
			official = append(official, row)
		} else {
			unofficial = append(unofficial, row)
		}
	}
	return official, unofficial
}

// aggregate groups rows by (id, label), keeping the first non-empty value of
// each singleton field and unioning the list-valued fields.
func aggregate(rows []formatter.Row) []formatter.Row {
	type key struct{ id, label string }

	index := make(map[key]int, len(rows))
	var out []formatter.Row
	for _, row := range rows {
		k := key{row.ID, row.Label}
		i, seen := index[k]
		if !seen {
			index[k] = len(out)
			row.Synonyms = formatter.JoinList(formatter.SplitList(row.Synonyms))
			row.Pmids = formatter.JoinList(formatter.SplitList(row.Pmids))
			row.Xrefs = formatter.JoinList(formatter.SplitList(row.Xrefs))
			out = append(out, row)
			continue
		}

		merged := &out[i]
		merged.Name = firstNonEmpty(merged.Name, row.Name)
		merged.Description = firstNonEmpty(merged.Description, row.Description)
		merged.Resource = firstNonEmpty(merged.Resource, row.Resource)
		merged.Taxid = firstNonEmpty(merged.Taxid, row.Taxid)
		merged.Xrefs = formatter.JoinList(formatter.Union(
			formatter.SplitList(merged.Xrefs), formatter.SplitList(row.Xrefs)))
		merged.Synonyms = formatter.JoinList(formatter.Union(
			formatter.SplitList(merged.Synonyms), formatter.SplitList(row.Synonyms)))
		merged.Pmids = formatter.JoinList(formatter.Union(
			formatter.SplitList(merged.Pmids), formatter.SplitList(row.Pmids)))
		merged.RawID = formatter.JoinList(formatter.Union(
			formatter.SplitList(merged.RawID), formatter.SplitList(row.RawID)))
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// labelsInOrder returns the distinct labels in first-appearance order.
func labelsInOrder(rows []formatter.Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		if !seen[row.Label] {
			seen[row.Label] = true
			out = append(out, row.Label)
		}
	}
	return out
}

func rowsForLabel(rows []formatter.Row, label string) []formatter.Row {
	var out []formatter.Row
	for _, row := range rows {
		if row.Label == label {
			out = append(out, row)
		}
	}
	return out
}
