// Package formatter joins conversion results back to the caller's original
// rows, overlays resolver metadata, and emits the formatted and failed
// entity tables. It also persists the conversion snapshot so a later run can
// reformat without re-querying external services.
package formatter

import (
	"sort"
	"strings"
)

// Column names of the entity table.
const (
	ColumnID          = "id"
	ColumnName        = "name"
	ColumnLabel       = "label"
	ColumnResource    = "resource"
	ColumnDescription = "description"
	ColumnSynonyms    = "synonyms"
	ColumnPmids       = "pmids"
	ColumnTaxid       = "taxid"
	ColumnXrefs       = "xrefs"
	ColumnRawID       = "raw_id"
	ColumnReason      = "reason"
)

// ExpectedColumns are the columns every input file must carry.
func ExpectedColumns() []string {
	return []string{ColumnID, ColumnName, ColumnLabel, ColumnResource}
}

// OptionalColumns are recognized but not required in input files.
func OptionalColumns() []string {
	return []string{ColumnDescription, ColumnSynonyms, ColumnPmids, ColumnTaxid, ColumnXrefs}
}

// Row is one flat entity record. List-valued fields (synonyms, pmids, xrefs)
// are pipe-joined deduplicated strings.
type Row struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Resource    string `json:"resource"`
	Description string `json:"description"`
	Synonyms    string `json:"synonyms"`
	Pmids       string `json:"pmids"`
	Taxid       string `json:"taxid"`
	Xrefs       string `json:"xrefs"`
	RawID       string `json:"raw_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// SplitList splits a pipe-joined field into its non-empty members.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList pipe-joins values after deduplicating and dropping empties. The
// result is sorted so repeated formatting of the same input is byte-stable.
func JoinList(values []string) string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return strings.Join(out, "|")
}

// Union merges any number of value lists into one deduplicated list.
// Members that are themselves pipe-joined are flattened first.
func Union(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, v := range list {
			for _, part := range strings.Split(v, "|") {
				if part = strings.TrimSpace(part); part == "" || seen[part] {
					continue
				}
				seen[part] = true
				out = append(out, part)
			}
		}
	}
	return out
}
