package ontology

// GroupedIDs partitions identifiers by database while preserving a lookup
// from the full identifier string back to its position in the original list.
// The position map is needed because external resolvers return results
// unordered or only per-group, while output tables must align 1:1 with the
// caller's input row order.
type GroupedIDs struct {
	// ByDatabase groups local values by their database prefix, in input order.
	ByDatabase map[string][]string

	// Position maps the full "database:value" string to its index in the
	// original list. The full string is used as the key because the same
	// local value may appear under two databases (e.g. HGNC:1 and ENTREZ:1).
	Position map[string]int
}

// Group partitions ids by database prefix.
func Group(ids []Identifier) GroupedIDs {
	grouped := GroupedIDs{
		ByDatabase: make(map[string][]string),
		Position:   make(map[string]int, len(ids)),
	}
	for idx, id := range ids {
		grouped.ByDatabase[id.Database] = append(grouped.ByDatabase[id.Database], id.Value)
		grouped.Position[id.String()] = idx
	}
	return grouped
}

// Databases returns the distinct database prefixes present in the group, in
// first-seen input order.
func (g GroupedIDs) Databases(ids []Identifier) []string {
	seen := make(map[string]bool, len(g.ByDatabase))
	var dbs []string
	for _, id := range ids {
		if !seen[id.Database] {
			seen[id.Database] = true
			dbs = append(dbs, id.Database)
		}
	}
	return dbs
}
