package ontology

// ConversionResult is the complete, serializable snapshot of one conversion
// run. It round-trips to JSON so a later invocation can reformat previously
// converted identifiers instead of re-querying external services.
type ConversionResult struct {
	IDs             []string       `json:"ids"`
	Strategy        Strategy       `json:"strategy"`
	DefaultDatabase string         `json:"default_database"`
	ConvertedIDs    []*ConvertedID `json:"converted_ids"`
	Databases       []string       `json:"databases"`
	DatabaseURL     string         `json:"database_url"`
	FailedIDs       []FailedID     `json:"failed_ids"`
}

// Converted returns the converted id for the given raw id, or nil.
func (r *ConversionResult) Converted(rawID string) *ConvertedID {
	for _, c := range r.ConvertedIDs {
		if c.RawID == rawID {
			return c
		}
	}
	return nil
}
