package ontology

import (
	"encoding/json"
	"strings"
)

// Metadata holds descriptive fields fetched from a resolver for one
// identifier: name, synonyms, description, cross-references and similar.
// Keys and value shapes vary per backing service, so this stays a dynamic
// map; the typed fields of ConvertedID cover everything with fixed shape.
type Metadata map[string]any

// FailedID records one identifier that could not be converted, with its
// position in the caller's input and a reason from the closed reason set.
// Immutable once created.
type FailedID struct {
	Index  int    `json:"idx"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// ConvertedID records one successfully converted identifier: its position in
// the caller's input, the raw id, and the equivalent values per target
// database. Metadata may be populated later, in place, by a
// metadata-enrichment pass; everything else is read-only after creation.
type ConvertedID struct {
	Index int
	RawID string

	// Databases maps each configured database to its matched values, always
	// prefixed ("MONDO:0005233"). A nil slice records that the database was
	// probed but yielded nothing; an absent key means it was never probed.
	// The raw id's own database always maps to the raw id itself.
	Databases map[string][]string

	Metadata Metadata
}

// Prefix returns the database prefix of the raw id.
func (c *ConvertedID) Prefix() string {
	prefix, _, _ := strings.Cut(c.RawID, ":")
	return prefix
}

// Values returns the matched values for db, or nil when absent.
func (c *ConvertedID) Values(db string) []string {
	return c.Databases[db]
}

// Lookup resolves a field by key over the closed field set ("idx", "raw_id",
// "metadata") plus the database keys. Unknown keys return nil.
func (c *ConvertedID) Lookup(key string) any {
	switch key {
	case "idx":
		return c.Index
	case "raw_id":
		return c.RawID
	case "metadata":
		return c.Metadata
	}
	if values, ok := c.Databases[key]; ok {
		if values == nil {
			return nil
		}
		return values
	}
	return nil
}

// UpdateMetadata merges the given fields into the metadata map, creating it
// if needed. Existing keys are overwritten.
func (c *ConvertedID) UpdateMetadata(metadata Metadata) {
	if len(metadata) == 0 {
		return
	}
	if c.Metadata == nil {
		c.Metadata = make(Metadata, len(metadata))
	}
	for key, value := range metadata {
		c.Metadata[key] = value
	}
}

// MarshalJSON flattens the per-database values into the top-level object so
// the persisted layout is {"idx": ..., "raw_id": ..., "metadata": ...,
// "<DB>": ...}. The raw id's own database serializes as the raw id string;
// other databases serialize as lists, or null when probed without a match.
func (c *ConvertedID) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(c.Databases)+3)
	obj["idx"] = c.Index
	obj["raw_id"] = c.RawID
	if c.Metadata == nil {
		obj["metadata"] = nil
	} else {
		obj["metadata"] = c.Metadata
	}

	prefix := c.Prefix()
	for db, values := range c.Databases {
		switch {
		case db == prefix:
			obj[db] = c.RawID
		case values == nil:
			obj[db] = nil
		default:
			obj[db] = values
		}
	}
	return json.Marshal(obj)
}

// UnmarshalJSON rebuilds a ConvertedID from the flattened layout produced by
// MarshalJSON.
func (c *ConvertedID) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	if raw, ok := obj["idx"]; ok {
		if err := json.Unmarshal(raw, &c.Index); err != nil {
			return err
		}
	}
	if raw, ok := obj["raw_id"]; ok {
		if err := json.Unmarshal(raw, &c.RawID); err != nil {
			return err
		}
	}
	if raw, ok := obj["metadata"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &c.Metadata); err != nil {
			return err
		}
	}

	c.Databases = make(map[string][]string)
	for key, raw := range obj {
		switch key {
		case "idx", "raw_id", "metadata":
			continue
		}
		if string(raw) == "null" {
			c.Databases[key] = nil
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			c.Databases[key] = []string{single}
			continue
		}
		var many []string
		if err := json.Unmarshal(raw, &many); err != nil {
			return err
		}
		c.Databases[key] = many
	}
	return nil
}
