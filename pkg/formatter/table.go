package formatter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
)

// delimiterFor picks the field delimiter from the file extension: comma for
// .csv, tab otherwise.
func delimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ','
	}
	return '\t'
}

// ReadTable reads a TSV/CSV entity table. Rows with an empty id are dropped,
// matching how blank cells are skipped during identifier validation. Missing
// required columns fail atomically with every violation reported.
func ReadTable(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = delimiterFor(path)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("tsv", path, err)
	}
	if len(records) == 0 {
		return nil, errors.WrapParse("tsv", path, errors.New("empty file"))
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var violations []errors.Violation
	for _, col := range ExpectedColumns() {
		if _, ok := index[col]; !ok {
			violations = append(violations, errors.Violation{
				ID:     col,
				Reason: "missing required column",
			})
		}
	}
	if len(violations) > 0 {
		return nil, errors.NewValidationError(violations)
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := Row{
			ID:          field(record, ColumnID),
			Name:        field(record, ColumnName),
			Label:       field(record, ColumnLabel),
			Resource:    field(record, ColumnResource),
			Description: field(record, ColumnDescription),
			Synonyms:    field(record, ColumnSynonyms),
			Pmids:       field(record, ColumnPmids),
			Taxid:       field(record, ColumnTaxid),
			Xrefs:       field(record, ColumnXrefs),
			RawID:       field(record, ColumnRawID),
			Reason:      field(record, ColumnReason),
		}
		if row.ID == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteTable writes rows as a TSV/CSV table. The reason column is only
// emitted when withReason is set, which is how the failed-output table
// carries its per-row failure reasons.
func WriteTable(path string, rows []Row, withReason bool) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	writer.Comma = delimiterFor(path)

	header := []string{
		ColumnID, ColumnName, ColumnLabel, ColumnResource, ColumnDescription,
		ColumnSynonyms, ColumnPmids, ColumnTaxid, ColumnXrefs, ColumnRawID,
	}
	if withReason {
		header = append(header, ColumnReason)
	}
	if err := writer.Write(header); err != nil {
		return errors.WrapIO("write", path, err)
	}

	for _, row := range rows {
		record := []string{
			row.ID, row.Name, row.Label, row.Resource, row.Description,
			row.Synonyms, row.Pmids, row.Taxid, row.Xrefs, row.RawID,
		}
		if withReason {
			record = append(record, row.Reason)
		}
		if err := writer.Write(record); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}

	writer.Flush()
	return errors.WrapIO("write", path, writer.Error())
}
