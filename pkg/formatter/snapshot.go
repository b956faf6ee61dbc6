package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

// Snapshot is the persisted form of one conversion run: the conversion
// result plus the original, formatted and failed tables. Reloading it lets
// a later run reformat without re-querying external services.
type Snapshot struct {
	ConversionResult    *ontology.ConversionResult `json:"conversion_result"`
	FormattedData       []Row                      `json:"formatted_data"`
	FailedFormattedData []Row                      `json:"failed_formatted_data"`
	Filepath            string                     `json:"filepath"`
	Data                []Row                      `json:"data"`
}

// SnapshotPath derives the snapshot file path from an output path.
func SnapshotPath(outputPath string) string {
	return replaceExt(outputPath, ".json")
}

// FailedPath derives the failed-table path from an output path.
func FailedPath(outputPath string) string {
	return replaceExt(outputPath, ".failed.tsv")
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// SnapshotExists reports whether a snapshot already exists for the output
// path. Its existence doubles as a crude advisory lock: two runs targeting
// the same output must not both convert.
func SnapshotExists(outputPath string) bool {
	_, err := os.Stat(SnapshotPath(outputPath))
	return err == nil
}

// Save persists the snapshot next to the output path. An existing snapshot
// is never overwritten; the write itself is guarded by a file lock so a
// concurrent run cannot interleave a partial snapshot.
func (s *Snapshot) Save(outputPath string) error {
	path := SnapshotPath(outputPath)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return errors.WrapIO("lock", path, err)
	}
	if !locked {
		return errors.WrapIO("lock", path, errors.ErrAlreadyExists)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(path + ".lock")
	}()

	data, err := json.Marshal(s)
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// LoadSnapshot reloads a snapshot, rebuilding the Strategy from its string
// name and the ConvertedID/FailedID records as typed values.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	if snapshot.ConversionResult == nil {
		return nil, errors.WrapParse("json", path, errors.New("snapshot is missing the conversion_result key"))
	}
	return &snapshot, nil
}

// Output bundles the artifacts of one conversion run for writing.
type Output struct {
	Result    *ontology.ConversionResult
	Data      []Row // the caller's original rows
	Formatted []Row
	Failed    []Row
	Filepath  string // path of the input file, recorded in the snapshot
}

// Write writes the formatted table to path, the failed table to the sibling
// *.failed.tsv, and the snapshot JSON. Failed rows are never silently
// dropped; they always land in the failed table with their reason column.
func (o *Output) Write(path string) error {
	if len(o.Formatted) == 0 {
		return errors.New("cannot find any valid formatted data; check the failed table for why every row was rejected")
	}

	if err := WriteTable(path, o.Formatted, false); err != nil {
		return err
	}
	if len(o.Failed) > 0 {
		if err := WriteTable(FailedPath(path), o.Failed, true); err != nil {
			return err
		}
	}

	snapshot := &Snapshot{
		ConversionResult:    o.Result,
		FormattedData:       o.Formatted,
		FailedFormattedData: o.Failed,
		Filepath:            o.Filepath,
		Data:                o.Data,
	}
	return snapshot.Save(path)
}
