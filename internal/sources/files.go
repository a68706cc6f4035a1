package sources

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bbsdial/bbsdial/internal/entry"
)

// entryFileSuffixes are the file name suffixes recognized as entry files.
var entryFileSuffixes = []string{".yaml", ".yml"}

// decodeRecords parses one entry file as a YAML sequence of raw records.
// An empty file decodes to zero records.
func decodeRecords(data []byte) ([]entry.Record, error) {
	var records []entry.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse entry file: %w", err)
	}
	return records, nil
}

// parseRecords validates raw records from one file. Malformed records
// land in skipped; valid ones are returned with SourceOrigin set.
// assigned reports whether any record was given a freshly generated ID,
// in which case records has been updated in place for write-back.
func parseRecords(records []entry.Record, origin, file string) (entries []entry.Entry, skipped []error, assigned bool) {
	for i := range records {
		e, err := entry.ParseRecord(records[i])
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%s: record %d: %w", file, i, err))
			continue
		}
		// Whitespace-only IDs are assigned too, or the entry would get a
		// fresh identity on every fetch.
		if strings.TrimSpace(records[i].ID) == "" {
			records[i].ID = e.ID
			assigned = true
		}
		e.SourceOrigin = origin
		entries = append(entries, e)
	}
	return entries, skipped, assigned
}

// encodeRecords serializes records back to the entry-file form.
func encodeRecords(records []entry.Record) ([]byte, error) {
	data, err := yaml.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry records: %w", err)
	}
	return data, nil
}
