package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
)

// Stream reads a raw extract and hands each data row to handle as a
// RawRecord keyed by canonical column names. Free-text header labels are
// mapped through aliases (raw label -> canonical name); headers with no
// alias are ignored. Columns that an extract era simply does not have never
// show up in its records, which is what lets drifted schemas union by name.
//
// Structurally bad rows are reported through report and skipped; a bad value
// inside a well-formed row is not this layer's concern.
func Stream(filePath string, aliases map[string]string, handle func(models.RawRecord), report func(error)) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("error reading header row: %w", err)
	}

	columns := make(map[int]string)
	for i, label := range header {
		if canonical, ok := aliases[strings.TrimSpace(label)]; ok {
			columns[i] = canonical
		}
	}
	if len(columns) == 0 {
		return fmt.Errorf("no recognized columns in header of %s", filePath)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report(err)
			continue
		}

		record := make(models.RawRecord, len(columns))
		for i, canonical := range columns {
			if i < len(row) {
				record[canonical] = row[i]
			}
		}
		handle(record)
	}

	return nil
}

// ReadHeader returns the mapped canonical column names present in a file,
// in header order. Used to sanity-log which era schema a file carries.
func ReadHeader(filePath string, aliases map[string]string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header row: %w", err)
	}

	var canonical []string
	for _, label := range header {
		if name, ok := aliases[strings.TrimSpace(label)]; ok {
			canonical = append(canonical, name)
		}
	}
	return canonical, nil
}
