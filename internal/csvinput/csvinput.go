// Package csvinput reads the batch input CSV. Each data row becomes one set
// of dot-notation overrides keyed by the header row, DictReader-style.
package csvinput

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cloud-rf/cloudrf-cli/internal/template"
)

// ErrMalformedCSVRow indicates an empty header, an empty cell, or a row whose
// field count does not match the header.
var ErrMalformedCSVRow = errors.New("malformed CSV row")

// Row maps a dot-notation header to the override value from one CSV data row.
type Row map[string]string

// Load reads the CSV file at path and returns its data rows in file order.
// The header row must be present; a file with no data rows returns nil,
// which callers treat the same as no CSV being supplied at all.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input CSV file %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row of %q: %w", path, err)
	}

	for _, header := range headers {
		if header == "" {
			return nil, fmt.Errorf("%w: empty header in input CSV file %q", ErrMalformedCSVRow, path)
		}
		// Depth validation happens once here rather than per data row.
		if _, err := template.ParsePath(header); err != nil {
			return nil, fmt.Errorf("input CSV file %q: %w", path, err)
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d of %q: %v", ErrMalformedCSVRow, line, path, err)
		}

		row := make(Row, len(headers))
		for i, header := range headers {
			if record[i] == "" {
				return nil, fmt.Errorf("%w: empty value for %q on line %d of %q", ErrMalformedCSVRow, header, line, path)
			}
			row[header] = record[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}
