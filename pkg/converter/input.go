package converter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pigeonworks-llc/flex-convert/pkg/schema"
	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

// readCSV reads a delimited input file. The first line is the header and
// must carry field names matching input schema column names. Values in
// numeric schema columns are coerced with the safe conversion policy so
// that CSV and fixed-width input feed the rules identically.
func (c *Converter) readCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows tolerated; short rows pad empty

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	numeric := make(map[string]bool)
	for _, col := range c.input.Columns {
		if col.DataType == schema.TypeNumeric {
			numeric[col.Name] = true
		}
	}

	t := table.New(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		row := make(table.Row, len(header))
		for i, name := range header {
			var value string
			if i < len(record) {
				value = record[i]
			}
			if numeric[name] {
				row[name] = table.SafeFloat(value)
			} else {
				row[name] = value
			}
		}
		t.Append(row)
	}

	slog.Info("parsed CSV file", "path", path, "records", t.Len())
	return t, nil
}
