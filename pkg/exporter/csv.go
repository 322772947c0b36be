package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

// CSVOptions configures CSV writing behavior.
type CSVOptions struct {
	// BOMPrefix prepends a UTF-8 BOM so Excel recognizes the encoding.
	BOMPrefix bool
}

// WriteCSV writes the table to a CSV file with a header row.
func WriteCSV(t *table.Table, path string, options CSVOptions) error {
	slog.Info("writing CSV file", "path", path, "records", t.Len())

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(t.Values(row)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	slog.Info("output saved", "path", path)
	return nil
}
