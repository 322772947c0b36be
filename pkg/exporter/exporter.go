// Package exporter writes converted tables to delimited or spreadsheet
// files.
package exporter

import (
	"fmt"
	"strings"

	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

// Output formats.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
)

// Save writes the table to path in the requested format. Unsupported format
// requests are rejected.
func Save(t *table.Table, path, format string) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return WriteCSV(t, path, CSVOptions{})
	case FormatExcel:
		return WriteExcel(t, path)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
