package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

const excelSheetName = "Sheet1"

// WriteExcel writes the table to an .xlsx file with a header row.
func WriteExcel(t *table.Table, path string) error {
	slog.Info("writing Excel file", "path", path, "records", t.Len())

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := writeRow(f, 1, header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cells := make([]any, len(t.Columns))
		for j, col := range t.Columns {
			if v, ok := row[col]; ok && v != nil {
				cells[j] = v
			} else {
				cells[j] = ""
			}
		}
		if err := writeRow(f, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	slog.Info("output saved", "path", path)
	return nil
}

func writeRow(f *excelize.File, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to compute cell name: %w", err)
	}
	if err := f.SetSheetRow(excelSheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
