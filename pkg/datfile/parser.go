// Package datfile reads fixed-width .dat files. The byte layout is implied
// entirely by the input schema: offsets are cumulative sums of prior column
// lengths, starting at zero. There is no header line.
package datfile

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pigeonworks-llc/flex-convert/pkg/diag"
	"github.com/pigeonworks-llc/flex-convert/pkg/schema"
	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

// Parser parses fixed-width lines according to an input schema.
type Parser struct {
	schema   *schema.InputSchema
	reporter *diag.Reporter
}

// NewParser creates a parser for the given input schema.
func NewParser(s *schema.InputSchema, reporter *diag.Reporter) *Parser {
	return &Parser{schema: s, reporter: reporter}
}

// ParseFile reads a .dat file and returns its records as a table.
func (p *Parser) ParseFile(path string) (*table.Table, error) {
	slog.Info("reading .dat file", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open .dat file: %w", err)
	}
	defer f.Close()

	t, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read .dat file %s: %w", path, err)
	}

	slog.Info("parsed .dat file", "path", path, "records", t.Len())
	return t, nil
}

// Parse reads fixed-width lines from r. Blank lines are skipped entirely.
// A line that fails unexpectedly is dropped with a logged error and parsing
// continues with subsequent lines.
func (p *Parser) Parse(r io.Reader) (*table.Table, error) {
	columns := make([]string, len(p.schema.Columns))
	for i, col := range p.schema.Columns {
		columns[i] = col.Name
	}
	t := table.New(columns)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if row, ok := p.parseLineSafe(line, lineNum); ok {
			t.Append(row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan input: %w", err)
	}

	return t, nil
}

// parseLineSafe parses one line, converting any panic into a reported error
// so a bad line never aborts the whole file.
func (p *Parser) parseLineSafe(line string, lineNum int) (row table.Row, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.reporter.LineErrorf(lineNum, "error parsing line %d: %v", lineNum, r)
			row, ok = nil, false
		}
	}()
	return p.ParseLine(line, lineNum), true
}

// ParseLine extracts one record from a fixed-width line. Fields whose span
// extends beyond the line yield empty values rather than failing; a missing
// value on a required column is reported as a warning, not an error.
func (p *Parser) ParseLine(line string, lineNum int) table.Row {
	row := make(table.Row, len(p.schema.Columns))
	offset := 0

	for _, col := range p.schema.Columns {
		var value string
		if offset+col.Length > len(line) {
			if col.Required {
				p.reporter.LineWarnf(lineNum,
					"line %d: required field %q extends beyond line length", lineNum, col.Name)
			}
			value = ""
		} else {
			value = strings.TrimSpace(line[offset : offset+col.Length])
		}

		if col.Required && value == "" {
			p.reporter.LineWarnf(lineNum, "line %d: required field %q is empty", lineNum, col.Name)
		}

		switch col.DataType {
		case schema.TypeNumeric:
			if value == "" {
				row[col.Name] = 0.0
			} else if f, err := strconv.ParseFloat(value, 64); err != nil {
				p.reporter.LineWarnf(lineNum,
					"line %d: invalid numeric value for field %q: %s", lineNum, col.Name, value)
				row[col.Name] = 0.0
			} else {
				row[col.Name] = f
			}
		default:
			// string and any unrecognized type
			row[col.Name] = value
		}

		offset += col.Length
	}

	return row
}
