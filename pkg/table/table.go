// Package table provides the row/table value model shared by the parser,
// converter and exporters. A row maps field names to string or float64
// values; tables keep their column order and row order explicit.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Row maps a field name to its value. Values are either string or float64.
type Row map[string]any

// GetString returns the field's value as a string.
// Missing fields return the empty string.
func (r Row) GetString(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return FormatNumber(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// GetFloat returns the field's value as a float64 using the safe conversion
// policy: missing, empty or non-numeric values convert to 0.
func (r Row) GetFloat(field string) float64 {
	v, ok := r[field]
	if !ok || v == nil {
		return 0
	}
	return SafeFloat(v)
}

// Has reports whether the field is present in the row.
func (r Row) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// SafeFloat converts a value to float64. Empty strings, missing values and
// unparseable text all convert to 0 rather than failing.
func SafeFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// FormatNumber renders a float64 the way it appears in delimited output:
// integral values without a decimal point, everything else in the shortest
// round-trip form.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Table is an ordered collection of rows with a fixed column order.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order.
func New(columns []string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row to the table, preserving insertion order.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table's column set contains name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Values renders one row as strings in the table's column order.
// Fields absent from the row render as empty strings.
func (t *Table) Values(row Row) []string {
	out := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = row.GetString(col)
	}
	return out
}
