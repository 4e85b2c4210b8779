package tabular

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrColumnNotFound is returned when a named column is missing.
	ErrColumnNotFound = errors.New("column not found")
	// ErrTooFewColumns is returned when an operation needs more columns.
	ErrTooFewColumns = errors.New("too few columns")
)

// Table is a header row followed by data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Width returns the number of columns.
func (t Table) Width() int { return len(t.Headers) }

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// ColumnIndex finds a column by name ignoring case and surrounding spaces.
func (t Table) ColumnIndex(name string) (int, error) {
	want := strings.TrimSpace(name)
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// Cell returns the value at row r and column c, empty when the row is short.
func (t Table) Cell(r, c int) string {
	row := t.Rows[r]
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}

// Column returns a copy of column c.
func (t Table) Column(c int) []string {
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Cell(i, c)
	}
	return out
}

// Normalize pads or truncates every row to the header width.
func (t Table) Normalize() Table {
	out := Table{Headers: append([]string(nil), t.Headers...), Rows: make([][]string, len(t.Rows))}
	for i, row := range t.Rows {
		r := make([]string, len(t.Headers))
		copy(r, row)
		out.Rows[i] = r
	}
	return out
}
