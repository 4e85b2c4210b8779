package tabular

import (
	"fmt"
	"strings"
)

// GroupSpec selects 3 or 4 columns of an uploaded table and optionally
// renames them.
type GroupSpec struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rename  []string `json:"rename"`
}

// Validate checks the block size and names.
func (g GroupSpec) Validate() error {
	if n := len(g.Columns); n != 3 && n != 4 {
		return fmt.Errorf("group %s: expected 3 or 4 columns, got %d", g.Name, n)
	}
	if len(g.Rename) != 0 && len(g.Rename) != len(g.Columns) {
		return fmt.Errorf("group %s: rename needs %d names, got %d", g.Name, len(g.Columns), len(g.Rename))
	}
	for _, c := range g.Columns {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("group %s: blank column name", g.Name)
		}
	}
	for _, c := range g.Rename {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("group %s: blank rename", g.Name)
		}
	}
	return nil
}

// Group projects the selected columns out of t and applies the renames.
func Group(t Table, g GroupSpec) (Table, error) {
	if err := g.Validate(); err != nil {
		return Table{}, err
	}
	idx := make([]int, len(g.Columns))
	for i, c := range g.Columns {
		j, err := t.ColumnIndex(c)
		if err != nil {
			return Table{}, fmt.Errorf("group %s: %w", g.Name, err)
		}
		idx[i] = j
	}
	out := Table{Headers: make([]string, len(idx)), Rows: make([][]string, len(t.Rows))}
	for i, j := range idx {
		out.Headers[i] = t.Headers[j]
		if len(g.Rename) > 0 {
			out.Headers[i] = g.Rename[i]
		}
	}
	for r := range t.Rows {
		row := make([]string, len(idx))
		for i, j := range idx {
			row[i] = t.Cell(r, j)
		}
		out.Rows[r] = row
	}
	return out, nil
}

// Merge concatenates tables vertically. Headers are matched by name and
// unioned in first-seen order; cells missing from a table are left empty.
func Merge(tables ...Table) Table {
	var out Table
	pos := map[string]int{}
	for _, t := range tables {
		for _, h := range t.Headers {
			if _, ok := pos[h]; !ok {
				pos[h] = len(out.Headers)
				out.Headers = append(out.Headers, h)
			}
		}
	}
	for _, t := range tables {
		for r := range t.Rows {
			row := make([]string, len(out.Headers))
			for c, h := range t.Headers {
				row[pos[h]] = t.Cell(r, c)
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
