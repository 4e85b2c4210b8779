package tabular

import (
	"fmt"
	"strconv"
	"strings"
)

// MergeColumn names the column identifying the merged table a row comes from.
const MergeColumn = "merge"

// Report is one merged table with its ratio columns and band summary.
type Report struct {
	Name    string
	Table   Table
	Summary Summary
}

// ParseMergeSets reads "0,1;2,3" into [[0 1] [2 3]]. Blank input yields nil.
func ParseMergeSets(s string) ([][]int, error) {
	var out [][]int
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var set []int
		for _, f := range strings.Split(part, ",") {
			i, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("merge %q: %w", part, err)
			}
			set = append(set, i)
		}
		out = append(out, set)
	}
	return out, nil
}

// BuildReports groups t with every group definition, concatenates the groups
// of each merge set and summarizes the ratios. Without merge sets each group is
// reported on its own.
func BuildReports(t Table, groups []GroupSpec, merges [][]int, bands []Band) ([]Report, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("no column groups defined")
	}
	grouped := make([]Table, len(groups))
	for i, g := range groups {
		gt, err := Group(t, g)
		if err != nil {
			return nil, err
		}
		grouped[i] = gt
	}
	if len(merges) == 0 {
		for i := range groups {
			merges = append(merges, []int{i})
		}
	}
	out := make([]Report, 0, len(merges))
	for _, set := range merges {
		parts := make([]Table, len(set))
		names := make([]string, len(set))
		for j, i := range set {
			if i < 0 || i >= len(grouped) {
				return nil, fmt.Errorf("merge %v: group index %d out of range", set, i)
			}
			parts[j] = grouped[i]
			names[j] = groupName(groups[i], i)
		}
		name := strings.Join(names, "+")
		withRatios, err := AddRatios(Merge(parts...))
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", name, err)
		}
		sum, err := Summarize(withRatios, AbsorbedPowerRatio, bands)
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", name, err)
		}
		out = append(out, Report{Name: name, Table: withRatios, Summary: sum})
	}
	return out, nil
}

func groupName(g GroupSpec, i int) string {
	if g.Name != "" {
		return g.Name
	}
	return "group" + strconv.Itoa(i)
}

// SummaryTable concatenates the band summaries of every report, prefixed with
// the merge column.
func SummaryTable(reports []Report) Table {
	tables := make([]Table, len(reports))
	for i, r := range reports {
		tables[i] = withMergeColumn(r.Name, r.Summary.Table())
	}
	return Merge(tables...)
}

// MergedTable concatenates the merged data of every report, prefixed with the
// merge column.
func MergedTable(reports []Report) Table {
	tables := make([]Table, len(reports))
	for i, r := range reports {
		tables[i] = withMergeColumn(r.Name, r.Table)
	}
	return Merge(tables...)
}

func withMergeColumn(name string, t Table) Table {
	out := Table{Headers: append([]string{MergeColumn}, t.Headers...), Rows: make([][]string, len(t.Rows))}
	for r, row := range t.Normalize().Rows {
		out.Rows[r] = append([]string{name}, row...)
	}
	return out
}
