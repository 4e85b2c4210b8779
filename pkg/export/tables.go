// Package export renders plans, candidate lists and summaries as CSV, XLSX
// or JSON downloads.
package export

import (
	"math"
	"strconv"
	"time"

	"github.com/kilianp07/assetplan/core/model"
	"github.com/kilianp07/assetplan/core/planner"
	"github.com/kilianp07/assetplan/core/tabular"
)

// Column layouts of the generated tables.
var (
	AssignmentHeaders  = []string{"index", "timestamp", "demand_kw", "assigned", "machines", "total_kw", "load_factor", "below_min_load"}
	UsageHeaders       = []string{"machines", "hours", "share", "energy_kwh"}
	CombinationHeaders = []string{"rank", "machines", "count", "total_kw", "min_load_kw"}
)

// AssignmentsTable lays out one row per demand point.
func AssignmentsTable(asg []model.Assignment) tabular.Table {
	t := tabular.Table{Headers: AssignmentHeaders, Rows: make([][]string, len(asg))}
	for i, a := range asg {
		t.Rows[i] = []string{
			strconv.Itoa(a.Point.Index),
			formatTime(a.Point.Timestamp),
			num(a.Point.DemandKW),
			strconv.FormatBool(a.Satisfied()),
			a.Label(),
			num(a.TotalKW()),
			num(round(a.LoadFactor(), 4)),
			strconv.FormatBool(a.BelowMinLoad()),
		}
	}
	return t
}

// UsageTable lays out the hours spent per combination.
func UsageTable(usage []planner.CombinationUsage) tabular.Table {
	t := tabular.Table{Headers: UsageHeaders, Rows: make([][]string, len(usage))}
	for i, u := range usage {
		t.Rows[i] = []string{u.Label, strconv.Itoa(u.Hours), num(round(u.Share, 4)), num(round(u.EnergyKWh, 3))}
	}
	return t
}

// CombinationsTable lists candidates in generation order.
func CombinationsTable(cands []model.Combination) tabular.Table {
	t := tabular.Table{Headers: CombinationHeaders, Rows: make([][]string, len(cands))}
	for i, c := range cands {
		t.Rows[i] = []string{strconv.Itoa(i + 1), c.Label(), strconv.Itoa(c.Len()), num(c.TotalKW), num(round(c.MinLoadKW, 3))}
	}
	return t
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(time.RFC3339)
}

func num(f float64) string { return tabular.FormatNumber(f) }

func round(f float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(f*p) / p
}
