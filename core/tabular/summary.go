package tabular

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Band is a percentage interval [Min,Max). The last band of a list also
// includes its upper bound.
type Band struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// DefaultBands returns the load bands used for absorbed power ratios.
func DefaultBands() []Band {
	return []Band{
		{Label: "0-30", Min: 0, Max: 30},
		{Label: "30-50", Min: 30, Max: 50},
		{Label: "50-70", Min: 50, Max: 70},
		{Label: "70-100", Min: 70, Max: 100},
	}
}

// ValidateBands checks that bands are well formed and ascending.
func ValidateBands(bands []Band) error {
	for i, b := range bands {
		if b.Max <= b.Min {
			return fmt.Errorf("band %s: max must exceed min", b.Label)
		}
		if i > 0 && b.Min < bands[i-1].Max {
			return fmt.Errorf("band %s overlaps %s", b.Label, bands[i-1].Label)
		}
	}
	return nil
}

// BandSummary aggregates the rows whose ratio falls in Band.
type BandSummary struct {
	Band  Band
	Count int
	// Means holds the mean of every numeric column, keyed by column name.
	Means map[string]float64
}

// Summary is the per-band result for a table.
type Summary struct {
	Columns    []string
	Bands      []BandSummary
	OutOfRange int
}

// Summarize buckets rows by ratioColumn expressed as a percentage and averages
// every numeric column within each band. Rows with an empty ratio are ignored.
func Summarize(t Table, ratioColumn string, bands []Band) (Summary, error) {
	if len(bands) == 0 {
		bands = DefaultBands()
	}
	if err := ValidateBands(bands); err != nil {
		return Summary{}, err
	}
	ri, err := t.ColumnIndex(ratioColumn)
	if err != nil {
		return Summary{}, err
	}
	numeric := numericColumns(t)
	sum := Summary{Bands: make([]BandSummary, len(bands))}
	for _, c := range numeric {
		sum.Columns = append(sum.Columns, t.Headers[c])
	}
	members := make([][]int, len(bands))
	for r := range t.Rows {
		v, err := ParseNumber(t.Cell(r, ri))
		if err != nil {
			continue
		}
		b := bandOf(v*100, bands)
		if b < 0 {
			sum.OutOfRange++
			continue
		}
		members[b] = append(members[b], r)
	}
	for i, b := range bands {
		bs := BandSummary{Band: b, Count: len(members[i]), Means: map[string]float64{}}
		for _, c := range numeric {
			var vals []float64
			for _, r := range members[i] {
				if v, err := ParseNumber(t.Cell(r, c)); err == nil {
					vals = append(vals, v)
				}
			}
			if len(vals) > 0 {
				bs.Means[t.Headers[c]] = stat.Mean(vals, nil)
			}
		}
		sum.Bands[i] = bs
	}
	return sum, nil
}

// Table renders the summary with one row per band.
func (s Summary) Table() Table {
	out := Table{Headers: []string{"band", "count"}}
	for _, c := range s.Columns {
		out.Headers = append(out.Headers, "mean_"+c)
	}
	for _, b := range s.Bands {
		row := []string{b.Band.Label, strconv.Itoa(b.Count)}
		for _, c := range s.Columns {
			v, ok := b.Means[c]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, FormatNumber(v))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func bandOf(pct float64, bands []Band) int {
	for i, b := range bands {
		if pct >= b.Min && pct < b.Max {
			return i
		}
		if i == len(bands)-1 && pct == b.Max {
			return i
		}
	}
	return -1
}

// numericColumns lists the columns where every non-empty cell is a number and
// at least one cell is set.
func numericColumns(t Table) []int {
	var out []int
	for c := range t.Headers {
		seen := false
		ok := true
		for r := range t.Rows {
			cell := t.Cell(r, c)
			if cell == "" {
				continue
			}
			if _, err := ParseNumber(cell); err != nil {
				ok = false
				break
			}
			seen = true
		}
		if ok && seen {
			out = append(out, c)
		}
	}
	return out
}
