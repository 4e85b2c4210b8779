package tabular

import (
	"fmt"
	"math"
)

const (
	// AbsorbedPowerRatio is column 2 divided by column 3.
	AbsorbedPowerRatio = "absorbed_power_ratio"
	// FuelRatio is column 4 divided by column 2.
	FuelRatio = "fuel_ratio"
)

// AddRatios appends the ratio columns computed from fixed column positions.
// Cells that cannot be computed are left empty.
func AddRatios(t Table) (Table, error) {
	w := t.Width()
	if w < 3 {
		return Table{}, fmt.Errorf("%w: ratios need 3 columns, got %d", ErrTooFewColumns, w)
	}
	withFuel := w >= 4
	out := Table{Headers: append(append([]string(nil), t.Headers...), AbsorbedPowerRatio)}
	if withFuel {
		out.Headers = append(out.Headers, FuelRatio)
	}
	out.Rows = make([][]string, len(t.Rows))
	for r := range t.Rows {
		row := make([]string, len(out.Headers))
		for c := 0; c < w; c++ {
			row[c] = t.Cell(r, c)
		}
		row[w] = ratio(t.Cell(r, 1), t.Cell(r, 2))
		if withFuel {
			row[w+1] = ratio(t.Cell(r, 3), t.Cell(r, 1))
		}
		out.Rows[r] = row
	}
	return out, nil
}

func ratio(num, den string) string {
	n, err := ParseNumber(num)
	if err != nil {
		return ""
	}
	d, err := ParseNumber(den)
	if err != nil || d == 0 {
		return ""
	}
	v := n / d
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return FormatNumber(v)
}
