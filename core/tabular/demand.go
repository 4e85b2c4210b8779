package tabular

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/assetplan/core/model"
)

// DefaultTimeLayouts lists the timestamp formats tried when none are configured.
var DefaultTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"01-02-06 15:04",
}

// DemandColumns names the power and time columns of an uploaded file.
type DemandColumns struct {
	Power string `json:"power_column"`
	Time  string `json:"time_column"`
}

// ExtractOptions controls how demand rows are parsed.
type ExtractOptions struct {
	TimeLayouts []string
	// Strict fails on the first invalid row instead of skipping it.
	Strict   bool
	Location *time.Location
	// ThousandsComma reads "1,234" as 1234. Set it for comma delimited files.
	ThousandsComma bool
}

// ExtractDemand reads the demand series from t. It returns the series and the
// number of skipped rows. The time column is optional.
func ExtractDemand(t Table, cols DemandColumns, opts ExtractOptions) (model.DemandSeries, int, error) {
	pi, err := t.ColumnIndex(cols.Power)
	if err != nil {
		return nil, 0, fmt.Errorf("power %w", err)
	}
	ti := -1
	if strings.TrimSpace(cols.Time) != "" {
		if ti, err = t.ColumnIndex(cols.Time); err != nil {
			return nil, 0, fmt.Errorf("time %w", err)
		}
	}
	layouts := opts.TimeLayouts
	if len(layouts) == 0 {
		layouts = DefaultTimeLayouts
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	parse := ParseNumber
	if opts.ThousandsComma {
		parse = ParseNumberThousands
	}

	series := make(model.DemandSeries, 0, t.Len())
	skipped := 0
	for r := range t.Rows {
		p := model.DemandPoint{Index: r + 1}
		raw := t.Cell(r, pi)
		if strings.TrimSpace(raw) == "" && rowEmpty(t.Rows[r]) {
			continue
		}
		v, perr := parse(raw)
		if perr == nil && ti >= 0 {
			p.Timestamp, perr = parseTime(t.Cell(r, ti), layouts, loc)
		}
		if perr != nil {
			if opts.Strict {
				return nil, skipped, fmt.Errorf("row %d: %w", r+1, perr)
			}
			skipped++
			continue
		}
		p.DemandKW = v
		series = append(series, p)
	}
	return series, skipped, nil
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseTime(s string, layouts []string, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, l := range layouts {
		if ts, err := time.ParseInLocation(l, v, loc); err == nil {
			return ts, nil
		}
	}
	// Excel stores dates as day serials when the cell is left unformatted.
	if serial, err := ParseNumber(v); err == nil && serial > 0 {
		if ts, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
