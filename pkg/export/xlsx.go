package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/assetplan/core/tabular"
)

// maxSheetName is the Excel limit on sheet name length.
const maxSheetName = 31

// LabelColumns are always written as text, whatever their content. A machine
// called "2024" stays a name.
var LabelColumns = []string{"timestamp", "assigned", "machines", "below_min_load", "band", tabular.MergeColumn}

// Sheet names a table written to a workbook. Text lists extra columns to keep
// as text on top of LabelColumns.
type Sheet struct {
	Name  string
	Table tabular.Table
	Text  []string
}

// WriteXLSX writes one workbook holding a sheet per table. A column is stored
// as numbers, so it can be charted directly, when it is not a label column and
// every non-empty cell in it parses as a number.
func WriteXLSX(w io.Writer, sheets ...Sheet) (err error) {
	if len(sheets) == 0 {
		return errors.New("export: no sheets")
	}
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	for i, s := range sheets {
		name := sheetName(s.Name, i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, s.Table, numberColumns(s.Table, s.Text)); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	_, err = f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, name string, t tabular.Table, numeric []bool) error {
	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for r, row := range t.Normalize().Rows {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = v
			if numeric[c] && v != "" {
				cells[c], _ = number(v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

// numberColumns marks the columns of t written as numbers.
func numberColumns(t tabular.Table, text []string) []bool {
	skip := make(map[string]bool, len(LabelColumns)+len(text))
	for _, h := range LabelColumns {
		skip[h] = true
	}
	for _, h := range text {
		skip[h] = true
	}
	t = t.Normalize()
	out := make([]bool, len(t.Headers))
	for c, h := range t.Headers {
		if skip[h] {
			continue
		}
		out[c] = true
		for _, row := range t.Rows {
			if row[c] == "" {
				continue
			}
			if _, ok := number(row[c]); !ok {
				out[c] = false
				break
			}
		}
	}
	return out
}

func number(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func sheetName(name string, i int) string {
	if name == "" {
		name = "Sheet" + strconv.Itoa(i+1)
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
