// Package ingest reads uploaded demand and plant files into tabular.Table.
// CSV files go through encoding/csv with delimiter detection, Excel workbooks
// through excelize.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/assetplan/core/tabular"
)

var (
	// ErrUnsupportedFormat is returned for file extensions that cannot be read.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyFile is returned when no header row is found.
	ErrEmptyFile = errors.New("file has no header row")
)

// Options controls file parsing.
type Options struct {
	// Sheet selects the Excel sheet; the first sheet is used when empty.
	Sheet string `json:"sheet"`
	// Delimiter forces the CSV separator; it is detected when empty.
	Delimiter string `json:"delimiter"`
}

// ReadFile opens path and parses it according to its extension.
func ReadFile(path string, opts Options) (tabular.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return tabular.Table{}, err
	}
	defer func() { _ = f.Close() }()
	return Read(f, filepath.Base(path), opts)
}

// Read parses r, using name to select the format.
func Read(r io.Reader, name string, opts Options) (tabular.Table, error) {
	var (
		t   tabular.Table
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".tsv":
		t, err = readCSV(r, opts)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		t, err = readExcel(r, opts)
	default:
		return tabular.Table{}, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if err != nil {
		return tabular.Table{}, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

func readCSV(r io.Reader, opts Options) (tabular.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return tabular.Table{}, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	comma, err := delimiter(data, opts.Delimiter)
	if err != nil {
		return tabular.Table{}, err
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return tabular.Table{}, err
	}
	return fromRecords(records)
}

// delimiter returns the forced separator or the most frequent of ',', ';'
// and tab on the first line.
func delimiter(data []byte, forced string) (rune, error) {
	if forced != "" {
		if forced == `\t` {
			return '\t', nil
		}
		rs := []rune(forced)
		if len(rs) != 1 {
			return 0, fmt.Errorf("invalid delimiter %q", forced)
		}
		return rs[0], nil
	}
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, count := ',', 0
	for _, c := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > count {
			best, count = c, n
		}
	}
	return best, nil
}

func readExcel(r io.Reader, opts Options) (tabular.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return tabular.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return tabular.Table{}, ErrEmptyFile
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return tabular.Table{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return fromRecords(rows)
}

// fromRecords uses the first non-empty record as header and pads the rest.
func fromRecords(records [][]string) (tabular.Table, error) {
	start := -1
	for i, rec := range records {
		if !blank(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return tabular.Table{}, ErrEmptyFile
	}
	headers := make([]string, len(records[start]))
	for i, h := range records[start] {
		headers[i] = strings.TrimSpace(h)
	}
	t := tabular.Table{Headers: headers, Rows: records[start+1:]}
	return t.Normalize(), nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
