package ingest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSVSemicolon(t *testing.T) {
	data := "\xef\xbb\xbfData;Potenza\n2024-01-01 00:00;120,5\n2024-01-01 01:00;98\n"
	tbl, err := Read(strings.NewReader(data), "demand.csv", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Potenza"}, tbl.Headers)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "120,5", tbl.Rows[0][1])
}

func TestReadCSVRagged(t *testing.T) {
	data := "a,b,c\n1,2\n3,4,5,6\n"
	tbl, err := Read(strings.NewReader(data), "x.CSV", Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2", ""}, {"3", "4", "5"}}, tbl.Rows)
}

func TestReadCSVForcedTab(t *testing.T) {
	data := "a\tb\n1\t2\n"
	tbl, err := Read(strings.NewReader(data), "x.tsv", Options{Delimiter: `\t`})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Headers)
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader("\n\n"), "x.csv", Options{})
	assert.True(t, errors.Is(err, ErrEmptyFile))
}

func TestReadUnsupported(t *testing.T) {
	_, err := Read(strings.NewReader("x"), "demand.xls", Options{})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "demand.xls")
}

func workbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	_, err := f.NewSheet("Demand")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Demand", "A2", &[]any{"Time", "Power"}))
	require.NoError(t, f.SetSheetRow("Demand", "A3", &[]any{"2024-01-01 00:00", 150}))
	require.NoError(t, f.SetSheetRow("Demand", "A4", &[]any{"2024-01-01 01:00", 80.5}))
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadExcel(t *testing.T) {
	data := workbook(t)
	tbl, err := Read(bytes.NewReader(data), "plant.xlsx", Options{Sheet: "Demand"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Time", "Power"}, tbl.Headers)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "150", tbl.Rows[0][1])
	assert.Equal(t, "80.5", tbl.Rows[1][1])

	_, err = Read(bytes.NewReader(data), "plant.xlsx", Options{Sheet: "Missing"})
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demand.csv")
	require.NoError(t, os.WriteFile(path, []byte("p\n1\n"), 0o644))
	tbl, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
	_, err = ReadFile(filepath.Join(t.TempDir(), "none.csv"), Options{})
	assert.Error(t, err)
}
