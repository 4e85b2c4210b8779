package tabular

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plantTable() Table {
	return Table{
		Headers: []string{"ts", "P1 abs", "P1 tot", "F1", "P2 abs", "P2 tot", "F2"},
		Rows: [][]string{
			{"h0", "20", "100", "4", "60", "100", "9"},
			{"h1", "45", "100", "9", "0", "0", "0"},
		},
	}
}

func TestGroup(t *testing.T) {
	g, err := Group(plantTable(), GroupSpec{
		Name:    "unit 1",
		Columns: []string{"ts", "P1 abs", "P1 tot", "F1"},
		Rename:  []string{"time", "absorbed", "total", "fuel"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "absorbed", "total", "fuel"}, g.Headers)
	assert.Equal(t, []string{"h1", "45", "100", "9"}, g.Rows[1])

	noRename, err := Group(plantTable(), GroupSpec{Name: "u2", Columns: []string{"ts", "P2 abs", "P2 tot"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ts", "P2 abs", "P2 tot"}, noRename.Headers)
}

func TestGroupErrors(t *testing.T) {
	_, err := Group(plantTable(), GroupSpec{Name: "small", Columns: []string{"ts", "F1"}})
	assert.Error(t, err)
	_, err = Group(plantTable(), GroupSpec{Name: "rename", Columns: []string{"ts", "F1", "F2"}, Rename: []string{"a"}})
	assert.Error(t, err)
	_, err = Group(plantTable(), GroupSpec{Name: "missing", Columns: []string{"ts", "F1", "F9"}})
	assert.True(t, errors.Is(err, ErrColumnNotFound))
}

func TestMerge(t *testing.T) {
	a := Table{Headers: []string{"x", "y"}, Rows: [][]string{{"1", "2"}}}
	b := Table{Headers: []string{"y", "z"}, Rows: [][]string{{"3", "4"}, {"5", "6"}}}
	m := Merge(a, b)
	assert.Equal(t, []string{"x", "y", "z"}, m.Headers)
	assert.Equal(t, [][]string{{"1", "2", ""}, {"", "3", "4"}, {"", "5", "6"}}, m.Rows)
	assert.Zero(t, Merge().Len())
}
