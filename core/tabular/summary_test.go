package tabular

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRatios(t *testing.T) {
	tbl := Table{
		Headers: []string{"time", "absorbed", "total", "fuel"},
		Rows: [][]string{
			{"h0", "25", "100", "5"},
			{"h1", "10", "0", "0"},
			{"h2", "x", "100", "2"},
		},
	}
	out, err := AddRatios(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "absorbed", "total", "fuel", AbsorbedPowerRatio, FuelRatio}, out.Headers)
	assert.Equal(t, []string{"h0", "25", "100", "5", "0.25", "0.2"}, out.Rows[0])
	assert.Equal(t, "", out.Rows[1][4])
	assert.Equal(t, "0", out.Rows[1][5])
	assert.Equal(t, "", out.Rows[2][4])
	assert.Equal(t, "", out.Rows[2][5])

	three, err := AddRatios(Table{Headers: []string{"a", "b", "c"}, Rows: [][]string{{"", "1", "4"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", AbsorbedPowerRatio}, three.Headers)
	assert.Equal(t, "0.25", three.Rows[0][3])

	_, err = AddRatios(Table{Headers: []string{"a", "b"}})
	assert.True(t, errors.Is(err, ErrTooFewColumns))
}

func TestSummarize(t *testing.T) {
	tbl := Table{
		Headers: []string{"time", "absorbed", "total", AbsorbedPowerRatio},
		Rows: [][]string{
			{"h0", "10", "100", "0.1"},
			{"h1", "20", "100", "0.2"},
			{"h2", "40", "100", "0.4"},
			{"h3", "100", "100", "1"},
			{"h4", "120", "100", "1.2"},
			{"h5", "5", "0", ""},
		},
	}
	s, err := Summarize(tbl, AbsorbedPowerRatio, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"absorbed", "total", AbsorbedPowerRatio}, s.Columns)
	require.Len(t, s.Bands, 4)
	assert.Equal(t, 2, s.Bands[0].Count)
	assert.Equal(t, 15.0, s.Bands[0].Means["absorbed"])
	assert.Equal(t, 1, s.Bands[1].Count)
	assert.Equal(t, 0, s.Bands[2].Count)
	assert.Empty(t, s.Bands[2].Means)
	assert.Equal(t, 1, s.Bands[3].Count, "upper bound of the last band is included")
	assert.Equal(t, 1, s.OutOfRange)

	out := s.Table()
	assert.Equal(t, []string{"band", "count", "mean_absorbed", "mean_total", "mean_" + AbsorbedPowerRatio}, out.Headers)
	assert.Equal(t, []string{"50-70", "0", "", "", ""}, out.Rows[2])
	assert.Equal(t, []string{"70-100", "1", "100", "100", "1"}, out.Rows[3])
}

func TestValidateBands(t *testing.T) {
	assert.NoError(t, ValidateBands(DefaultBands()))
	assert.Error(t, ValidateBands([]Band{{Label: "bad", Min: 10, Max: 5}}))
	assert.Error(t, ValidateBands([]Band{{Label: "a", Min: 0, Max: 50}, {Label: "b", Min: 40, Max: 60}}))
	_, err := Summarize(Table{Headers: []string{"a"}}, "ratio", nil)
	assert.True(t, errors.Is(err, ErrColumnNotFound))
}
