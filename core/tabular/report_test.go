package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plantGroups() []GroupSpec {
	rename := []string{"time", "absorbed", "total", "fuel"}
	return []GroupSpec{
		{Name: "u1", Columns: []string{"ts", "P1 abs", "P1 tot", "F1"}, Rename: rename},
		{Name: "u2", Columns: []string{"ts", "P2 abs", "P2 tot", "F2"}, Rename: rename},
	}
}

func TestParseMergeSets(t *testing.T) {
	sets, err := ParseMergeSets("0,1; 2")
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {2}}, sets)

	sets, err = ParseMergeSets("  ")
	require.NoError(t, err)
	assert.Nil(t, sets)

	_, err = ParseMergeSets("0,x")
	assert.Error(t, err)
}

func TestBuildReportsMerged(t *testing.T) {
	reports, err := BuildReports(plantTable(), plantGroups(), [][]int{{0, 1}}, nil)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, "u1+u2", r.Name)
	assert.Equal(t, 4, r.Table.Len())
	assert.Equal(t, []string{"time", "absorbed", "total", "fuel", AbsorbedPowerRatio, FuelRatio}, r.Table.Headers)

	counts := make([]int, len(r.Summary.Bands))
	for i, b := range r.Summary.Bands {
		counts[i] = b.Count
	}
	assert.Equal(t, []int{1, 1, 1, 0}, counts)

	sum := SummaryTable(reports)
	assert.Equal(t, MergeColumn, sum.Headers[0])
	require.Len(t, sum.Rows, 4)
	assert.Equal(t, []string{"u1+u2", "0-30", "1"}, sum.Rows[0][:3])

	merged := MergedTable(reports)
	assert.Equal(t, 4, merged.Len())
	assert.Equal(t, "u1+u2", merged.Rows[3][0])
}

func TestBuildReportsPerGroup(t *testing.T) {
	reports, err := BuildReports(plantTable(), plantGroups(), nil, nil)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "u1", reports[0].Name)
	assert.Equal(t, "u2", reports[1].Name)
	assert.Len(t, SummaryTable(reports).Rows, 8)
}

func TestBuildReportsErrors(t *testing.T) {
	_, err := BuildReports(plantTable(), nil, nil, nil)
	assert.Error(t, err)
	_, err = BuildReports(plantTable(), plantGroups(), [][]int{{0, 5}}, nil)
	assert.ErrorContains(t, err, "out of range")
}
