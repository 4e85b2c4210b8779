package combination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/assetplan/core/model"
)

func testFleet() model.Fleet {
	return model.Fleet{
		ELCO: model.MachineSet{
			{Name: "A", Class: model.ClassELCO, SizeKW: 100},
			{Name: "B", Class: model.ClassELCO, SizeKW: 150},
		},
		TC: model.MachineSet{
			{Name: "C", Class: model.ClassTC, SizeKW: 80},
		},
	}
}

func labels(cs []model.Combination) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Label()
	}
	return out
}

func TestGenerateOrder(t *testing.T) {
	cs, err := Generate(testFleet(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "A + B", "A + C", "B + C", "A + B + C"}, labels(cs))
	assert.Equal(t, 330.0, cs[len(cs)-1].TotalKW)
}

func TestGenerateCount(t *testing.T) {
	for e := 0; e <= 4; e++ {
		for tcN := 0; tcN <= 3; tcN++ {
			var f model.Fleet
			for i := 0; i < e; i++ {
				f.ELCO = append(f.ELCO, model.Machine{Name: string(rune('a' + i)), Class: model.ClassELCO, SizeKW: 10})
			}
			for i := 0; i < tcN; i++ {
				f.TC = append(f.TC, model.Machine{Name: string(rune('m' + i)), Class: model.ClassTC, SizeKW: 10})
			}
			cs, err := Generate(f, 0)
			require.NoError(t, err)
			want := (1<<e - 1) + (1<<e-1)*(1<<tcN-1)
			assert.Equal(t, want, len(cs), "e=%d t=%d", e, tcN)
			assert.Equal(t, want, Count(e, tcN))
		}
	}
}

func TestGenerateNeverTCOnly(t *testing.T) {
	cs, err := Generate(testFleet(), 0)
	require.NoError(t, err)
	for _, c := range cs {
		assert.Equal(t, model.ClassELCO, c.Machines[0].Class, c.Label())
	}
	only, err := Generate(model.Fleet{TC: testFleet().TC}, 0)
	require.NoError(t, err)
	assert.Empty(t, only)
}

func TestGenerateLimit(t *testing.T) {
	_, err := Generate(testFleet(), 2)
	if !errors.Is(err, ErrFleetTooLarge) {
		t.Fatalf("expected ErrFleetTooLarge, got %v", err)
	}
}
