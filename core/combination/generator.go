package combination

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/kilianp07/assetplan/core/model"
)

// DefaultMaxMachines bounds the fleet size accepted by Generate.
const DefaultMaxMachines = 16

// ErrFleetTooLarge is returned when enumeration would exceed the configured bound.
var ErrFleetTooLarge = errors.New("fleet too large for exhaustive enumeration")

// Count returns the number of candidates produced for e ELCO and t TC machines.
func Count(e, t int) int {
	if e <= 0 {
		return 0
	}
	return (1<<e - 1) << t
}

// Generate returns every candidate combination of the fleet in a stable order:
// ELCO-only subsets first, then ELCO subsets joined with TC subsets. Subsets
// are ordered by size and then lexicographically on the input position.
func Generate(f model.Fleet, maxMachines int) ([]model.Combination, error) {
	if maxMachines <= 0 {
		maxMachines = DefaultMaxMachines
	}
	if f.Size() > maxMachines {
		return nil, fmt.Errorf("%w: %d machines, limit %d", ErrFleetTooLarge, f.Size(), maxMachines)
	}
	elcoSubsets := subsets(len(f.ELCO))
	tcSubsets := subsets(len(f.TC))

	out := make([]model.Combination, 0, Count(len(f.ELCO), len(f.TC)))
	for _, es := range elcoSubsets {
		out = append(out, model.NewCombination(pick(f.ELCO, es)...))
	}
	for _, es := range elcoSubsets {
		base := pick(f.ELCO, es)
		for _, ts := range tcSubsets {
			ms := make([]model.Machine, 0, len(base)+len(ts))
			ms = append(ms, base...)
			ms = append(ms, pick(f.TC, ts)...)
			out = append(out, model.NewCombination(ms...))
		}
	}
	return out, nil
}

// subsets lists the non-empty index subsets of n items by size, then in
// lexical order.
func subsets(n int) [][]int {
	var out [][]int
	for k := 1; k <= n; k++ {
		gen := combin.NewCombinationGenerator(n, k)
		for gen.Next() {
			out = append(out, gen.Combination(nil))
		}
	}
	return out
}

func pick(set model.MachineSet, idx []int) []model.Machine {
	ms := make([]model.Machine, len(idx))
	for i, j := range idx {
		ms[i] = set[j]
	}
	return ms
}
