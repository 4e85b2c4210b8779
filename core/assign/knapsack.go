package assign

import (
	"math"
	"sort"

	"github.com/kilianp07/assetplan/core/model"
)

const unreachable = math.MaxInt32

// maxKnapsackUnits bounds the quantized fleet total, and so the table size.
const maxKnapsackUnits = 1 << 18

// realEpsilon absorbs float noise when comparing summed machine sizes.
const realEpsilon = 1e-9

// knapsackResolver finds the minimum power subset containing at least one
// ELCO machine by dynamic programming over quantized power. The table only
// depends on the fleet, so it is built once and each demand is answered by a
// scan over reachable power levels.
//
// Each (level, ELCO) state keeps the subset with the largest real total, then
// the fewest machines. When every size is a multiple of the quantum the
// answer is exact; with a coarser explicit resolution_kw, two subsets falling
// on the same level are not told apart and the larger one is kept.
type knapsackResolver struct {
	minLoad bool
	items   []model.Machine
	units   []int
	// take[i][state] records whether item i was used to reach state after
	// processing item i: 0 not taken, 1 taken from a state without ELCO, 2
	// taken from a state with ELCO.
	take [][]byte
	// levels lists the quantized sums reachable with at least one ELCO machine.
	levels []int
	res    float64
}

func newKnapsackResolver(f model.Fleet, cfg Config) *knapsackResolver {
	r := &knapsackResolver{minLoad: cfg.EnforceMinLoad}
	r.items = append(r.items, f.ELCO...)
	r.items = append(r.items, f.TC...)
	r.res = cfg.ResolutionKW
	if r.res <= 0 {
		r.res = quantum(r.items)
	}
	total := 0
	r.units = make([]int, len(r.items))
	for i, m := range r.items {
		u := int(math.Round(m.SizeKW / r.res))
		if u < 1 {
			u = 1
		}
		r.units[i] = u
		total += u
	}

	// count[s*2+e] is the machine count and totals[s*2+e] the real total of the
	// subset kept for sum s, e marking whether an ELCO machine is included.
	count := make([]int, (total+1)*2)
	totals := make([]float64, len(count))
	for i := range count {
		count[i] = unreachable
	}
	count[0] = 0
	better := func(n int, kw float64, state int) bool {
		if count[state] == unreachable {
			return true
		}
		if d := kw - totals[state]; math.Abs(d) > realEpsilon {
			return d > 0
		}
		return n < count[state]
	}
	r.take = make([][]byte, len(r.items))
	for i, m := range r.items {
		u := r.units[i]
		row := make([]byte, len(count))
		for s := total; s >= u; s-- {
			from := (s - u) * 2
			if m.Class == model.ClassELCO {
				for e := 0; e < 2; e++ {
					if count[from+e] == unreachable {
						continue
					}
					n, kw := count[from+e]+1, totals[from+e]+m.SizeKW
					if better(n, kw, s*2+1) {
						count[s*2+1], totals[s*2+1] = n, kw
						row[s*2+1] = byte(e + 1)
					}
				}
				continue
			}
			for e := 0; e < 2; e++ {
				if count[from+e] == unreachable {
					continue
				}
				n, kw := count[from+e]+1, totals[from+e]+m.SizeKW
				if better(n, kw, s*2+e) {
					count[s*2+e], totals[s*2+e] = n, kw
					row[s*2+e] = byte(e + 1)
				}
			}
		}
		r.take[i] = row
	}
	for s := 0; s <= total; s++ {
		if count[s*2+1] != unreachable {
			r.levels = append(r.levels, s)
		}
	}
	return r
}

// quantum returns the largest power step dividing every size, in whole watts,
// widened when the table would exceed maxKnapsackUnits. Sizes that are not
// whole watts fall back to 1 kW.
func quantum(items []model.Machine) float64 {
	var g int64
	totalKW := 0.0
	exact := true
	for _, m := range items {
		totalKW += m.SizeKW
		w := math.Round(m.SizeKW * 1000)
		if math.Abs(m.SizeKW*1000-w) > 1e-6 || w < 1 {
			exact = false
			continue
		}
		g = gcd(g, int64(w))
	}
	res := 1.0
	if exact && g > 0 {
		res = float64(g) / 1000
	}
	if totalKW/res > maxKnapsackUnits {
		res = math.Ceil(totalKW / maxKnapsackUnits)
	}
	return res
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func (r *knapsackResolver) Policy() Policy { return PolicyKnapsack }

func (r *knapsackResolver) Candidates() []model.Combination { return nil }

func (r *knapsackResolver) Resolve(p model.DemandPoint) model.Assignment {
	a := model.Assignment{Point: p}
	if !validDemand(p.DemandKW) {
		return a
	}
	// A machine's real size is at least (units-1)*res, so a level s holds
	// subsets of at least (s-len(items))*res. The scan starts that far below
	// the demand and stops once no later level can beat the best total.
	n := len(r.items)
	lo := int(math.Floor(p.DemandKW/r.res)) - n
	start := sort.SearchInts(r.levels, lo)
	limit := math.MaxInt
	var best *model.Combination
	for _, s := range r.levels[start:] {
		if s > limit {
			break
		}
		c := r.rebuild(s)
		if !c.Covers(p.DemandKW, r.minLoad) {
			continue
		}
		if best == nil || c.TotalKW < best.TotalKW-realEpsilon ||
			(math.Abs(c.TotalKW-best.TotalKW) <= realEpsilon && c.Len() < best.Len()) {
			best = &c
			limit = int(math.Ceil(c.TotalKW/r.res)) + n
		}
	}
	a.Combination = best
	return a
}

// rebuild walks the decision table backwards from the ELCO state at sum s.
func (r *knapsackResolver) rebuild(s int) model.Combination {
	var picked []int
	e := 1
	for i := len(r.items) - 1; i >= 0 && s > 0; i-- {
		src := r.take[i][s*2+e]
		if src == 0 {
			continue
		}
		picked = append(picked, i)
		s -= r.units[i]
		e = int(src) - 1
	}
	ms := make([]model.Machine, len(picked))
	for i, idx := range picked {
		ms[len(picked)-1-i] = r.items[idx]
	}
	return model.NewCombination(ms...)
}
