package assign

import (
	"math"
	"sort"

	"github.com/kilianp07/assetplan/core/combination"
	"github.com/kilianp07/assetplan/core/model"
)

// Resolver selects the combination covering a single demand point.
type Resolver interface {
	Resolve(p model.DemandPoint) model.Assignment
	// Candidates returns the enumerated combinations, or nil when the
	// resolver does not enumerate.
	Candidates() []model.Combination
	Policy() Policy
}

// New validates the fleet and returns the resolver for cfg.Policy.
func New(f model.Fleet, cfg Config) (Resolver, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if cfg.Policy == PolicyKnapsack {
		return newKnapsackResolver(f, cfg), nil
	}
	cands, err := combination.Generate(f, cfg.MaxMachines)
	if err != nil {
		return nil, err
	}
	return newEnumResolver(cands, cfg), nil
}

// enumResolver answers from the enumerated candidate list.
type enumResolver struct {
	policy  Policy
	minLoad bool
	cands   []model.Combination
	// ranked holds candidate positions sorted by total power, machine count
	// and generation order.
	ranked []int
}

func newEnumResolver(cands []model.Combination, cfg Config) *enumResolver {
	ranked := make([]int, len(cands))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := cands[ranked[i]], cands[ranked[j]]
		if a.TotalKW != b.TotalKW {
			return a.TotalKW < b.TotalKW
		}
		return a.Len() < b.Len()
	})
	return &enumResolver{policy: cfg.Policy, minLoad: cfg.EnforceMinLoad, cands: cands, ranked: ranked}
}

func (r *enumResolver) Policy() Policy { return r.policy }

func (r *enumResolver) Candidates() []model.Combination { return r.cands }

func (r *enumResolver) Resolve(p model.DemandPoint) model.Assignment {
	a := model.Assignment{Point: p}
	if !validDemand(p.DemandKW) {
		return a
	}
	switch r.policy {
	case PolicyFirstFit:
		for i := range r.cands {
			if r.cands[i].Covers(p.DemandKW, r.minLoad) {
				c := r.cands[i]
				a.Combination = &c
				break
			}
		}
	case PolicyAll:
		for _, c := range r.cands {
			if c.Covers(p.DemandKW, r.minLoad) {
				a.Alternatives = append(a.Alternatives, c)
			}
		}
		a.Combination = r.minPower(p.DemandKW)
	default:
		a.Combination = r.minPower(p.DemandKW)
	}
	return a
}

func (r *enumResolver) minPower(demand float64) *model.Combination {
	start := sort.Search(len(r.ranked), func(i int) bool {
		return r.cands[r.ranked[i]].TotalKW >= demand
	})
	for _, idx := range r.ranked[start:] {
		if r.cands[idx].Covers(demand, r.minLoad) {
			c := r.cands[idx]
			return &c
		}
	}
	return nil
}

func validDemand(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0)
}
