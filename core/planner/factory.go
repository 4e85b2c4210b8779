package planner

import (
	"sync"

	"github.com/kilianp07/assetplan/core/assign"
	"github.com/kilianp07/assetplan/core/events"
	"github.com/kilianp07/assetplan/core/logger"
	"github.com/kilianp07/assetplan/core/metrics"
	"github.com/kilianp07/assetplan/core/model"
	"github.com/kilianp07/assetplan/core/runlog"
	"github.com/kilianp07/assetplan/internal/eventbus"
)

// Deps are shared by every planner a Factory builds.
type Deps struct {
	Sink  metrics.MetricsSink
	Store runlog.Store
	Bus   eventbus.EventBus[events.PlanCompleted]
	Log   logger.Logger
}

// Factory builds one Planner per policy for a fleet and caches it, since the
// candidate index is computed when the resolver is created.
type Factory struct {
	fleet model.Fleet
	base  assign.Config
	deps  Deps

	mu    sync.Mutex
	cache map[assign.Policy]*Planner
}

// NewFactory returns a Factory. base.Policy is used when no policy is requested.
func NewFactory(fleet model.Fleet, base assign.Config, deps Deps) *Factory {
	base.SetDefaults()
	return &Factory{fleet: fleet, base: base, deps: deps, cache: make(map[assign.Policy]*Planner)}
}

// DefaultPolicy returns the configured policy.
func (f *Factory) DefaultPolicy() assign.Policy { return f.base.Policy }

// Fleet returns the fleet planners are built for.
func (f *Factory) Fleet() model.Fleet { return f.fleet }

// Get returns the planner for policy, or for the default policy when empty.
func (f *Factory) Get(policy assign.Policy) (*Planner, error) {
	if policy == "" {
		policy = f.base.Policy
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.cache[policy]; ok {
		return p, nil
	}
	cfg := f.base
	cfg.Policy = policy
	r, err := assign.New(f.fleet, cfg)
	if err != nil {
		return nil, err
	}
	p := New(f.fleet, r, f.deps.Log)
	if f.deps.Sink != nil {
		p.SetMetricsSink(f.deps.Sink)
	}
	if f.deps.Store != nil {
		p.SetRunStore(f.deps.Store)
	}
	if f.deps.Bus != nil {
		p.SetEventBus(f.deps.Bus)
	}
	f.cache[policy] = p
	return p, nil
}

// Candidates returns the enumerated combinations of the fleet.
func (f *Factory) Candidates() ([]model.Combination, error) {
	cfg := f.base
	if cfg.Policy == assign.PolicyKnapsack {
		cfg.Policy = assign.PolicyMinPower
	}
	p, err := f.Get(cfg.Policy)
	if err != nil {
		return nil, err
	}
	return p.Resolver().Candidates(), nil
}
