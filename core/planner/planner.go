// Package planner turns a demand series into a plan: one machine combination
// per demand row, plus the bookkeeping around a run.
package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/assetplan/core/assign"
	"github.com/kilianp07/assetplan/core/events"
	"github.com/kilianp07/assetplan/core/logger"
	"github.com/kilianp07/assetplan/core/metrics"
	"github.com/kilianp07/assetplan/core/model"
	"github.com/kilianp07/assetplan/core/runlog"
	"github.com/kilianp07/assetplan/internal/eventbus"
)

// Stats summarizes a plan.
type Stats struct {
	Rows         int     `json:"rows"`
	Unassigned   int     `json:"unassigned"`
	BelowMinLoad int     `json:"below_min_load"`
	PeakDemandKW float64 `json:"peak_demand_kw"`
	EnergyKWh    float64 `json:"energy_kwh"`
	Candidates   int     `json:"candidates"`
}

// Plan is the result of resolving a demand series.
type Plan struct {
	ID          string             `json:"id"`
	Source      string             `json:"source"`
	Policy      assign.Policy      `json:"policy"`
	CreatedAt   time.Time          `json:"created_at"`
	Assignments []model.Assignment `json:"assignments"`
	Stats       Stats              `json:"stats"`
}

// Planner resolves demand series against a fleet.
type Planner struct {
	fleet    model.Fleet
	resolver assign.Resolver
	log      logger.Logger

	mu    sync.Mutex
	sink  metrics.MetricsSink
	store runlog.Store
	bus   eventbus.EventBus[events.PlanCompleted]
}

// New returns a Planner using resolver for every demand row. A nil logger
// discards messages.
func New(fleet model.Fleet, resolver assign.Resolver, log logger.Logger) *Planner {
	if log == nil {
		log = logger.Nop{}
	}
	return &Planner{fleet: fleet, resolver: resolver, log: log}
}

// SetMetricsSink configures the sink receiving run results synchronously.
func (p *Planner) SetMetricsSink(s metrics.MetricsSink) {
	p.mu.Lock()
	p.sink = s
	p.mu.Unlock()
}

// SetRunStore configures the store recording the run history.
func (p *Planner) SetRunStore(s runlog.Store) {
	p.mu.Lock()
	p.store = s
	p.mu.Unlock()
}

// SetEventBus configures the bus notified of completed plans.
func (p *Planner) SetEventBus(b eventbus.EventBus[events.PlanCompleted]) {
	p.mu.Lock()
	p.bus = b
	p.mu.Unlock()
}

// Fleet returns the fleet the planner was built for.
func (p *Planner) Fleet() model.Fleet { return p.fleet }

// Resolver returns the underlying resolver.
func (p *Planner) Resolver() assign.Resolver { return p.resolver }

// Plan resolves every point of series in order. The context is checked
// between rows so large series can be abandoned.
func (p *Planner) Plan(ctx context.Context, source string, series model.DemandSeries) (*Plan, error) {
	start := time.Now()
	plan := &Plan{
		ID:          uuid.NewString(),
		Source:      source,
		Policy:      p.resolver.Policy(),
		CreatedAt:   start.UTC(),
		Assignments: make([]model.Assignment, 0, len(series)),
	}
	for _, pt := range series {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("plan %s: %w", source, err)
		}
		plan.Assignments = append(plan.Assignments, p.resolver.Resolve(pt))
	}
	plan.Stats = p.stats(series, plan.Assignments)
	elapsed := time.Since(start)
	p.log.Infof("plan %s: %d rows from %s, %d unassigned, policy %s in %s",
		plan.ID, plan.Stats.Rows, source, plan.Stats.Unassigned, plan.Policy, elapsed)

	p.mu.Lock()
	sink, store, bus := p.sink, p.store, p.bus
	p.mu.Unlock()

	res := plan.Result(elapsed)
	evs := plan.Events()
	if sink != nil {
		if err := sink.RecordPlan(res); err != nil {
			p.log.Errorf("metrics plan %s: %v", plan.ID, err)
		}
		if r, ok := sink.(metrics.AssignmentRecorder); ok {
			if err := r.RecordAssignments(evs); err != nil {
				p.log.Errorf("metrics assignments %s: %v", plan.ID, err)
			}
		}
	}
	if store != nil {
		if err := store.Append(ctx, plan.Record(p.fleet)); err != nil {
			return plan, fmt.Errorf("store run %s: %w", plan.ID, err)
		}
	}
	if bus != nil {
		bus.Publish(events.PlanCompleted{Result: res, Assignments: evs})
	}
	return plan, nil
}

func (p *Planner) stats(series model.DemandSeries, asg []model.Assignment) Stats {
	st := Stats{
		Rows:         len(asg),
		PeakDemandKW: series.Peak(),
		EnergyKWh:    series.EnergyKWh(),
		Candidates:   len(p.resolver.Candidates()),
	}
	for _, a := range asg {
		if !a.Satisfied() {
			st.Unassigned++
		} else if a.BelowMinLoad() {
			st.BelowMinLoad++
		}
	}
	return st
}

// Result converts the plan to the form recorded by metrics sinks.
func (pl *Plan) Result(elapsed time.Duration) metrics.PlanResult {
	return metrics.PlanResult{
		PlanID:       pl.ID,
		Source:       pl.Source,
		Policy:       string(pl.Policy),
		Rows:         pl.Stats.Rows,
		Unassigned:   pl.Stats.Unassigned,
		BelowMinLoad: pl.Stats.BelowMinLoad,
		Candidates:   pl.Stats.Candidates,
		PeakDemandKW: pl.Stats.PeakDemandKW,
		EnergyKWh:    pl.Stats.EnergyKWh,
		Duration:     elapsed,
		Time:         pl.CreatedAt,
	}
}

// Events returns one AssignmentEvent per demand row.
func (pl *Plan) Events() []metrics.AssignmentEvent {
	out := make([]metrics.AssignmentEvent, len(pl.Assignments))
	for i, a := range pl.Assignments {
		out[i] = metrics.AssignmentEvent{
			PlanID:     pl.ID,
			Index:      a.Point.Index,
			Timestamp:  a.Point.Timestamp,
			DemandKW:   a.Point.DemandKW,
			Label:      a.Label(),
			TotalKW:    a.TotalKW(),
			LoadFactor: a.LoadFactor(),
			Satisfied:  a.Satisfied(),
		}
	}
	return out
}

// Record converts the plan to a run history entry.
func (pl *Plan) Record(f model.Fleet) runlog.RunRecord {
	return runlog.RunRecord{
		ID:           pl.ID,
		Timestamp:    pl.CreatedAt,
		Source:       pl.Source,
		Policy:       string(pl.Policy),
		Rows:         pl.Stats.Rows,
		Unassigned:   pl.Stats.Unassigned,
		BelowMinLoad: pl.Stats.BelowMinLoad,
		PeakDemandKW: pl.Stats.PeakDemandKW,
		EnergyKWh:    pl.Stats.EnergyKWh,
		Fleet:        f.Names(),
	}
}
