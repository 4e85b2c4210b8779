package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/assetplan/core/metrics"
)

// PromSink records planning runs in Prometheus metrics.
type PromSink struct {
	plans       *prometheus.CounterVec
	assignments *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	candidates  prometheus.Gauge
	unassigned  prometheus.Gauge
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assetplan_plans_total",
		Help: "Total number of planning runs",
	}, []string{"policy"})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assetplan_assignments_total",
		Help: "Demand rows resolved, by outcome",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assetplan_plan_duration_seconds",
		Help:    "Time spent resolving a demand series",
		Buckets: prometheus.DefBuckets,
	}, []string{"policy"})
	candidates := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "assetplan_candidate_combinations",
		Help: "Number of candidate combinations of the last plan",
	})
	unassigned := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "assetplan_unassigned_rows",
		Help: "Rows without a suitable machine in the last plan",
	})

	var err error
	if plans, err = register(reg, plans); err != nil {
		return nil, err
	}
	if assignments, err = register(reg, assignments); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if candidates, err = register(reg, candidates); err != nil {
		return nil, err
	}
	if unassigned, err = register(reg, unassigned); err != nil {
		return nil, err
	}
	return &PromSink{plans: plans, assignments: assignments, duration: duration, candidates: candidates, unassigned: unassigned}, nil
}

// register returns the already registered collector when c was registered
// before, so several sinks can share the default registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPlan updates the per-run counters and gauges.
func (s *PromSink) RecordPlan(res coremetrics.PlanResult) error {
	s.plans.WithLabelValues(res.Policy).Inc()
	s.duration.WithLabelValues(res.Policy).Observe(res.Duration.Seconds())
	s.candidates.Set(float64(res.Candidates))
	s.unassigned.Set(float64(res.Unassigned))
	return nil
}

// RecordAssignments counts rows by outcome.
func (s *PromSink) RecordAssignments(evs []coremetrics.AssignmentEvent) error {
	for _, e := range evs {
		s.assignments.WithLabelValues(e.Outcome()).Inc()
	}
	return nil
}
