package metrics

import "time"

// PlanResult summarizes one planning run.
type PlanResult struct {
	PlanID       string
	Source       string
	Policy       string
	Rows         int
	Unassigned   int
	BelowMinLoad int
	Candidates   int
	PeakDemandKW float64
	EnergyKWh    float64
	Duration     time.Duration
	Time         time.Time
}

// MetricsSink records planning runs for observability purposes.
type MetricsSink interface {
	RecordPlan(res PlanResult) error
}

// AssignmentEvent describes the combination chosen for one demand row.
type AssignmentEvent struct {
	PlanID     string
	Index      int
	Timestamp  time.Time
	DemandKW   float64
	Label      string
	TotalKW    float64
	LoadFactor float64
	Satisfied  bool
}

// AssignmentRecorder is implemented by sinks able to record per-row results.
type AssignmentRecorder interface {
	RecordAssignments(evs []AssignmentEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanResult) error               { return nil }
func (NopSink) RecordAssignments([]AssignmentEvent) error { return nil }

// Outcome labels an assignment for counters.
func (e AssignmentEvent) Outcome() string {
	if e.Satisfied {
		return "assigned"
	}
	return "unassigned"
}
