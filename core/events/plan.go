package events

import "github.com/kilianp07/assetplan/core/metrics"

// PlanCompleted is published once a plan has been built.
type PlanCompleted struct {
	Result      metrics.PlanResult
	Assignments []metrics.AssignmentEvent
}
