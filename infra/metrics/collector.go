package metrics

import (
	"context"

	"github.com/kilianp07/assetplan/core/events"
	coremetrics "github.com/kilianp07/assetplan/core/metrics"
	"github.com/kilianp07/assetplan/infra/logger"
	"github.com/kilianp07/assetplan/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records completed plans
// on sink, so slow backends do not hold up the caller that built the plan.
// It stops when the context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus[events.PlanCompleted], sink coremetrics.MetricsSink, log logger.Logger) {
	if bus == nil || sink == nil {
		return
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-sub:
				if !ok {
					return
				}
				if err := sink.RecordPlan(e.Result); err != nil {
					log.Errorf("record plan %s: %v", e.Result.PlanID, err)
				}
				if r, ok := sink.(coremetrics.AssignmentRecorder); ok && len(e.Assignments) > 0 {
					if err := r.RecordAssignments(e.Assignments); err != nil {
						log.Errorf("record assignments %s: %v", e.Result.PlanID, err)
					}
				}
			}
		}
	}()
}
