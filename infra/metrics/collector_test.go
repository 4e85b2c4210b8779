package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/assetplan/core/events"
	coremetrics "github.com/kilianp07/assetplan/core/metrics"
	"github.com/kilianp07/assetplan/internal/eventbus"
)

type recordingSink struct {
	mu          sync.Mutex
	plans       []coremetrics.PlanResult
	assignments int
}

func (r *recordingSink) RecordPlan(res coremetrics.PlanResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans = append(r.plans, res)
	return nil
}

func (r *recordingSink) RecordAssignments(evs []coremetrics.AssignmentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments += len(evs)
	return nil
}

func (r *recordingSink) snapshot() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plans), r.assignments
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.New[events.PlanCompleted]()
	defer bus.Close()
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartEventCollector(ctx, bus, sink, nil)
	bus.Publish(events.PlanCompleted{
		Result:      coremetrics.PlanResult{PlanID: "p1", Policy: "min_power"},
		Assignments: []coremetrics.AssignmentEvent{{PlanID: "p1"}, {PlanID: "p1"}},
	})

	require.Eventually(t, func() bool {
		plans, _ := sink.snapshot()
		return plans == 1
	}, time.Second, 10*time.Millisecond)
	_, n := sink.snapshot()
	assert.Equal(t, 2, n)
}
