// Package runlog keeps the history of planning runs.
package runlog

import (
	"context"
	"time"
)

// RunRecord captures the outcome of one planning run.
type RunRecord struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	Policy       string    `json:"policy"`
	Rows         int       `json:"rows"`
	Unassigned   int       `json:"unassigned"`
	BelowMinLoad int       `json:"below_min_load"`
	PeakDemandKW float64   `json:"peak_demand_kw"`
	EnergyKWh    float64   `json:"energy_kwh"`
	Fleet        []string  `json:"fleet"`
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start time.Time
	End   time.Time
	// Source is the input file name of the run.
	Source string
	Policy string
}

// Match reports whether r passes the filters of q.
func (q Query) Match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Source != "" && r.Source != q.Source {
		return false
	}
	if q.Policy != "" && r.Policy != q.Policy {
		return false
	}
	return true
}

// Store persists RunRecords and supports querying in chronological order.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q Query) ([]RunRecord, error)
	Close() error
}
