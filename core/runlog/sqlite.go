package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const runsSchema = `CREATE TABLE IF NOT EXISTS plan_runs (
    id             TEXT PRIMARY KEY,
    ts             INTEGER NOT NULL,
    source         TEXT NOT NULL DEFAULT '',
    policy         TEXT NOT NULL DEFAULT '',
    rows           INTEGER NOT NULL DEFAULT 0,
    unassigned     INTEGER NOT NULL DEFAULT 0,
    below_min_load INTEGER NOT NULL DEFAULT 0,
    peak_kw        REAL NOT NULL DEFAULT 0,
    energy_kwh     REAL NOT NULL DEFAULT 0,
    fleet          TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS plan_runs_ts ON plan_runs (ts);
CREATE INDEX IF NOT EXISTS plan_runs_source ON plan_runs (source, ts);`

// SQLiteStore keeps one row per run so that filters run in SQL.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(runsSchema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, fmt.Errorf("runlog schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts rec.
func (s *SQLiteStore) Append(ctx context.Context, rec RunRecord) error {
	fleet, err := json.Marshal(rec.Fleet)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plan_runs (id, ts, source, policy, rows, unassigned, below_min_load, peak_kw, energy_kwh, fleet)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UnixNano(), rec.Source, rec.Policy, rec.Rows,
		rec.Unassigned, rec.BelowMinLoad, rec.PeakDemandKW, rec.EnergyKWh, string(fleet))
	return err
}

// where renders the filters of q as a SQL condition and its arguments.
func (q Query) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		conds = append(conds, cond)
		args = append(args, v)
	}
	if !q.Start.IsZero() {
		add("ts >= ?", q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		add("ts <= ?", q.End.UnixNano())
	}
	if q.Source != "" {
		add("source = ?", q.Source)
	}
	if q.Policy != "" {
		add("policy = ?", q.Policy)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Query returns records matching q ordered by timestamp.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]RunRecord, error) {
	cond, args := q.where()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, source, policy, rows, unassigned, below_min_load, peak_kw, energy_kwh, fleet
         FROM plan_runs`+cond+` ORDER BY ts, id`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []RunRecord
	for rows.Next() {
		var (
			r     RunRecord
			ts    int64
			fleet string
		)
		if err := rows.Scan(&r.ID, &ts, &r.Source, &r.Policy, &r.Rows, &r.Unassigned,
			&r.BelowMinLoad, &r.PeakDemandKW, &r.EnergyKWh, &fleet); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(0, ts).UTC()
		if err := json.Unmarshal([]byte(fleet), &r.Fleet); err != nil {
			return nil, fmt.Errorf("run %s fleet: %w", r.ID, err)
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
