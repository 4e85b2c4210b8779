package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/assetplan/core/assign"
	"github.com/kilianp07/assetplan/core/combination"
	"github.com/kilianp07/assetplan/core/planner"
	"github.com/kilianp07/assetplan/core/runlog"
	"github.com/kilianp07/assetplan/core/tabular"
	"github.com/kilianp07/assetplan/pkg/export"
)

type planResponse struct {
	*planner.Plan
	Usage   []planner.CombinationUsage `json:"usage"`
	Skipped int                        `json:"skipped_rows"`
}

// Plan handles POST /api/plan.
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	t, name, err := h.readUpload(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}
	format, err := outputFormat(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	cols := h.opts.Ingest.Columns
	if c := r.FormValue("power_column"); c != "" {
		cols.Power = c
	}
	if c := r.FormValue("time_column"); c != "" {
		cols.Time = c
	}
	series, skipped, err := tabular.ExtractDemand(t, cols, h.opts.Ingest.ExtractOptions())
	if err != nil {
		h.fail(w, badRequest(fmt.Errorf("%s: %w", name, err)))
		return
	}
	p, err := h.planners.Get(assign.Policy(r.FormValue("policy")))
	if err != nil {
		h.fail(w, plannerError(err))
		return
	}
	plan, err := p.Plan(r.Context(), name, series)
	if err != nil {
		if plan == nil {
			h.fail(w, err)
			return
		}
		h.log.Errorf("plan %s: %v", plan.ID, err)
	}
	if skipped > 0 {
		h.log.Warnf("plan %s: skipped %d invalid rows in %s", plan.ID, skipped, name)
	}

	w.Header().Set("X-Plan-ID", plan.ID)
	w.Header().Set("X-Skipped-Rows", strconv.Itoa(skipped))
	attachment(w, "plan-"+plan.ID, format)
	switch format {
	case formatXLSX:
		err = export.WriteXLSX(w,
			export.Sheet{Name: "assignments", Table: export.AssignmentsTable(plan.Assignments)},
			export.Sheet{Name: "usage", Table: export.UsageTable(plan.Usage())},
		)
	case formatJSON:
		err = export.WriteJSON(w, planResponse{Plan: plan, Usage: plan.Usage(), Skipped: skipped})
	default:
		err = export.WriteAssignmentsCSV(w, plan.Assignments)
	}
	if err != nil {
		h.log.Errorf("write plan %s: %v", plan.ID, err)
	}
}

func plannerError(err error) error {
	switch {
	case errors.Is(err, assign.ErrUnknownPolicy):
		return badRequest(err)
	case errors.Is(err, combination.ErrFleetTooLarge):
		return &httpError{status: http.StatusUnprocessableEntity, err: err}
	default:
		return err
	}
}

// Combinations handles GET /api/combinations.
func (h *Handler) Combinations(w http.ResponseWriter, r *http.Request) {
	format, err := outputFormat(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	cands, err := h.planners.Candidates()
	if err != nil {
		h.fail(w, plannerError(err))
		return
	}
	attachment(w, "combinations", format)
	switch format {
	case formatXLSX:
		err = export.WriteXLSX(w, export.Sheet{Name: "combinations", Table: export.CombinationsTable(cands)})
	case formatJSON:
		err = export.WriteJSON(w, cands)
	default:
		err = export.WriteCombinationsCSV(w, cands)
	}
	if err != nil {
		h.log.Errorf("write combinations: %v", err)
	}
}

// Summary handles POST /api/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	t, name, err := h.readUpload(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}
	format, err := outputFormat(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	if format == formatJSON {
		h.fail(w, badRequest(errors.New("summary is available as csv or xlsx")))
		return
	}
	groups := h.opts.Summary.Groups
	if raw := r.FormValue("groups"); raw != "" {
		groups = nil
		if err := json.Unmarshal([]byte(raw), &groups); err != nil {
			h.fail(w, badRequest(fmt.Errorf("groups: %w", err)))
			return
		}
	}
	merges := h.opts.Summary.Merge
	if raw := r.FormValue("merge"); raw != "" {
		if merges, err = tabular.ParseMergeSets(raw); err != nil {
			h.fail(w, badRequest(err))
			return
		}
	}
	reports, err := tabular.BuildReports(t, groups, merges, h.opts.Summary.Bands)
	if err != nil {
		h.fail(w, badRequest(fmt.Errorf("%s: %w", name, err)))
		return
	}

	merged := r.FormValue("view") == "merged"
	out := tabular.SummaryTable(reports)
	if merged {
		out = tabular.MergedTable(reports)
	}
	attachment(w, "summary", format)
	if format == formatXLSX {
		err = export.WriteXLSX(w,
			export.Sheet{Name: "summary", Table: tabular.SummaryTable(reports)},
			export.Sheet{Name: "merged", Table: tabular.MergedTable(reports)},
		)
	} else {
		err = export.WriteTableCSV(w, out)
	}
	if err != nil {
		h.log.Errorf("write summary: %v", err)
	}
}

// Runs handles GET /api/runs.
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	q := runlog.Query{
		Source: r.URL.Query().Get("source"),
		Policy: r.URL.Query().Get("policy"),
	}
	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"start", &q.Start}, {"end", &q.End}} {
		s := r.URL.Query().Get(p.name)
		if s == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.fail(w, badRequest(fmt.Errorf("%s: %w", p.name, err)))
			return
		}
		*p.dst = ts
	}
	records, err := h.store.Query(r.Context(), q)
	if err != nil {
		h.fail(w, err)
		return
	}
	if records == nil {
		records = []runlog.RunRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		h.log.Errorf("write runs: %v", err)
	}
}
