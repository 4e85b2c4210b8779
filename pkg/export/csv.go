package export

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/kilianp07/assetplan/core/model"
	"github.com/kilianp07/assetplan/core/planner"
	"github.com/kilianp07/assetplan/core/tabular"
)

// WriteTableCSV writes the headers followed by every row.
func WriteTableCSV(w io.Writer, t tabular.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Normalize().Rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteAssignmentsCSV writes one line per demand row.
func WriteAssignmentsCSV(w io.Writer, asg []model.Assignment) error {
	return WriteTableCSV(w, AssignmentsTable(asg))
}

// WriteUsageCSV writes the hours spent per combination.
func WriteUsageCSV(w io.Writer, usage []planner.CombinationUsage) error {
	return WriteTableCSV(w, UsageTable(usage))
}

// WriteCombinationsCSV writes the candidate list.
func WriteCombinationsCSV(w io.Writer, cands []model.Combination) error {
	return WriteTableCSV(w, CombinationsTable(cands))
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
