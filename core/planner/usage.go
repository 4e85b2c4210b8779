package planner

// CombinationUsage counts the hours a combination label was selected.
type CombinationUsage struct {
	Label string  `json:"label"`
	Hours int     `json:"hours"`
	Share float64 `json:"share"`
	// EnergyKWh is the demand served while the combination was selected.
	EnergyKWh float64 `json:"energy_kwh"`
}

// Usage aggregates assignments per label in order of first use. Unassigned
// rows are grouped under the no-suitable-machine label.
func (pl *Plan) Usage() []CombinationUsage {
	idx := make(map[string]int)
	var out []CombinationUsage
	for _, a := range pl.Assignments {
		label := a.Label()
		i, ok := idx[label]
		if !ok {
			i = len(out)
			idx[label] = i
			out = append(out, CombinationUsage{Label: label})
		}
		out[i].Hours++
		if a.Satisfied() {
			out[i].EnergyKWh += a.Point.DemandKW
		}
	}
	if n := len(pl.Assignments); n > 0 {
		for i := range out {
			out[i].Share = float64(out[i].Hours) / float64(n)
		}
	}
	return out
}
