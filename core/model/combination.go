package model

import "strings"

// LabelSeparator joins machine names in a combination label.
const LabelSeparator = " + "

// Combination is a group of machines considered together to cover a demand.
type Combination struct {
	Machines  []Machine `json:"machines"`
	TotalKW   float64   `json:"total_kw"`
	MinLoadKW float64   `json:"min_load_kw"`
}

// NewCombination builds a combination and computes its totals.
func NewCombination(ms ...Machine) Combination {
	c := Combination{Machines: append([]Machine(nil), ms...)}
	for _, m := range ms {
		c.TotalKW += m.SizeKW
		c.MinLoadKW += m.MinLoadKW()
	}
	return c
}

// Len returns the number of machines.
func (c Combination) Len() int { return len(c.Machines) }

// Label renders the combination as "A + B".
func (c Combination) Label() string {
	names := make([]string, len(c.Machines))
	for i, m := range c.Machines {
		names[i] = m.Name
	}
	return strings.Join(names, LabelSeparator)
}

// Covers reports whether the combination can supply demandKW. When minLoad is
// set the demand must also keep every machine at or above its minimum load.
func (c Combination) Covers(demandKW float64, minLoad bool) bool {
	if c.TotalKW < demandKW {
		return false
	}
	return !minLoad || c.MinLoadKW <= demandKW
}
