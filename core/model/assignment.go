package model

// NoSuitableMachine labels demand rows that no combination can cover.
const NoSuitableMachine = "no suitable machine"

// Assignment links a demand point to the combination selected for it. A nil
// Combination means no candidate covers the demand.
type Assignment struct {
	Point        DemandPoint   `json:"point"`
	Combination  *Combination  `json:"combination,omitempty"`
	Alternatives []Combination `json:"alternatives,omitempty"`
}

// Satisfied reports whether a combination was found.
func (a Assignment) Satisfied() bool { return a.Combination != nil }

// Label returns the combination label or NoSuitableMachine.
func (a Assignment) Label() string {
	if a.Combination == nil {
		return NoSuitableMachine
	}
	return a.Combination.Label()
}

// TotalKW returns the installed power of the selected combination.
func (a Assignment) TotalKW() float64 {
	if a.Combination == nil {
		return 0
	}
	return a.Combination.TotalKW
}

// LoadFactor is the share of the selected capacity used by the demand.
func (a Assignment) LoadFactor() float64 {
	if a.Combination == nil || a.Combination.TotalKW == 0 {
		return 0
	}
	return a.Point.DemandKW / a.Combination.TotalKW
}

// BelowMinLoad reports whether the demand would run the selected machines
// under their minimum technical load.
func (a Assignment) BelowMinLoad() bool {
	return a.Combination != nil && a.Point.DemandKW < a.Combination.MinLoadKW
}
