package model

import (
	"fmt"
	"strings"
)

// MachineClass groups generating machines. The two classes only differ in how
// they may be combined: TC units never run without at least one ELCO unit.
type MachineClass string

const (
	ClassELCO MachineClass = "ELCO"
	ClassTC   MachineClass = "TC"
)

// Valid reports whether c is a known class.
func (c MachineClass) Valid() bool {
	return c == ClassELCO || c == ClassTC
}

// Machine describes a generating unit of the plant.
type Machine struct {
	Name    string       `json:"name"`
	Class   MachineClass `json:"class"`
	SizeKW  float64      `json:"size_kw"`  // rated power in kW
	MinLoad float64      `json:"min_load"` // minimum technical load as a fraction of SizeKW
}

// Validate checks that the machine definition is usable.
func (m Machine) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("machine name is required")
	}
	if !m.Class.Valid() {
		return fmt.Errorf("machine %s: unknown class %q", m.Name, m.Class)
	}
	if !(m.SizeKW > 0) {
		return fmt.Errorf("machine %s: size must be positive", m.Name)
	}
	if m.MinLoad < 0 || m.MinLoad > 1 {
		return fmt.Errorf("machine %s: min load must be within [0,1]", m.Name)
	}
	return nil
}

// MinLoadKW returns the lowest power the machine can run at.
func (m Machine) MinLoadKW() float64 {
	return m.SizeKW * m.MinLoad
}

// MachineSet is an ordered list of machines of the same class.
type MachineSet []Machine

// Validate checks every machine and rejects duplicate names.
func (s MachineSet) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, m := range s {
		if err := m.Validate(); err != nil {
			return err
		}
		if _, ok := seen[m.Name]; ok {
			return fmt.Errorf("duplicate machine name %s", m.Name)
		}
		seen[m.Name] = struct{}{}
	}
	return nil
}

// TotalKW returns the installed power of the set.
func (s MachineSet) TotalKW() float64 {
	var sum float64
	for _, m := range s {
		sum += m.SizeKW
	}
	return sum
}

// Fleet holds the two machine classes of a plant.
type Fleet struct {
	ELCO MachineSet `json:"elco"`
	TC   MachineSet `json:"tc"`
}

// Validate checks both sets, their class labels and name uniqueness across
// the whole fleet.
func (f Fleet) Validate() error {
	if err := f.ELCO.Validate(); err != nil {
		return fmt.Errorf("elco: %w", err)
	}
	if err := f.TC.Validate(); err != nil {
		return fmt.Errorf("tc: %w", err)
	}
	for _, m := range f.ELCO {
		if m.Class != ClassELCO {
			return fmt.Errorf("machine %s listed as ELCO has class %s", m.Name, m.Class)
		}
	}
	names := make(map[string]struct{}, len(f.ELCO))
	for _, m := range f.ELCO {
		names[m.Name] = struct{}{}
	}
	for _, m := range f.TC {
		if m.Class != ClassTC {
			return fmt.Errorf("machine %s listed as TC has class %s", m.Name, m.Class)
		}
		if _, ok := names[m.Name]; ok {
			return fmt.Errorf("machine name %s used in both classes", m.Name)
		}
	}
	return nil
}

// Size returns the number of machines in the fleet.
func (f Fleet) Size() int { return len(f.ELCO) + len(f.TC) }

// TotalKW returns the installed power of the fleet.
func (f Fleet) TotalKW() float64 { return f.ELCO.TotalKW() + f.TC.TotalKW() }

// Names lists machine names, ELCO first.
func (f Fleet) Names() []string {
	out := make([]string, 0, f.Size())
	for _, m := range f.ELCO {
		out = append(out, m.Name)
	}
	for _, m := range f.TC {
		out = append(out, m.Name)
	}
	return out
}
