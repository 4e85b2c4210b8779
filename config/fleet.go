package config

import (
	"errors"

	"github.com/kilianp07/assetplan/core/model"
)

// MachineConfig describes one machine. The class follows from the list it
// appears in.
type MachineConfig struct {
	Name   string  `json:"name"`
	SizeKW float64 `json:"size_kw"`
	// MinLoad is nil when unset so that an explicit 0 is kept.
	MinLoad *float64 `json:"min_load"`
}

// FleetConfig lists the machines of the plant per class.
type FleetConfig struct {
	ELCO []MachineConfig `json:"elco"`
	TC   []MachineConfig `json:"tc"`
	// DefaultMinLoad applies to machines without a min_load.
	DefaultMinLoad float64 `json:"default_min_load"`
}

// SetDefaults applies DefaultMinLoad to machines that do not set one.
func (c *FleetConfig) SetDefaults() {
	for _, set := range [][]MachineConfig{c.ELCO, c.TC} {
		for i := range set {
			if set[i].MinLoad == nil {
				v := c.DefaultMinLoad
				set[i].MinLoad = &v
			}
		}
	}
}

// Validate requires at least one ELCO machine and a consistent fleet.
func (c FleetConfig) Validate() error {
	if len(c.ELCO) == 0 {
		return errors.New("at least one elco machine is required")
	}
	return c.Fleet().Validate()
}

// Fleet converts the configuration to the planning model.
func (c FleetConfig) Fleet() model.Fleet {
	return model.Fleet{
		ELCO: machines(c.ELCO, model.ClassELCO),
		TC:   machines(c.TC, model.ClassTC),
	}
}

func machines(in []MachineConfig, class model.MachineClass) model.MachineSet {
	out := make(model.MachineSet, len(in))
	for i, m := range in {
		out[i] = model.Machine{Name: m.Name, Class: class, SizeKW: m.SizeKW}
		if m.MinLoad != nil {
			out[i].MinLoad = *m.MinLoad
		}
	}
	return out
}
