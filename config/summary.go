package config

import (
	"fmt"

	"github.com/kilianp07/assetplan/core/tabular"
)

// SummaryConfig defines the column groups of the load summary.
type SummaryConfig struct {
	Groups []tabular.GroupSpec `json:"groups"`
	// Merge lists sets of group indexes whose tables are concatenated before
	// ratios are computed.
	Merge [][]int        `json:"merge"`
	Bands []tabular.Band `json:"bands"`
}

// SetDefaults applies the default load bands.
func (c *SummaryConfig) SetDefaults() {
	if len(c.Bands) == 0 {
		c.Bands = tabular.DefaultBands()
	}
}

// Validate checks every group, the merge indexes and the bands.
func (c SummaryConfig) Validate() error {
	for _, g := range c.Groups {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	for _, m := range c.Merge {
		if len(m) < 2 {
			return fmt.Errorf("merge %v: needs at least two groups", m)
		}
		for _, i := range m {
			if i < 0 || i >= len(c.Groups) {
				return fmt.Errorf("merge %v: group index %d out of range", m, i)
			}
		}
	}
	return tabular.ValidateBands(c.Bands)
}
