package assign

import (
	"errors"
	"fmt"

	"github.com/kilianp07/assetplan/core/combination"
)

// Policy selects how a covering combination is chosen for a demand.
type Policy string

const (
	// PolicyMinPower picks the covering combination with the lowest installed
	// power, then the fewest machines, then the earliest in generation order.
	PolicyMinPower Policy = "min_power"
	// PolicyFirstFit picks the first covering combination in generation order.
	PolicyFirstFit Policy = "first_fit"
	// PolicyAll returns every covering combination as alternatives and selects
	// the PolicyMinPower pick.
	PolicyAll Policy = "all"
	// PolicyKnapsack searches the minimum power subset with dynamic
	// programming instead of enumerating candidates.
	PolicyKnapsack Policy = "knapsack"
)

// ErrUnknownPolicy is returned for unsupported policy names.
var ErrUnknownPolicy = errors.New("unknown assignment policy")

// Config defines assignment settings.
type Config struct {
	Policy Policy `json:"policy"`
	// EnforceMinLoad rejects combinations whose summed minimum technical load
	// exceeds the demand.
	EnforceMinLoad bool `json:"enforce_min_load"`
	// MaxMachines bounds the fleet size for enumerating policies.
	MaxMachines int `json:"max_machines"`
	// ResolutionKW is the power quantum used by the knapsack policy. Zero
	// derives the largest step dividing every machine size.
	ResolutionKW float64 `json:"resolution_kw"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Policy == "" {
		c.Policy = PolicyMinPower
	}
	if c.MaxMachines <= 0 {
		c.MaxMachines = combination.DefaultMaxMachines
	}
}

// Validate checks the policy name and numeric bounds.
func (c Config) Validate() error {
	switch c.Policy {
	case PolicyMinPower, PolicyFirstFit, PolicyAll, PolicyKnapsack:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPolicy, c.Policy)
	}
	if c.MaxMachines < 0 {
		return fmt.Errorf("max_machines must not be negative")
	}
	if c.ResolutionKW < 0 {
		return fmt.Errorf("resolution_kw must not be negative")
	}
	return nil
}
