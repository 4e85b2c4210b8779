package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/assetplan/core/tabular"
	"github.com/kilianp07/assetplan/infra/ingest"
)

// IngestConfig defines how demand files are read.
type IngestConfig struct {
	Columns     tabular.DemandColumns `json:"columns"`
	Sheet       string                `json:"sheet"`
	Delimiter   string                `json:"delimiter"`
	TimeLayouts []string              `json:"time_layouts"`
	Strict      bool                  `json:"strict"`
	// Timezone is an IANA name used for timestamps without an offset.
	Timezone string `json:"timezone"`
}

// SetDefaults applies sane defaults.
func (c *IngestConfig) SetDefaults() {
	if c.Columns.Power == "" {
		c.Columns.Power = "power"
	}
	if len(c.TimeLayouts) == 0 {
		c.TimeLayouts = append([]string(nil), tabular.DefaultTimeLayouts...)
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
}

// Validate checks the delimiter and timezone.
func (c IngestConfig) Validate() error {
	switch c.Delimiter {
	case "", ",", ";", "\t", `\t`, "|":
	default:
		return fmt.Errorf("unsupported delimiter %q", c.Delimiter)
	}
	if c.Columns.Power == "" {
		return errors.New("columns.power_column is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// ReadOptions returns the file reader options.
func (c IngestConfig) ReadOptions() ingest.Options {
	return ingest.Options{Sheet: c.Sheet, Delimiter: c.Delimiter}
}

// ExtractOptions returns the demand parsing options.
func (c IngestConfig) ExtractOptions() tabular.ExtractOptions {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return tabular.ExtractOptions{
		TimeLayouts:    c.TimeLayouts,
		Strict:         c.Strict,
		Location:       loc,
		ThousandsComma: c.Delimiter == ",",
	}
}
