package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/assetplan/core/assign"
	"github.com/kilianp07/assetplan/core/metrics"
	"github.com/kilianp07/assetplan/core/runlog"
)

type Config struct {
	Fleet   FleetConfig    `json:"fleet"`
	Assign  assign.Config  `json:"assign"`
	Ingest  IngestConfig   `json:"ingest"`
	Summary SummaryConfig  `json:"summary"`
	Metrics metrics.Config `json:"metrics"`
	RunLog  runlog.Config  `json:"runlog"`
	Server  ServerConfig   `json:"server"`
	Logging LoggingConfig  `json:"logging"`
}

// Load reads the YAML or JSON file at path, applies K_ prefixed environment
// overrides (K_ASSIGN__POLICY=first_fit sets assign.policy) and validates
// every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills unset fields of every section.
func (c *Config) SetDefaults() {
	c.Fleet.SetDefaults()
	c.Assign.SetDefaults()
	c.Ingest.SetDefaults()
	c.Summary.SetDefaults()
	c.RunLog.SetDefaults()
	c.Server.SetDefaults()
}

// Validate checks every section and names the failing one.
func (c Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"fleet", c.Fleet.Validate},
		{"assign", c.Assign.Validate},
		{"ingest", c.Ingest.Validate},
		{"summary", c.Summary.Validate},
		{"runlog", c.RunLog.Validate},
		{"server", c.Server.Validate},
		{"logging", c.Logging.Validate},
	}
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			return fmt.Errorf("%s: %w", ch.name, err)
		}
	}
	return nil
}
