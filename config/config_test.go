package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/assetplan/core/assign"
	"github.com/kilianp07/assetplan/core/model"
)

const sampleYAML = `fleet:
  default_min_load: 0.4
  elco:
    - name: "A"
      size_kw: 100
      min_load: 0.5
    - name: "B"
      size_kw: 150
  tc:
    - name: "C"
      size_kw: 80
      min_load: 0
assign:
  policy: "first_fit"
  enforce_min_load: true
ingest:
  columns:
    power_column: "Puissance"
    time_column: "Date"
  delimiter: ";"
  timezone: "Europe/Paris"
summary:
  groups:
    - name: "line1"
      columns: ["t", "p1", "c1"]
    - name: "line2"
      columns: ["t", "p2", "c2", "f2"]
      rename: ["t", "p", "c", "f"]
  merge:
    - [0, 1]
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: "nop"
runlog:
  backend: "sqlite"
server:
  token: "secret"
logging:
  level: "debug"
`

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)

	fleet := cfg.Fleet.Fleet()
	require.Len(t, fleet.ELCO, 2)
	assert.Equal(t, model.ClassELCO, fleet.ELCO[0].Class)
	assert.Equal(t, 0.5, fleet.ELCO[0].MinLoad)
	assert.Equal(t, 0.4, fleet.ELCO[1].MinLoad)
	require.Len(t, fleet.TC, 1)
	assert.Equal(t, model.ClassTC, fleet.TC[0].Class)
	assert.Equal(t, 0.0, fleet.TC[0].MinLoad)

	assert.Equal(t, assign.PolicyFirstFit, cfg.Assign.Policy)
	assert.True(t, cfg.Assign.EnforceMinLoad)
	assert.Equal(t, "Puissance", cfg.Ingest.Columns.Power)
	assert.Equal(t, ";", cfg.Ingest.ReadOptions().Delimiter)
	assert.Equal(t, "Europe/Paris", cfg.Ingest.ExtractOptions().Location.String())
	assert.False(t, cfg.Ingest.ExtractOptions().ThousandsComma)
	assert.True(t, IngestConfig{Delimiter: ","}.ExtractOptions().ThousandsComma)
	require.Len(t, cfg.Summary.Groups, 2)
	assert.Equal(t, []string{"t", "p", "c", "f"}, cfg.Summary.Groups[1].Rename)
	assert.Equal(t, [][]int{{0, 1}}, cfg.Summary.Merge)
	assert.Len(t, cfg.Summary.Bands, 4)
	assert.Equal(t, ":9100", cfg.Metrics.PrometheusAddr)
	require.Len(t, cfg.Metrics.Sinks, 1)
	assert.Equal(t, "nop", cfg.Metrics.Sinks[0].Type)
	assert.Equal(t, "sqlite", cfg.RunLog.Backend)
	assert.Equal(t, "runs.db", cfg.RunLog.Path)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("K_ASSIGN__POLICY", "knapsack")
	t.Setenv("K_SERVER__ADDRESS", ":9999")
	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, assign.PolicyKnapsack, cfg.Assign.Policy)
	assert.Equal(t, ":9999", cfg.Server.Address)
}

func TestLoadJSON(t *testing.T) {
	data := `{"fleet":{"elco":[{"name":"A","size_kw":100}]}}`
	cfg, err := Load(writeConfig(t, "config.json", data))
	require.NoError(t, err)
	assert.Equal(t, assign.PolicyMinPower, cfg.Assign.Policy)
	assert.Equal(t, "power", cfg.Ingest.Columns.Power)
	assert.Equal(t, "jsonl", cfg.RunLog.Backend)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"no elco":        "fleet:\n  tc:\n    - name: C\n      size_kw: 80\n",
		"duplicate name": "fleet:\n  elco:\n    - name: A\n      size_kw: 100\n  tc:\n    - name: A\n      size_kw: 80\n",
		"bad policy":     "fleet:\n  elco:\n    - name: A\n      size_kw: 100\nassign:\n  policy: cheapest\n",
		"bad group":      "fleet:\n  elco:\n    - name: A\n      size_kw: 100\nsummary:\n  groups:\n    - name: g\n      columns: [a, b]\n",
		"bad merge":      "fleet:\n  elco:\n    - name: A\n      size_kw: 100\nsummary:\n  merge:\n    - [0, 3]\n",
		"bad timezone":   "fleet:\n  elco:\n    - name: A\n      size_kw: 100\ningest:\n  timezone: Mars/Olympus\n",
		"bad log level":  "fleet:\n  elco:\n    - name: A\n      size_kw: 100\nlogging:\n  level: loud\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeConfig(t, "config.toml", "x = 1"))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestFleetDefaultMinLoadOnlyWhenUnset(t *testing.T) {
	zero := 0.0
	c := FleetConfig{
		DefaultMinLoad: 0.3,
		ELCO:           []MachineConfig{{Name: "A", SizeKW: 100}, {Name: "B", SizeKW: 150, MinLoad: &zero}},
	}
	c.SetDefaults()
	fleet := c.Fleet()
	assert.Equal(t, 0.3, fleet.ELCO[0].MinLoad)
	assert.Equal(t, 0.0, fleet.ELCO[1].MinLoad)
}
