package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/assetplan/config"
	"github.com/kilianp07/assetplan/core/factory"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Fleet: config.FleetConfig{
			ELCO: []config.MachineConfig{{Name: "A", SizeKW: 100}, {Name: "B", SizeKW: 150}},
			TC:   []config.MachineConfig{{Name: "C", SizeKW: 80}},
		},
	}
	cfg.RunLog.Path = filepath.Join(t.TempDir(), "runs.jsonl")
	cfg.Server.Address = "127.0.0.1:0"
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestServiceHandler(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/combinations", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}
}

func TestServiceBadSink(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Sinks = append(cfg.Metrics.Sinks, factory.ModuleConfig{Type: "missing"})
	_, err := New(cfg)
	assert.ErrorContains(t, err, "metrics sink")
}
