package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/assetplan/core/metrics"
	"github.com/kilianp07/assetplan/infra/logger"
)

// InfluxSink writes planning runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlan writes one asset_plan point.
func (s *InfluxSink) RecordPlan(res coremetrics.PlanResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, planPoint(res))
}

// RecordAssignments writes one asset_assignment point per demand row.
func (s *InfluxSink) RecordAssignments(evs []coremetrics.AssignmentEvent) error {
	if len(evs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, len(evs))
	for i, e := range evs {
		points[i] = assignmentPoint(e)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() { s.client.Close() }

func planPoint(res coremetrics.PlanResult) *write.Point {
	return write.NewPointWithMeasurement("asset_plan").
		AddTag("plan_id", res.PlanID).
		AddTag("policy", res.Policy).
		AddTag("source", res.Source).
		AddField("rows", res.Rows).
		AddField("unassigned", res.Unassigned).
		AddField("below_min_load", res.BelowMinLoad).
		AddField("candidates", res.Candidates).
		AddField("peak_demand_kw", round3(res.PeakDemandKW)).
		AddField("energy_kwh", round3(res.EnergyKWh)).
		AddField("duration_ms", round3(res.Duration.Seconds()*1000)).
		SetTime(res.Time)
}

func assignmentPoint(e coremetrics.AssignmentEvent) *write.Point {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return write.NewPointWithMeasurement("asset_assignment").
		AddTag("plan_id", e.PlanID).
		AddTag("combination", e.Label).
		AddTag("outcome", e.Outcome()).
		AddField("row", e.Index).
		AddField("demand_kw", round3(e.DemandKW)).
		AddField("total_kw", round3(e.TotalKW)).
		AddField("load_factor", round3(e.LoadFactor)).
		SetTime(ts)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
