package mqtt

import (
	"encoding/json"
	"time"

	"github.com/kilianp07/assetplan/core/factory"
	coremetrics "github.com/kilianp07/assetplan/core/metrics"
)

func init() {
	_ = coremetrics.RegisterMetricsSink("mqtt", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPlanPublisher(c)
	})
}

// PlanSummary is the JSON document published for every plan.
type PlanSummary struct {
	PlanID       string    `json:"plan_id"`
	Source       string    `json:"source"`
	Policy       string    `json:"policy"`
	Rows         int       `json:"rows"`
	Unassigned   int       `json:"unassigned"`
	BelowMinLoad int       `json:"below_min_load"`
	Candidates   int       `json:"candidates"`
	PeakDemandKW float64   `json:"peak_demand_kw"`
	EnergyKWh    float64   `json:"energy_kwh"`
	DurationMS   float64   `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewPlanSummary converts a PlanResult to its published form.
func NewPlanSummary(res coremetrics.PlanResult) PlanSummary {
	return PlanSummary{
		PlanID:       res.PlanID,
		Source:       res.Source,
		Policy:       res.Policy,
		Rows:         res.Rows,
		Unassigned:   res.Unassigned,
		BelowMinLoad: res.BelowMinLoad,
		Candidates:   res.Candidates,
		PeakDemandKW: res.PeakDemandKW,
		EnergyKWh:    res.EnergyKWh,
		DurationMS:   float64(res.Duration.Microseconds()) / 1000,
		Timestamp:    res.Time.UTC(),
	}
}

// PlanPublisher is a metrics sink publishing plan summaries over MQTT.
type PlanPublisher struct {
	client *Client
	topic  string
	qos    byte
	retain bool
}

// NewPlanPublisher connects to the broker and returns the publisher.
func NewPlanPublisher(cfg Config) (*PlanPublisher, error) {
	cfg.SetDefaults()
	c, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	return &PlanPublisher{client: c, topic: cfg.Topic, qos: cfg.QoS, retain: cfg.Retain}, nil
}

// RecordPlan publishes the summary of res to the configured topic.
func (p *PlanPublisher) RecordPlan(res coremetrics.PlanResult) error {
	payload, err := json.Marshal(NewPlanSummary(res))
	if err != nil {
		return err
	}
	return p.client.Publish(p.topic, p.qos, p.retain, payload)
}

// Close disconnects from the broker.
func (p *PlanPublisher) Close() { p.client.Disconnect() }
