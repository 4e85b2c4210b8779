// Package metrics defines the events emitted by the planner and the sinks
// recording them. Sinks are created from configuration through a factory
// registry; the infra/metrics package registers the Prometheus, InfluxDB and
// MQTT implementations. Several configured sinks are combined in a MultiSink.
package metrics
