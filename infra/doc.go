// Package infra holds the adapters around the planning core: file ingestion,
// zerolog logging, Prometheus/InfluxDB sinks and the MQTT plan publisher.
// Adapters implement interfaces declared under core and never the reverse.
package infra
