// Package config loads settings for the reactorctl CLI: the flush
// iteration bound, which emitter/metrics backend to wire, and where to
// serve them. Grounded on the teacher corpus's YAML-backed settings
// struct (nornicdb's apoc.Config: DefaultConfig / LoadConfig / env
// override), scaled down to the handful of knobs a single-threaded
// engine actually needs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls reactorctl's runtime wiring. Zero value is not valid —
// use Default() or Load().
type Config struct {
	// MaxFlushIterations bounds Flush; 0 means unbounded (reactive.WithMaxFlushIterations).
	MaxFlushIterations int `yaml:"max_flush_iterations"`

	// Emitter selects the observability backend: "none", "log", or
	// "buffered". reactorctl wires no emitter for any other value.
	Emitter string `yaml:"emitter"`
	// LogJSON switches the log emitter to JSON-lines output.
	LogJSON bool `yaml:"log_json"`

	// MetricsEnabled turns on the Prometheus collector and HTTP listener.
	MetricsEnabled bool `yaml:"metrics_enabled"`
	// MetricsAddress is the listen address for the /metrics endpoint.
	MetricsAddress string `yaml:"metrics_address"`

	// TraceRecorder selects the trace backend: "none", "memory", "sqlite", "mysql".
	TraceRecorder string `yaml:"trace_recorder"`
	// TraceDSN is the connection string/path for sqlite/mysql recorders.
	TraceDSN string `yaml:"trace_dsn"`
}

// Default returns the configuration reactorctl uses when no file is given:
// unbounded flush, no emitter, no metrics, in-memory trace only on request.
func Default() *Config {
	return &Config{
		MaxFlushIterations: 0,
		Emitter:            "none",
		MetricsAddress:     ":9090",
		TraceRecorder:      "none",
	}
}

// Load reads a YAML config file at path, overlaying it on Default() so an
// omitted field keeps its default rather than zeroing out.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
