package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Emitter != "none" {
		t.Fatalf("Emitter = %q, want %q", cfg.Emitter, "none")
	}
	if cfg.MaxFlushIterations != 0 {
		t.Fatalf("MaxFlushIterations = %d, want 0", cfg.MaxFlushIterations)
	}
	if cfg.MetricsAddress != ":9090" {
		t.Fatalf("MetricsAddress = %q, want %q", cfg.MetricsAddress, ":9090")
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reactorctl.yaml")
	yaml := "emitter: log\nlog_json: true\nmax_flush_iterations: 1000\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Emitter != "log" || !cfg.LogJSON || cfg.MaxFlushIterations != 1000 {
		t.Fatalf("unexpected cfg after load: %+v", cfg)
	}
	// Untouched fields keep their default.
	if cfg.MetricsAddress != ":9090" {
		t.Fatalf("MetricsAddress = %q, want default %q", cfg.MetricsAddress, ":9090")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load with missing file: want error, got nil")
	}
}
