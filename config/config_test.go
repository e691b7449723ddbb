package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fskrx.yaml")
	yaml := `
receiver:
  sample_rate_hz: 44100
  symbol_ms: 25
  freq_hz: [900, 1300, 1700, 2100]
  preamble_symbols: 6
  sync: [2, 0, 2]
transport:
  kind: websocket
  address: ws://localhost:8080/pcm
mqtt:
  enabled: true
  broker: tcp://localhost:1883
  topic: fskrx/packets
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Receiver.SampleRate != 44100 {
		t.Fatalf("SampleRate = %v, want 44100", cfg.Receiver.SampleRate)
	}
	if cfg.Receiver.PreambleSyms != 6 {
		t.Fatalf("PreambleSyms = %v, want 6", cfg.Receiver.PreambleSyms)
	}
	if cfg.Transport.Kind != "websocket" {
		t.Fatalf("Transport.Kind = %v, want websocket", cfg.Transport.Kind)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Broker != "tcp://localhost:1883" {
		t.Fatalf("MQTT config not applied: %+v", cfg.MQTT)
	}
	// Untouched section keeps its default.
	if !cfg.Prometheus.Enabled || cfg.Prometheus.Listen != ":9107" {
		t.Fatalf("Prometheus default not preserved: %+v", cfg.Prometheus)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load(missing file) returned nil error")
	}
}
