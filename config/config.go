// Package config loads the YAML configuration for an fskrx receiver
// process, following the top-level struct-of-sections layout this
// codebase's own config.go uses for its (much larger) SDR configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of a receiver process's configuration file.
type Config struct {
	Receiver   ReceiverConfig   `yaml:"receiver"`
	Transport  TransportConfig  `yaml:"transport"`
	Prometheus PrometheusConfig `yaml:"prometheus"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	Recorder   RecorderConfig   `yaml:"recorder"`
}

// ReceiverConfig mirrors framer.Params before it is derived.
type ReceiverConfig struct {
	SampleRate   float64    `yaml:"sample_rate_hz"`
	SymbolMS     float64    `yaml:"symbol_ms"`
	Freq         [4]float64 `yaml:"freq_hz"`
	PreambleSyms int        `yaml:"preamble_symbols"`
	Sync         [3]int     `yaml:"sync"`
}

// TransportConfig selects and configures the byte-oriented channel the
// receiver reads PCM windows from.
type TransportConfig struct {
	Kind    string `yaml:"kind"` // "loopback" or "websocket"
	Address string `yaml:"address"`
}

// PrometheusConfig controls the metrics HTTP endpoint.
type PrometheusConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// MQTTConfig controls whether validated packets are republished to a
// broker, and how to reach it.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// RecorderConfig controls whether the raw byte-progress stream is
// persisted to disk.
type RecorderConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	Compressed bool   `yaml:"compressed"`
}

// Default returns the configuration used when no file is supplied: a
// loopback transport and the reference tone plan (SR=48000, 20ms symbols,
// tones at 1000/1400/1800/2200 Hz, PREAMBLE_SYMS=8, sync (1,3,0)).
func Default() *Config {
	return &Config{
		Receiver: ReceiverConfig{
			SampleRate:   48000,
			SymbolMS:     20,
			Freq:         [4]float64{1000, 1400, 1800, 2200},
			PreambleSyms: 8,
			Sync:         [3]int{1, 3, 0},
		},
		Transport: TransportConfig{
			Kind: "loopback",
		},
		Prometheus: PrometheusConfig{
			Enabled: true,
			Listen:  ":9107",
		},
	}
}

// Load reads and parses a YAML config file, starting from Default and
// overriding whatever the file specifies.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
