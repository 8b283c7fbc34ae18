// Package config loads the enrichment driver's configuration. The core
// (internal/session and below) reads no configuration itself — this
// package exists only for cmd/tacenrich.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level driver configuration.
type Config struct {
	Tacview TacviewConfig `yaml:"tacview"`
	Sink    SinkConfig    `yaml:"sink"`
	Matcher MatcherConfig `yaml:"matcher"`
	HTTP    HTTPConfig    `yaml:"http"`
	CoT     CoTConfig     `yaml:"cot"`
	Logging LoggingConfig `yaml:"logging"`
}

// TacviewConfig configures the real-time network client or file/archive
// reader that feeds lines into the session.
type TacviewConfig struct {
	Mode     string `yaml:"mode" default:"tcp"` // "tcp", "file", "zip"
	Address  string `yaml:"address,omitempty"`
	Path     string `yaml:"path,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// SinkConfig configures the relational sink.
type SinkConfig struct {
	Driver string `yaml:"driver" default:"sqlite"`
	DSN    string `yaml:"dsn" default:"tacenrich.db"`
}

// MatcherConfig overrides the contact matcher's tunables; the zero value
// for each field means "use the package default".
type MatcherConfig struct {
	RecencyWindowSeconds float64 `yaml:"recency_window_seconds,omitempty"`
	ParentAcceptMeters   float64 `yaml:"parent_accept_meters,omitempty"`
}

// HTTPConfig configures the read-only live dashboard.
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled" default:"false"`
	Addr    string `yaml:"addr" default:":8080"`
}

// CoTConfig configures the optional Cursor-on-Target broadcast.
type CoTConfig struct {
	Enabled  bool   `yaml:"enabled" default:"false"`
	Endpoint string `yaml:"endpoint" default:"239.2.3.1:6969"`
}

// LoggingConfig configures the logrus logger used throughout.
type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"text"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Tacview.Mode == "" {
		cfg.Tacview.Mode = "tcp"
	}
	if cfg.Sink.Driver == "" {
		cfg.Sink.Driver = "sqlite"
	}
	if cfg.Sink.DSN == "" {
		cfg.Sink.DSN = "tacenrich.db"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.CoT.Endpoint == "" {
		cfg.CoT.Endpoint = "239.2.3.1:6969"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Tacview.Mode {
	case "tcp":
		if cfg.Tacview.Address == "" {
			return fmt.Errorf("tacview.address is required when mode is tcp")
		}
	case "file", "zip":
		if cfg.Tacview.Path == "" {
			return fmt.Errorf("tacview.path is required when mode is %s", cfg.Tacview.Mode)
		}
	default:
		return fmt.Errorf("unknown tacview mode: %s", cfg.Tacview.Mode)
	}

	if cfg.Matcher.RecencyWindowSeconds < 0 {
		return fmt.Errorf("matcher.recency_window_seconds must be >= 0")
	}
	if cfg.Matcher.ParentAcceptMeters < 0 {
		return fmt.Errorf("matcher.parent_accept_meters must be >= 0")
	}

	return nil
}
