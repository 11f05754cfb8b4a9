package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration settings for the whole service.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	NATS     NATSConfig     `yaml:"nats"`
	HTTP     HTTPConfig     `yaml:"http"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Progress ProgressConfig `yaml:"progress"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	// Environment toggles log formatting: "development" gets text logs.
	Environment string `yaml:"environment"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
	// SubmitRatePerMinute caps /api/decode submissions per bearer key.
	SubmitRatePerMinute int `yaml:"submit_rate_per_minute"`
}

// CatalogConfig holds catalog serving configuration.
type CatalogConfig struct {
	// LastModified is the watermark stamped on catalog responses so clients
	// can cache the song/pattern tables. It is operator-supplied, updated
	// whenever the reference data is reimported.
	LastModified time.Time `yaml:"last_modified"`
}

// ProgressConfig holds the periodic progress sweep configuration.
type ProgressConfig struct {
	SweepInterval time.Duration `yaml:"sweep_interval"`
	// SweepConcurrency bounds how many decoders are processed in parallel.
	SweepConcurrency int `yaml:"sweep_concurrency"`
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables when the file is missing. Env vars always win over
// file values so deployments can override individual settings.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required (set postgres.dsn or DATABASE_URL)")
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("CATALOG_LAST_MODIFIED"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			cfg.Catalog.LastModified = t
		}
	}
	if v := os.Getenv("PROGRESS_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Progress.SweepInterval = d
		}
	}
	if v := os.Getenv("PROGRESS_SWEEP_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Progress.SweepConcurrency = n
		}
	}
	if v := os.Getenv("SUBMIT_RATE_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.SubmitRatePerMinute = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8000"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
	if cfg.HTTP.SubmitRatePerMinute <= 0 {
		cfg.HTTP.SubmitRatePerMinute = 60
	}
	if cfg.Progress.SweepInterval <= 0 {
		cfg.Progress.SweepInterval = time.Hour
	}
	if cfg.Progress.SweepConcurrency <= 0 {
		cfg.Progress.SweepConcurrency = 8
	}
}
