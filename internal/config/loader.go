package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix     = "MOVIESONGS_"
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if MOVIESONGS_CONFIG is set
//  3. env (prefix MOVIESONGS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// MOVIESONGS_CATALOG_PATH -> catalog_path. Underscores are preserved to
	// match the flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings every binary depends on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.CatalogPath) == "":
		return fmt.Errorf("%w: catalog_path must not be empty", ErrInvalidConfig)
	}
	if !strictlyIncreasing(c.MetricsLatencyBucketsMS) {
		return fmt.Errorf("%w: metrics_latency_buckets_ms must be increasing", ErrInvalidConfig)
	}
	switch c.SyncSource {
	case SourceSheets, SourceCSV:
	default:
		return fmt.Errorf("%w: unknown sync_source %q", ErrInvalidConfig, c.SyncSource)
	}
	return nil
}

// ValidateSync checks the settings the sync job needs for its source.
func (c *Config) ValidateSync() error {
	switch c.SyncSource {
	case SourceSheets:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("%w: spreadsheet_id is required for the sheets source", ErrInvalidConfig)
		}
		if c.CredentialsFile == "" {
			return fmt.Errorf("%w: credentials_file is required for the sheets source", ErrInvalidConfig)
		}
	case SourceCSV:
		if c.CSVPath == "" {
			return fmt.Errorf("%w: csv_path is required for the csv source", ErrInvalidConfig)
		}
	}
	if c.FetchAttempts < 1 {
		return fmt.Errorf("%w: fetch_attempts must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func strictlyIncreasing(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if v[i] <= v[i-1] {
			return false
		}
	}
	return true
}
