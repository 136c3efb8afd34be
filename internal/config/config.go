// Package config defines process configuration and how it is loaded.
//
// Values are layered: defaults from New, then an optional YAML file named by
// MOVIESONGS_CONFIG, then MOVIESONGS_* environment variables.
package config

import (
	"time"

	"github.com/okian/moviesongs/pkg/metrics"
)

// Sync sources.
const (
	SourceSheets = "sheets"
	SourceCSV    = "csv"
)

// Config contains process configuration shared by the API server, the sync
// job and the terminal client.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath is the bundled catalog file read at startup and written
	// by the sync job.
	CatalogPath string `koanf:"catalog_path"`

	// MaxSessions bounds the number of quiz sessions held in memory.
	MaxSessions int `koanf:"max_sessions"`

	// SessionTTLMinutes evicts quiz sessions idle for longer.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// QuizSeed makes question generation reproducible when non-zero.
	QuizSeed uint64 `koanf:"quiz_seed"`

	// SyncSource selects where the sync job reads rows: sheets or csv.
	SyncSource string `koanf:"sync_source"`

	SpreadsheetID   string `koanf:"spreadsheet_id"`
	SheetName       string `koanf:"sheet_name"`
	SheetRange      string `koanf:"sheet_range"`
	CredentialsFile string `koanf:"credentials_file"`

	CSVPath       string `koanf:"csv_path"`
	CSVSkipHeader bool   `koanf:"csv_skip_header"`

	// FetchAttempts and FetchBackoffMS bound retries around the source fetch.
	FetchAttempts  int `koanf:"fetch_attempts"`
	FetchBackoffMS int `koanf:"fetch_backoff_ms"`

	// MetricsPushURL, when set, is a Pushgateway the sync job reports to.
	MetricsPushURL string `koanf:"metrics_push_url"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLatencyBucketsMS overrides the HTTP latency histogram buckets.
	MetricsLatencyBucketsMS []float64 `koanf:"metrics_latency_buckets_ms"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		CatalogPath:       "data/songs.json",
		MaxSessions:       10_000,
		SessionTTLMinutes: 60,
		SyncSource:        SourceSheets,
		SheetName:         "Rock Anthems",
		SheetRange:        "A2:E",
		CredentialsFile:   "credentials.json",
		CSVSkipHeader:     true,
		FetchAttempts:     3,
		FetchBackoffMS:    400,
		MetricsNamespace:  "moviesongs",
	}
}

// SessionTTL returns SessionTTLMinutes as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// FetchBackoff returns FetchBackoffMS as a duration.
func (c *Config) FetchBackoff() time.Duration {
	return time.Duration(c.FetchBackoffMS) * time.Millisecond
}

// MetricsOptions returns the metrics options the config selects.
func (c *Config) MetricsOptions() []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(c.MetricsNamespace),
		metrics.WithSubsystem(c.MetricsSubsystem),
		metrics.WithHistogramBuckets(c.MetricsLatencyBucketsMS),
	}
}

// SheetA1Range returns the A1 notation range for the configured sheet.
func (c *Config) SheetA1Range() string {
	if c.SheetName == "" {
		return c.SheetRange
	}
	return c.SheetName + "!" + c.SheetRange
}
