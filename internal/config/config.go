// Package config defines futdash configuration and its layered loader.
package config

import (
	"path/filepath"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr is the dashboard API listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// WorkerCount is the fetch worker pool width.
	WorkerCount int `koanf:"worker_count"`
	// QueueSize bounds the in-memory job queue feeding the pool.
	QueueSize int `koanf:"queue_size"`

	// BaseURL is the scraped site root, without trailing slash.
	BaseURL string `koanf:"base_url"`
	// Season is the game year used in profile and price URLs.
	Season string `koanf:"season"`
	// Platform selects the price series key in the price graph payload.
	Platform  string `koanf:"platform"`
	UserAgent string `koanf:"user_agent"`

	// RequestTimeoutMS bounds a single upstream request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
	// RetryCount is the number of retries on transport errors, 5xx and 429.
	RetryCount int `koanf:"retry_count"`
	// RequestsPerSecond and Burst shape the shared upstream rate limiter.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
	// BreakerFailures is the consecutive failure count that opens the circuit.
	BreakerFailures int `koanf:"breaker_failures"`

	// DataDir holds every persisted artifact. The file names below are relative to it.
	DataDir      string `koanf:"data_dir"`
	RawTable     string `koanf:"raw_table"`
	DerivedTable string `koanf:"derived_table"`
	HistoryDB    string `koanf:"history_db"`
	HistoryTable string `koanf:"history_table"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		WorkerCount:       10,
		QueueSize:         1_000,
		BaseURL:           "https://www.futbin.com",
		Season:            "20",
		Platform:          "ps",
		UserAgent:         "futdash/1.0",
		RequestTimeoutMS:  30_000,
		RetryCount:        2,
		RequestsPerSecond: 5,
		Burst:             1,
		BreakerFailures:   5,
		DataDir:           "data",
		RawTable:          "players.csv",
		DerivedTable:      "players_dash.csv",
		HistoryDB:         "history.db",
		HistoryTable:      "history_dash.csv",
	}
}

// RawTablePath returns the raw per-player table location.
func (c *Config) RawTablePath() string { return filepath.Join(c.DataDir, c.RawTable) }

// DerivedTablePath returns the dashboard-ready table location.
func (c *Config) DerivedTablePath() string { return filepath.Join(c.DataDir, c.DerivedTable) }

// HistoryDBPath returns the price/PGP history database location.
func (c *Config) HistoryDBPath() string { return filepath.Join(c.DataDir, c.HistoryDB) }

// HistoryTablePath returns the time-series derived table location.
func (c *Config) HistoryTablePath() string { return filepath.Join(c.DataDir, c.HistoryTable) }
