// Package config defines service configuration structures and loading
// hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory score-job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the duplicate-submission cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the ranking store shards.
	ShardCount int `koanf:"shard_count"`

	// MaxRankingLimit caps GET /rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// MinSamples is the fallback-routing threshold: series shorter than
	// this are scored by the fallback model.
	MinSamples int `koanf:"min_samples"`

	// SeriesTTLMinutes sets the probability-series cache lifetime.
	SeriesTTLMinutes int `koanf:"series_ttl_minutes"`

	// BaseWeights optionally overrides the engine's component weights.
	BaseWeights map[string]float64 `koanf:"base_weights"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9090",
		QueueSize:        10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       50_000,
		ShardCount:       8,
		MaxRankingLimit:  100,
		MinSamples:       10,
		SeriesTTLMinutes: 30,
	}
}
