// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/solvedrec/internal/crawler"
	"github.com/tomtom215/solvedrec/internal/dataset"
	"github.com/tomtom215/solvedrec/internal/logging"
	"github.com/tomtom215/solvedrec/internal/recommend"
	"github.com/tomtom215/solvedrec/internal/supervisor"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables, in that order of precedence.
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	handle, err := recommend.NewHandle(cfg.RecommendConfigFor(), logger)
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Security   SecurityConfig   `koanf:"security"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Dataset    DatasetConfig    `koanf:"dataset"`
	Snapshot   SnapshotConfig   `koanf:"snapshot"`
	Crawler    CrawlerConfig    `koanf:"crawler"`
	Duel       DuelConfig       `koanf:"duel"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Environment     string        `koanf:"environment" validate:"oneof=development staging production"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=1,lte=100000"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=1s"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// RecommendConfig holds recommendation engine settings.
//
// Environment Variables:
//   - RECOMMEND_NEIGHBORS: neighbors contributing scores (default: 10)
//   - RECOMMEND_TRAIN_TIMEOUT: maximum training duration (default: 10m)
//   - RECOMMEND_TRAIN_INTERVAL: retrain period, 0 disables (default: 24h)
//   - RECOMMEND_TRAIN_ON_STARTUP: train before serving (default: true)
type RecommendConfig struct {
	// Neighbors is the number of most similar users that contribute scores.
	// Default: 10
	Neighbors int `koanf:"neighbors" validate:"gte=1,lte=1000"`

	// MinPopularity is the solver count a problem needs for the fallback list.
	// Default: 2
	MinPopularity int `koanf:"min_popularity" validate:"gte=1"`

	// MinTagPopularity is the same threshold for tag-filtered fallback.
	// Default: 1
	MinTagPopularity int `koanf:"min_tag_popularity" validate:"gte=1"`

	// DefaultN is the result size when a request does not set n.
	// Default: 10
	DefaultN int `koanf:"default_n" validate:"gte=1"`

	// MaxN caps the requested result size.
	// Default: 100
	MaxN int `koanf:"max_n" validate:"gte=1"`

	// TrainTimeout bounds a single training run.
	// Default: 10m
	TrainTimeout time.Duration `koanf:"train_timeout" validate:"gt=0"`

	// Workers computing similarity rows. 0 uses NumCPU.
	Workers int `koanf:"workers" validate:"gte=0"`

	// MinUsers is the number of distinct users required to train.
	// Default: 1
	MinUsers int `koanf:"min_users" validate:"gte=1"`

	// TrainInterval is how often to retrain. 0 disables periodic training.
	// Default: 24h
	TrainInterval time.Duration `koanf:"train_interval" validate:"gte=0"`

	// TrainOnStartup trains (or restores a snapshot) when the server starts.
	// Default: true
	TrainOnStartup bool `koanf:"train_on_startup"`

	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
}

// DatasetConfig selects where training ratings come from.
type DatasetConfig struct {
	// Kind is csv, duckdb or synthetic.
	// Default: csv
	Kind string `koanf:"kind" validate:"oneof=csv duckdb synthetic"`

	// Path is the CSV file, or the DuckDB database file for kind=duckdb.
	// Default: /data/dataset.csv
	Path string `koanf:"path"`

	// Table is the DuckDB table holding ratings.
	// Default: ratings
	Table string `koanf:"table"`

	// ImportCSV is a CSV file loaded into Table before reading (duckdb only).
	ImportCSV string `koanf:"import_csv"`

	// Seed for the synthetic generator.
	Seed uint64 `koanf:"seed"`
}

// SnapshotConfig controls model persistence.
type SnapshotConfig struct {
	// Backend is none, file or badger.
	// Default: file
	Backend string `koanf:"backend" validate:"oneof=none file badger"`

	// Path is the snapshot directory (file) or database directory (badger).
	// Default: /data/snapshots
	Path string `koanf:"path"`

	// Keep is the number of snapshot versions retained after each save.
	// Default: 3
	Keep int `koanf:"keep" validate:"gte=1"`
}

// CrawlerConfig holds solved.ac client settings.
type CrawlerConfig struct {
	BaseURL             string        `koanf:"base_url" validate:"required"`
	RequestsPerSecond   float64       `koanf:"requests_per_second" validate:"gt=0"`
	Burst               int           `koanf:"burst" validate:"gte=1"`
	Timeout             time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxRetries          int           `koanf:"max_retries" validate:"gte=0,lte=10"`
	RetryBaseDelay      time.Duration `koanf:"retry_base_delay" validate:"gt=0"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests" validate:"gte=1"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio" validate:"gt=0,lte=1"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
	Concurrency         int           `koanf:"concurrency" validate:"gte=1,lte=64"`
}

// DuelConfig holds duel bookkeeping settings.
type DuelConfig struct {
	// Retention is how long completed duels stay queryable.
	// Default: 24h
	Retention time.Duration `koanf:"retention" validate:"gt=0"`

	// PruneInterval is how often completed duels are swept.
	// Default: 10m
	PruneInterval time.Duration `koanf:"prune_interval" validate:"gt=0"`
}

// SupervisorConfig holds suture tree settings.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gt=0"`
	FailureDecay     float64       `koanf:"failure_decay" validate:"gt=0"`
	FailureBackoff   time.Duration `koanf:"failure_backoff" validate:"gt=0"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns the HTTP listen address.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// LoggingConfigFor converts the logging section into logging.Config.
func (c *Config) LoggingConfigFor() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}

// RecommendConfigFor converts the recommend section into recommend.Config.
func (c *Config) RecommendConfigFor() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Neighbors.TopK = c.Recommend.Neighbors
	cfg.Neighbors.MinPopularity = c.Recommend.MinPopularity
	cfg.Neighbors.MinTagPopularity = c.Recommend.MinTagPopularity
	cfg.Limits.DefaultK = c.Recommend.DefaultN
	cfg.Limits.MaxK = c.Recommend.MaxN
	cfg.Training.Timeout = c.Recommend.TrainTimeout
	if c.Recommend.Workers > 0 {
		cfg.Training.Workers = c.Recommend.Workers
	}
	cfg.Training.MinUsers = c.Recommend.MinUsers
	cfg.Cache.Enabled = c.Recommend.CacheEnabled
	cfg.Cache.TTL = c.Recommend.CacheTTL
	cfg.Cache.MaxEntries = c.Recommend.CacheMaxEntries
	return cfg
}

// DatasetSource converts the dataset section into dataset.Source.
func (c *Config) DatasetSource() dataset.Source {
	return dataset.Source{
		Kind:      c.Dataset.Kind,
		Path:      c.Dataset.Path,
		Table:     c.Dataset.Table,
		ImportCSV: c.Dataset.ImportCSV,
		Seed:      c.Dataset.Seed,
	}
}

// CrawlerClientConfig converts the crawler section into crawler.Config.
func (c *Config) CrawlerClientConfig() crawler.Config {
	cfg := crawler.DefaultConfig()
	cfg.BaseURL = c.Crawler.BaseURL
	cfg.RequestsPerSecond = c.Crawler.RequestsPerSecond
	cfg.Burst = c.Crawler.Burst
	cfg.Timeout = c.Crawler.Timeout
	cfg.MaxRetries = c.Crawler.MaxRetries
	cfg.RetryBaseDelay = c.Crawler.RetryBaseDelay
	cfg.BreakerMinRequests = c.Crawler.BreakerMinRequests
	cfg.BreakerFailureRatio = c.Crawler.BreakerFailureRatio
	cfg.BreakerTimeout = c.Crawler.BreakerTimeout
	return cfg
}

// TreeConfig converts the supervisor section into supervisor.TreeConfig.
func (c *Config) TreeConfig() supervisor.TreeConfig {
	return supervisor.TreeConfig{
		FailureThreshold: c.Supervisor.FailureThreshold,
		FailureDecay:     c.Supervisor.FailureDecay,
		FailureBackoff:   c.Supervisor.FailureBackoff,
		ShutdownTimeout:  c.Supervisor.ShutdownTimeout,
	}
}

// Load loads configuration using Koanf. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
