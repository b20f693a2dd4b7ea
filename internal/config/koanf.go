// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/solvedrec/config.yaml",
	"/etc/solvedrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Recommend: RecommendConfig{
			Neighbors:        10,
			MinPopularity:    2,
			MinTagPopularity: 1,
			DefaultN:         10,
			MaxN:             100,
			TrainTimeout:     10 * time.Minute,
			Workers:          0, // 0 = use runtime.NumCPU()
			MinUsers:         1,
			TrainInterval:    24 * time.Hour,
			TrainOnStartup:   true,
			CacheEnabled:     true,
			CacheTTL:         5 * time.Minute,
			CacheMaxEntries:  10000,
		},
		Dataset: DatasetConfig{
			Kind:  "csv",
			Path:  "/data/dataset.csv",
			Table: "ratings",
			Seed:  1,
		},
		Snapshot: SnapshotConfig{
			Backend: "file",
			Path:    "/data/snapshots",
			Keep:    3,
		},
		Crawler: CrawlerConfig{
			BaseURL:             "https://solved.ac",
			RequestsPerSecond:   2,
			Burst:               1,
			Timeout:             15 * time.Second,
			MaxRetries:          5,
			RetryBaseDelay:      time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
			BreakerTimeout:      2 * time.Minute,
			Concurrency:         4,
		},
		Duel: DuelConfig{
			Retention:     24 * time.Hour,
			PruneInterval: 10 * time.Minute,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5.0,
			FailureDecay:     30.0,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Recommendation engine mappings
	"recommend_neighbors":          "recommend.neighbors",
	"recommend_min_popularity":     "recommend.min_popularity",
	"recommend_min_tag_popularity": "recommend.min_tag_popularity",
	"recommend_default_n":          "recommend.default_n",
	"recommend_max_n":              "recommend.max_n",
	"recommend_train_timeout":      "recommend.train_timeout",
	"recommend_workers":            "recommend.workers",
	"recommend_min_users":          "recommend.min_users",
	"recommend_train_interval":     "recommend.train_interval",
	"recommend_train_on_startup":   "recommend.train_on_startup",
	"recommend_cache_enabled":      "recommend.cache_enabled",
	"recommend_cache_ttl":          "recommend.cache_ttl",
	"recommend_cache_max_entries":  "recommend.cache_max_entries",

	// Dataset mappings
	"dataset_kind":       "dataset.kind",
	"dataset_path":       "dataset.path",
	"dataset_table":      "dataset.table",
	"dataset_import_csv": "dataset.import_csv",
	"dataset_seed":       "dataset.seed",

	// Snapshot mappings
	"snapshot_backend": "snapshot.backend",
	"snapshot_path":    "snapshot.path",
	"snapshot_keep":    "snapshot.keep",

	// Crawler mappings
	"solvedac_base_url":             "crawler.base_url",
	"crawler_requests_per_second":   "crawler.requests_per_second",
	"crawler_burst":                 "crawler.burst",
	"crawler_timeout":               "crawler.timeout",
	"crawler_max_retries":           "crawler.max_retries",
	"crawler_retry_base_delay":      "crawler.retry_base_delay",
	"crawler_breaker_min_requests":  "crawler.breaker_min_requests",
	"crawler_breaker_failure_ratio": "crawler.breaker_failure_ratio",
	"crawler_breaker_timeout":       "crawler.breaker_timeout",
	"crawler_concurrency":           "crawler.concurrency",

	// Duel mappings
	"duel_retention":      "duel.retention",
	"duel_prune_interval": "duel.prune_interval",

	// Supervisor mappings
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - RECOMMEND_NEIGHBORS -> recommend.neighbors
//   - SOLVEDAC_BASE_URL -> crawler.base_url
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables never
	// pollute the config.
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for synchronizing access to reloaded config.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
