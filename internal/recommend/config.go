// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains all configuration for the recommendation core.
type Config struct {
	// Neighbors contains neighbor selection and fallback parameters.
	Neighbors NeighborConfig `json:"neighbors"`

	// Training contains training parameters.
	Training TrainingConfig `json:"training"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains response caching parameters.
	Cache CacheConfig `json:"cache"`
}

// NeighborConfig controls how neighbors are chosen and when the popularity
// fallback qualifies a problem.
type NeighborConfig struct {
	// TopK is the number of most similar users that contribute scores.
	// Default: 10.
	TopK int `json:"top_k"`

	// MinPopularity is the minimum distinct solver count for the plain
	// popularity fallback.
	// Default: 2.
	MinPopularity int `json:"min_popularity"`

	// MinTagPopularity is the minimum distinct solver count for the
	// tag-filtered fallback. Tag-narrowed pools are sparser, hence lower.
	// Default: 1.
	MinTagPopularity int `json:"min_tag_popularity"`
}

// TrainingConfig contains training parameters.
type TrainingConfig struct {
	// Timeout is the maximum time allowed for a training run.
	// Default: 10m.
	Timeout time.Duration `json:"timeout"`

	// Workers is the number of goroutines computing similarity rows.
	// Default: runtime.NumCPU().
	Workers int `json:"workers"`

	// MinUsers is the minimum number of unique users required to train.
	// Default: 1.
	MinUsers int `json:"min_users"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the default number of recommendations to return.
	// Default: 10.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum allowed N.
	// Default: 100.
	MaxK int `json:"max_k"`
}

// CacheConfig contains response caching parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached responses.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Neighbors: NeighborConfig{
			TopK:             10,
			MinPopularity:    2,
			MinTagPopularity: 1,
		},
		Training: TrainingConfig{
			Timeout:  10 * time.Minute,
			Workers:  runtime.NumCPU(),
			MinUsers: 1,
		},
		Limits: LimitsConfig{
			DefaultK: 10,
			MaxK:     100,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Neighbors.TopK < 1 {
		return fmt.Errorf("neighbors.top_k must be positive, got %d", c.Neighbors.TopK)
	}
	if c.Neighbors.MinPopularity < 1 {
		return fmt.Errorf("neighbors.min_popularity must be positive, got %d", c.Neighbors.MinPopularity)
	}
	if c.Neighbors.MinTagPopularity < 1 {
		return fmt.Errorf("neighbors.min_tag_popularity must be positive, got %d", c.Neighbors.MinTagPopularity)
	}

	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.Workers < 1 {
		return fmt.Errorf("training.workers must be positive, got %d", c.Training.Workers)
	}
	if c.Training.MinUsers < 1 {
		return fmt.Errorf("training.min_users must be positive, got %d", c.Training.MinUsers)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when cache is enabled, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive when cache is enabled, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}
