// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("neighbor defaults match the reference recommender", func(t *testing.T) {
		if cfg.Neighbors.TopK != 10 {
			t.Errorf("Neighbors.TopK = %d, want 10", cfg.Neighbors.TopK)
		}
		if cfg.Neighbors.MinPopularity != 2 {
			t.Errorf("Neighbors.MinPopularity = %d, want 2", cfg.Neighbors.MinPopularity)
		}
		if cfg.Neighbors.MinTagPopularity != 1 {
			t.Errorf("Neighbors.MinTagPopularity = %d, want 1", cfg.Neighbors.MinTagPopularity)
		}
	})

	t.Run("training config has valid defaults", func(t *testing.T) {
		if cfg.Training.Timeout <= 0 {
			t.Errorf("Training.Timeout = %v, want > 0", cfg.Training.Timeout)
		}
		if cfg.Training.Workers < 1 {
			t.Errorf("Training.Workers = %d, want >= 1", cfg.Training.Workers)
		}
	})

	t.Run("limits config has valid defaults", func(t *testing.T) {
		if cfg.Limits.DefaultK <= 0 {
			t.Errorf("Limits.DefaultK = %d, want > 0", cfg.Limits.DefaultK)
		}
		if cfg.Limits.MaxK < cfg.Limits.DefaultK {
			t.Errorf("Limits.MaxK = %d, want >= DefaultK (%d)", cfg.Limits.MaxK, cfg.Limits.DefaultK)
		}
	})

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{name: "zero top k", modify: func(c *Config) { c.Neighbors.TopK = 0 }, wantError: true},
		{name: "zero min popularity", modify: func(c *Config) { c.Neighbors.MinPopularity = 0 }, wantError: true},
		{name: "zero min tag popularity", modify: func(c *Config) { c.Neighbors.MinTagPopularity = 0 }, wantError: true},
		{name: "zero timeout", modify: func(c *Config) { c.Training.Timeout = 0 }, wantError: true},
		{name: "zero workers", modify: func(c *Config) { c.Training.Workers = 0 }, wantError: true},
		{name: "zero min users", modify: func(c *Config) { c.Training.MinUsers = 0 }, wantError: true},
		{name: "zero default k", modify: func(c *Config) { c.Limits.DefaultK = 0 }, wantError: true},
		{name: "max k below default k", modify: func(c *Config) { c.Limits.MaxK = 5; c.Limits.DefaultK = 10 }, wantError: true},
		{name: "enabled cache without ttl", modify: func(c *Config) { c.Cache.TTL = 0 }, wantError: true},
		{name: "disabled cache ignores ttl", modify: func(c *Config) { c.Cache.Enabled = false; c.Cache.TTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()

	clone.Neighbors.TopK = 99
	clone.Training.Timeout = time.Second

	if cfg.Neighbors.TopK == 99 {
		t.Error("modifying clone changed original Neighbors.TopK")
	}
	if cfg.Training.Timeout == time.Second {
		t.Error("modifying clone changed original Training.Timeout")
	}
}
