// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/tomtom215/solvedrec/internal/validation"
)

const (
	maxRateLimitWindow = time.Hour
	minCacheTTL        = time.Second
)

// Validate checks that required configuration is present and valid.
// Field-level rules come from validate struct tags; rules spanning several
// fields are checked afterwards.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateSnapshot(); err != nil {
		return err
	}
	return c.validateCrawler()
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at most %v", maxRateLimitWindow)
	}
	return nil
}

// validateRecommend validates recommendation engine configuration
func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultN > c.Recommend.MaxN {
		return fmt.Errorf("RECOMMEND_DEFAULT_N (%d) must not exceed RECOMMEND_MAX_N (%d)",
			c.Recommend.DefaultN, c.Recommend.MaxN)
	}
	if c.Recommend.CacheEnabled {
		if c.Recommend.CacheTTL < minCacheTTL {
			return fmt.Errorf("RECOMMEND_CACHE_TTL must be at least %v when caching is enabled", minCacheTTL)
		}
		if c.Recommend.CacheMaxEntries < 1 {
			return fmt.Errorf("RECOMMEND_CACHE_MAX_ENTRIES must be positive when caching is enabled")
		}
	}
	return nil
}

// validateDataset validates dataset source configuration
func (c *Config) validateDataset() error {
	switch c.Dataset.Kind {
	case "csv":
		if c.Dataset.Path == "" {
			return fmt.Errorf("DATASET_PATH is required when DATASET_KIND=csv")
		}
	case "duckdb":
		if c.Dataset.Table == "" {
			return fmt.Errorf("DATASET_TABLE is required when DATASET_KIND=duckdb")
		}
	}
	return nil
}

// validateSnapshot validates snapshot persistence configuration
func (c *Config) validateSnapshot() error {
	if c.Snapshot.Backend != "none" && c.Snapshot.Path == "" {
		return fmt.Errorf("SNAPSHOT_PATH is required when SNAPSHOT_BACKEND=%s", c.Snapshot.Backend)
	}
	return nil
}

// validateCrawler validates solved.ac client configuration
func (c *Config) validateCrawler() error {
	if err := validateBaseURL(c.Crawler.BaseURL); err != nil {
		return fmt.Errorf("SOLVEDAC_BASE_URL is invalid: %w", err)
	}
	return nil
}

// validateBaseURL accepts an http(s) origin. The client appends /api/v3
// paths itself, so a path or query here would produce broken requests.
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	case u.Host == "":
		return fmt.Errorf("host is required")
	case u.Path != "" && u.Path != "/":
		return fmt.Errorf("path %q is not allowed, use the origin only", u.Path)
	case u.RawQuery != "":
		return fmt.Errorf("query %q is not allowed", u.RawQuery)
	}
	return nil
}
