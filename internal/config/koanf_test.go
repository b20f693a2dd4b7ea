// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate runs the test in an empty directory with no config file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	return dir
}

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Recommend.Neighbors != 10 {
		t.Errorf("Recommend.Neighbors = %d, want 10", cfg.Recommend.Neighbors)
	}
	if cfg.Recommend.TrainInterval != 24*time.Hour {
		t.Errorf("Recommend.TrainInterval = %v, want 24h", cfg.Recommend.TrainInterval)
	}
	if cfg.Dataset.Kind != "csv" || cfg.Snapshot.Backend != "file" {
		t.Errorf("Dataset.Kind = %q, Snapshot.Backend = %q", cfg.Dataset.Kind, cfg.Snapshot.Backend)
	}
	if cfg.Crawler.BaseURL != "https://solved.ac" {
		t.Errorf("Crawler.BaseURL = %q", cfg.Crawler.BaseURL)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"RECOMMEND_NEIGHBORS", "recommend.neighbors"},
		{"DATASET_KIND", "dataset.kind"},
		{"SNAPSHOT_BACKEND", "snapshot.backend"},
		{"SOLVEDAC_BASE_URL", "crawler.base_url"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: {}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	custom := writeConfigFile(t, dir, "server: {}")
	t.Setenv(ConfigPathEnvVar, custom)
	if got := findConfigFile(); got != custom {
		t.Errorf("findConfigFile() = %q, want %q", got, custom)
	}

	t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("missing CONFIG_PATH should fall back to defaults, got %q", got)
	}
}

func TestLoadWithKoanf_EnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_NEIGHBORS", "25")
	t.Setenv("RECOMMEND_TRAIN_INTERVAL", "6h")
	t.Setenv("DATASET_KIND", "synthetic")
	t.Setenv("DATASET_SEED", "42")
	t.Setenv("CRAWLER_BREAKER_FAILURE_RATIO", "0.75")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.Neighbors != 25 {
		t.Errorf("Recommend.Neighbors = %d, want 25", cfg.Recommend.Neighbors)
	}
	if cfg.Recommend.TrainInterval != 6*time.Hour {
		t.Errorf("Recommend.TrainInterval = %v, want 6h", cfg.Recommend.TrainInterval)
	}
	if cfg.Dataset.Kind != "synthetic" || cfg.Dataset.Seed != 42 {
		t.Errorf("Dataset = %+v", cfg.Dataset)
	}
	if cfg.Crawler.BreakerFailureRatio != 0.75 {
		t.Errorf("Crawler.BreakerFailureRatio = %v, want 0.75", cfg.Crawler.BreakerFailureRatio)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}

	// Unset values keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := writeConfigFile(t, dir, `
server:
  port: 8888
recommend:
  neighbors: 5
  cache_enabled: false
dataset:
  kind: duckdb
  path: /data/ratings.duckdb
  import_csv: /data/dataset.csv
snapshot:
  backend: badger
  path: /data/badger
logging:
  level: warn
`)
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", cfg.Server.Port)
	}
	if cfg.Recommend.Neighbors != 5 || cfg.Recommend.CacheEnabled {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Dataset.Kind != "duckdb" || cfg.Dataset.ImportCSV != "/data/dataset.csv" {
		t.Errorf("Dataset = %+v", cfg.Dataset)
	}
	if cfg.Snapshot.Backend != "badger" {
		t.Errorf("Snapshot.Backend = %q", cfg.Snapshot.Backend)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Dataset.Table != "ratings" {
		t.Errorf("Dataset.Table = %q, want default", cfg.Dataset.Table)
	}
}

func TestLoadWithKoanf_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := writeConfigFile(t, dir, "server:\n  port: 8888\nlogging:\n  level: warn\n")
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7000")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want env value 7000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want file value warn", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad port", map[string]string{"HTTP_PORT": "70000"}, "Port"},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "Level"},
		{"bad dataset kind", map[string]string{"DATASET_KIND": "parquet"}, "Kind"},
		{"bad snapshot backend", map[string]string{"SNAPSHOT_BACKEND": "s3"}, "Backend"},
		{"zero neighbors", map[string]string{"RECOMMEND_NEIGHBORS": "0"}, "Neighbors"},
		{"default above max", map[string]string{"RECOMMEND_DEFAULT_N": "50", "RECOMMEND_MAX_N": "20"}, "RECOMMEND_DEFAULT_N"},
		{"breaker ratio above one", map[string]string{"CRAWLER_BREAKER_FAILURE_RATIO": "1.5"}, "BreakerFailureRatio"},
		{"base url with path", map[string]string{"SOLVEDAC_BASE_URL": "https://solved.ac/api"}, "SOLVEDAC_BASE_URL"},
		{"rate limit window too long", map[string]string{"RATE_LIMIT_WINDOW": "2h"}, "RATE_LIMIT_WINDOW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Conversions(t *testing.T) {
	cfg := defaultConfig()
	cfg.Recommend.Neighbors = 7
	cfg.Recommend.Workers = 3
	cfg.Crawler.MaxRetries = 2
	cfg.Dataset.Kind = "synthetic"

	rc := cfg.RecommendConfigFor()
	if err := rc.Validate(); err != nil {
		t.Fatalf("RecommendConfigFor().Validate() = %v", err)
	}
	if rc.Neighbors.TopK != 7 || rc.Training.Workers != 3 {
		t.Errorf("recommend config = %+v", rc)
	}

	cfg.Recommend.Workers = 0
	if cfg.RecommendConfigFor().Training.Workers < 1 {
		t.Error("zero workers should fall back to NumCPU")
	}

	if cc := cfg.CrawlerClientConfig(); cc.MaxRetries != 2 || cc.BaseURL != "https://solved.ac" {
		t.Errorf("crawler config = %+v", cc)
	}
	if src := cfg.DatasetSource(); src.Kind != "synthetic" || src.Table != "ratings" {
		t.Errorf("dataset source = %+v", src)
	}
	if lc := cfg.LoggingConfigFor(); lc.Level != "info" || lc.Format != "json" {
		t.Errorf("logging config = %+v", lc)
	}
	if tc := cfg.TreeConfig(); tc.FailureThreshold != 5 {
		t.Errorf("tree config = %+v", tc)
	}
	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", addr)
	}
	if cfg.Server.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestValidateBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://solved.ac", false},
		{"http://localhost:8080/", false},
		{"ftp://solved.ac", true},
		{"https://", true},
		{"https://solved.ac/api/v3", true},
		{"https://solved.ac?x=1", true},
	}
	for _, tt := range tests {
		if err := validateBaseURL(tt.url); (err != nil) != tt.wantErr {
			t.Errorf("validateBaseURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
