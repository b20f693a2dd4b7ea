// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

/*
Package config provides layered configuration for the recommendation server
and the crawler.

# Loading Order

Configuration is loaded with Koanf v2 from three layers, later layers
overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, config.yaml, config.yml,
    /etc/solvedrec/config.yaml, /etc/solvedrec/config.yml
 3. Environment variables, mapped explicitly by envTransformFunc

Unmapped environment variables are ignored.

# Validation

Validate runs the go-playground/validator tags on every section through the
shared validation singleton, then checks rules that span fields (default
result size against the cap, dataset kind against its path, the crawler base
URL shape).

# Example YAML

	server:
	  port: 8080
	recommend:
	  neighbors: 10
	  train_interval: 12h
	dataset:
	  kind: duckdb
	  path: /data/ratings.duckdb
	  import_csv: /data/dataset.csv
	snapshot:
	  backend: badger
	  path: /data/snapshots

# Environment Variables

	HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT, ENVIRONMENT
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
	RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS
	RECOMMEND_NEIGHBORS, RECOMMEND_TRAIN_TIMEOUT, RECOMMEND_TRAIN_INTERVAL, ...
	DATASET_KIND, DATASET_PATH, DATASET_TABLE, DATASET_IMPORT_CSV, DATASET_SEED
	SNAPSHOT_BACKEND, SNAPSHOT_PATH, SNAPSHOT_KEEP
	SOLVEDAC_BASE_URL, CRAWLER_REQUESTS_PER_SECOND, CRAWLER_CONCURRENCY, ...
*/
package config
