// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

/*
Package main is the entry point for the Solvedrec server.

Solvedrec recommends solved.ac problems with user-based collaborative
filtering: a user's nearest neighbors by cosine similarity over solve
difficulty vote their unsolved problems up, and a popularity ranking fills
in when no neighbor has anything to offer.

# Application Architecture

Every long-running component runs under a Suture v4 supervisor tree:

	RootSupervisor ("solvedrec")
	├── DataSupervisor ("data-layer")
	│   └── Trainer (snapshot restore, periodic and on-demand training)
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Duel pruner
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON or console output
 3. Model handle: recommendation engine and response cache
 4. Snapshot store: file or BadgerDB backend (optional)
 5. Duel manager
 6. Supervisor tree and services
 7. HTTP Server: chi router with the middleware stack

# Configuration

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	DATASET_KIND=csv             # csv, duckdb or synthetic
	DATASET_PATH=/data/dataset.csv
	SNAPSHOT_BACKEND=file        # none, file or badger
	SNAPSHOT_PATH=/data/snapshots
	RECOMMEND_TRAIN_INTERVAL=24h # 0 disables periodic retraining

When CONFIG_PATH names a file, changes to it are watched and the log level
is reloaded without a restart.

# Example Usage

Serve a synthetic dataset without persistence:

	SNAPSHOT_BACKEND=none ./solvedrec -demo

Serve a previously saved model file while the first training run is pending:

	./solvedrec -model /data/snapshots/model_v7.gob.gz

Serve a crawled dataset from DuckDB with BadgerDB snapshots:

	DATASET_KIND=duckdb \
	DATASET_PATH=/data/ratings.duckdb \
	DATASET_IMPORT_CSV=/data/dataset.csv \
	SNAPSHOT_BACKEND=badger \
	SNAPSHOT_PATH=/data/snapshots \
	./solvedrec

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, the trainer abandons any run in progress and keeps no
partial model, and the snapshot store is closed last.
*/
package main
