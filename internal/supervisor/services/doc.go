// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

/*
Package services provides suture.Service wrappers for Solvedrec components.

Each wrapper implements suture.Service (Serve(ctx) error) and fmt.Stringer,
returns ctx.Err() on shutdown and logs through zerolog.

# Available Services

TrainerService:
  - Restores the latest model snapshot at startup, trains when none loads
  - Retrains every TrainInterval and on Trigger (POST /api/v1/model/train)
  - Saves a snapshot after each successful run and prunes old versions
  - A failed run keeps the previous model serving

HTTPServerService:
  - Wraps *http.Server, calling Shutdown with a timeout on cancellation

DuelPruneService:
  - Drops finished duel matches older than the retention window

# Usage Example

	trainer := services.NewTrainerService(handle, openDataset, snapshotStore,
	    services.TrainerServiceConfig{
	        RestoreOnStartup: true,
	        TrainOnStartup:   true,
	        TrainInterval:    24 * time.Hour,
	        KeepSnapshots:    3,
	    }, logger)
	tree.AddDataService(trainer)
*/
package services
