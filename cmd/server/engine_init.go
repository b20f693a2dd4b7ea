// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/solvedrec/internal/config"
	"github.com/tomtom215/solvedrec/internal/dataset"
	"github.com/tomtom215/solvedrec/internal/recommend"
	"github.com/tomtom215/solvedrec/internal/recommend/storage"
	"github.com/tomtom215/solvedrec/internal/supervisor/services"
)

// EngineComponents holds the model handle and its persistence.
type EngineComponents struct {
	Handle   *recommend.Handle
	Store    storage.Store
	Trainer  *services.TrainerService
	Snapshot bool
}

// Close releases the handle and the snapshot store.
func (c *EngineComponents) Close() error {
	var firstErr error
	if err := c.Handle.Close(); err != nil {
		firstErr = err
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// initEngine creates the model handle, the snapshot store selected by
// SNAPSHOT_BACKEND and the trainer service that drives both.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(cfg *config.Config, logger zerolog.Logger) (*EngineComponents, error) {
	logger.Info().
		Str("dataset_kind", cfg.Dataset.Kind).
		Str("snapshot_backend", cfg.Snapshot.Backend).
		Int("neighbors", cfg.Recommend.Neighbors).
		Dur("train_interval", cfg.Recommend.TrainInterval).
		Bool("train_on_startup", cfg.Recommend.TrainOnStartup).
		Msg("initializing recommendation engine")

	handle, err := recommend.NewHandle(cfg.RecommendConfigFor(), logger)
	if err != nil {
		return nil, fmt.Errorf("create model handle: %w", err)
	}

	store, err := openSnapshotStore(cfg)
	if err != nil {
		_ = handle.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, err
	}

	comps := &EngineComponents{Handle: handle, Store: store}

	// A nil pruner tells the trainer there is nowhere to save snapshots.
	var pruner services.SnapshotPruner
	if store != nil {
		handle.SetSnapshotStore(store)
		pruner = store
		comps.Snapshot = true
	}

	source := cfg.DatasetSource()
	open := func(ctx context.Context) (dataset.Provider, error) {
		return dataset.Open(ctx, source)
	}

	comps.Trainer = services.NewTrainerService(handle, open, pruner, services.TrainerServiceConfig{
		TrainOnStartup:   cfg.Recommend.TrainOnStartup,
		RestoreOnStartup: store != nil,
		TrainInterval:    cfg.Recommend.TrainInterval,
		KeepSnapshots:    cfg.Snapshot.Keep,
	}, logger)

	return comps, nil
}

// openSnapshotStore returns nil for the none backend.
func openSnapshotStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Snapshot.Backend {
	case "file":
		store, err := storage.NewFileStore(cfg.Snapshot.Path)
		if err != nil {
			return nil, fmt.Errorf("open file snapshot store: %w", err)
		}
		return store, nil
	case "badger":
		store, err := storage.OpenBadgerStore(cfg.Snapshot.Path)
		if err != nil {
			return nil, fmt.Errorf("open badger snapshot store: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}
