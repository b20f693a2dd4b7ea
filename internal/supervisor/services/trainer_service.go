// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/solvedrec/internal/dataset"
	"github.com/tomtom215/solvedrec/internal/recommend"
	"github.com/tomtom215/solvedrec/internal/recommend/storage"
)

// Trainer is the part of recommend.Handle the trainer service drives.
type Trainer interface {
	Train(ctx context.Context, provider recommend.DatasetProvider) error
	SaveSnapshot(ctx context.Context) (*storage.Metadata, error)
	RestoreSnapshot(ctx context.Context, version int) (*storage.Metadata, error)
	Ready() bool
}

// SnapshotPruner removes old snapshot versions.
type SnapshotPruner interface {
	Prune(ctx context.Context, name string, keep int) error
}

// DatasetOpener opens a fresh dataset provider for one training run.
type DatasetOpener func(ctx context.Context) (dataset.Provider, error)

// TrainerServiceConfig holds configuration for the trainer service.
type TrainerServiceConfig struct {
	// TrainOnStartup trains when no snapshot could be restored.
	TrainOnStartup bool

	// RestoreOnStartup loads the latest snapshot before anything else.
	RestoreOnStartup bool

	// TrainInterval is how often to retrain. Zero disables periodic retraining.
	TrainInterval time.Duration

	// KeepSnapshots is the number of snapshot versions kept after each save.
	// Zero keeps everything.
	KeepSnapshots int
}

// TrainerService owns the model lifecycle under supervision: snapshot
// restore at startup, periodic and on-demand retraining, and snapshot
// rotation after each successful run. A failed run is logged and the
// previously published model keeps serving.
type TrainerService struct {
	trainer Trainer
	open    DatasetOpener
	pruner  SnapshotPruner
	config  TrainerServiceConfig
	trigger chan struct{}
	logger  zerolog.Logger
	name    string
}

// NewTrainerService creates a trainer service. A nil pruner disables
// snapshot saving, for deployments without a snapshot backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainerService(trainer Trainer, open DatasetOpener, pruner SnapshotPruner, cfg TrainerServiceConfig, logger zerolog.Logger) *TrainerService {
	return &TrainerService{
		trainer: trainer,
		open:    open,
		pruner:  pruner,
		config:  cfg,
		trigger: make(chan struct{}, 1),
		logger:  logger.With().Str("service", "trainer").Logger(),
		name:    "trainer-service",
	}
}

// Trigger requests a training run. Returns false when a request is already
// queued.
func (s *TrainerService) Trigger() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Serve implements suture.Service.
func (s *TrainerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Bool("restore_on_startup", s.config.RestoreOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("trainer service starting")

	s.startup(ctx)

	var tick <-chan time.Time
	if s.config.TrainInterval > 0 {
		ticker := time.NewTicker(s.config.TrainInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("trainer service shutting down")
			return ctx.Err()

		case <-tick:
			s.logger.Debug().Msg("scheduled training triggered")
			s.runOnce(ctx)

		case <-s.trigger:
			s.logger.Info().Msg("on-demand training triggered")
			s.runOnce(ctx)
		}
	}
}

// startup restores the latest snapshot and falls back to training.
// Skipped when a model is already serving, e.g. after a supervisor restart.
func (s *TrainerService) startup(ctx context.Context) {
	if s.trainer.Ready() {
		return
	}

	if s.config.RestoreOnStartup {
		meta, err := s.trainer.RestoreSnapshot(ctx, 0)
		if err == nil {
			s.logger.Info().Int("version", meta.Version).Msg("restored model from snapshot")
			return
		}
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info().Msg("no model snapshot found")
		} else {
			s.logger.Warn().Err(err).Msg("snapshot restore failed")
		}
	}

	if s.config.TrainOnStartup {
		s.runOnce(ctx)
	}
}

// runOnce performs a training cycle, then saves and rotates snapshots.
func (s *TrainerService) runOnce(ctx context.Context) {
	if err := s.train(ctx); err != nil {
		if errors.Is(err, recommend.ErrTrainingInProgress) {
			s.logger.Debug().Msg("training already in progress, skipping")
			return
		}
		s.logger.Warn().Err(err).Msg("training failed, keeping previous model")
		return
	}
	s.persist(ctx)
}

func (s *TrainerService) train(ctx context.Context) error {
	provider, err := s.open(ctx)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer func() {
		if cerr := provider.Close(); cerr != nil {
			s.logger.Warn().Err(cerr).Msg("failed to close dataset")
		}
	}()

	return s.trainer.Train(ctx, provider)
}

func (s *TrainerService) persist(ctx context.Context) {
	if s.pruner == nil {
		return
	}

	meta, err := s.trainer.SaveSnapshot(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to save model snapshot")
		return
	}

	if s.config.KeepSnapshots > 0 {
		if err := s.pruner.Prune(ctx, recommend.SnapshotName, s.config.KeepSnapshots); err != nil {
			s.logger.Warn().Err(err).Msg("failed to prune model snapshots")
			return
		}
	}
	s.logger.Debug().Int("version", meta.Version).Msg("model snapshot rotated")
}

// String returns the service name for logging.
func (s *TrainerService) String() string {
	return s.name
}
