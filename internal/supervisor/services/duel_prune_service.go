// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DuelPruner drops matches created before a cutoff.
type DuelPruner interface {
	Prune(cutoff time.Time) int
}

// DuelPruneService periodically removes stale duel matches.
type DuelPruneService struct {
	pruner    DuelPruner
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    zerolog.Logger
	name      string
}

// NewDuelPruneService creates a pruning service. Matches older than
// retention are removed every interval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDuelPruneService(pruner DuelPruner, retention, interval time.Duration, logger zerolog.Logger) *DuelPruneService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &DuelPruneService{
		pruner:    pruner,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		logger:    logger.With().Str("service", "duel-pruner").Logger(),
		name:      "duel-prune-service",
	}
}

// Serve implements suture.Service.
func (s *DuelPruneService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.pruneOnce()
		}
	}
}

func (s *DuelPruneService) pruneOnce() int {
	removed := s.pruner.Prune(s.now().Add(-s.retention))
	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("pruned stale duels")
	}
	return removed
}

// String returns the service name for logging.
func (s *DuelPruneService) String() string {
	return s.name
}
