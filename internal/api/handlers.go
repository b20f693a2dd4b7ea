// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package api

import (
	"context"
	"time"

	"github.com/tomtom215/solvedrec/internal/duel"
	"github.com/tomtom215/solvedrec/internal/recommend"
	"github.com/tomtom215/solvedrec/internal/recommend/storage"
)

// Recommender is the part of recommend.Handle served over HTTP.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Stats(handle string) (*recommend.UserStats, error)
	Status() recommend.TrainingStatus
	Metrics() recommend.Metrics
	Ready() bool
	SaveSnapshot(ctx context.Context) (*storage.Metadata, error)
}

// TrainTrigger queues an asynchronous training run.
type TrainTrigger interface {
	Trigger() bool
}

// DuelManager is the part of duel.Manager served over HTTP.
type DuelManager interface {
	Open(user string, problemID int) (duel.Match, error)
	Get(id string) (duel.Match, error)
	Find(user string) []duel.Match
	FinishMatch(id, user string) (duel.Match, error)
}

// HandlerConfig holds request handling limits.
type HandlerConfig struct {
	// RequestTimeout bounds each recommendation or snapshot call.
	RequestTimeout time.Duration

	// MaxBodyBytes bounds JSON request bodies.
	MaxBodyBytes int64
}

// DefaultHandlerConfig returns the default request limits.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		RequestTimeout: 10 * time.Second,
		MaxBodyBytes:   1 << 20,
	}
}

// Handler serves the recommendation, model and duel endpoints.
type Handler struct {
	rec       Recommender
	trainer   TrainTrigger
	duels     DuelManager
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a handler. trainer and duels may be nil, in which case
// their endpoints answer 503.
func NewHandler(rec Recommender, trainer TrainTrigger, duels DuelManager, cfg HandlerConfig) *Handler {
	defaults := DefaultHandlerConfig()
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	return &Handler{
		rec:       rec,
		trainer:   trainer,
		duels:     duels,
		config:    cfg,
		startTime: time.Now(),
	}
}
