// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/solvedrec/internal/cache"
	"github.com/tomtom215/solvedrec/internal/metrics"
	"github.com/tomtom215/solvedrec/internal/recommend/storage"
)

// invalidRequestMode labels errors for requests that name neither a handle
// nor a solved history.
const invalidRequestMode = "invalid"

// Handle owns the single serving model and its lifecycle.
//
// Training builds a complete new Model off to the side and publishes it with
// one atomic pointer swap, so queries never observe a half-built model and
// never block on a running retrain. It is safe for concurrent use.
type Handle struct {
	config *Config
	logger zerolog.Logger

	model atomic.Pointer[Model]

	// trainMu serializes training and snapshot restore.
	trainMu sync.Mutex

	statusMu    sync.RWMutex
	state       State
	lastError   string
	lastTrainMS int64

	version atomic.Int64
	closed  atomic.Bool

	requestCount  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	fallbackCount atomic.Int64
	trainingCount atomic.Int64
	errorCount    atomic.Int64

	cache *cache.LRU[*Response]

	snapshots storage.Store

	now func() time.Time
}

// NewHandle creates an untrained handle.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandle(cfg *Config, logger zerolog.Logger) (*Handle, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	h := &Handle{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		state:  StateUninitialized,
		now:    time.Now,
	}
	if cfg.Cache.Enabled {
		h.cache = cache.NewLRU[*Response](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return h, nil
}

// SetSnapshotStore sets the store used by SaveSnapshot and RestoreSnapshot.
// The version counter moves past the newest stored snapshot, readable or
// not, so models trained here never sort below what is already on disk.
func (h *Handle) SetSnapshotStore(store storage.Store) {
	h.snapshots = store
	if store == nil {
		return
	}
	if latest, ok := store.LatestVersion(SnapshotName); ok {
		h.advanceVersion(latest)
	}
}

// Config returns a copy of the handle configuration.
func (h *Handle) Config() *Config {
	return h.config.Clone()
}

// Model returns the serving model, or nil before the first publish.
func (h *Handle) Model() *Model {
	return h.model.Load()
}

// Ready reports whether a model is published and the handle is open.
func (h *Handle) Ready() bool {
	return !h.closed.Load() && h.model.Load() != nil
}

// Train loads the dataset, computes the similarity table and publishes the
// result. Returns ErrTrainingInProgress immediately if another training run
// holds the handle. On any failure the previously published model keeps
// serving.
func (h *Handle) Train(ctx context.Context, provider DatasetProvider) error {
	if h.closed.Load() {
		return ErrHandleClosed
	}
	if !h.trainMu.TryLock() {
		metrics.RecordTrainingSkipped()
		return ErrTrainingInProgress
	}
	defer h.trainMu.Unlock()

	start := h.now()
	previous := h.beginTraining()
	h.logger.Info().Msg("starting model training")

	model, err := h.buildModel(ctx, provider, start)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		h.errorCount.Add(1)
		h.finishTraining(previous, duration, err)
		metrics.RecordTraining(time.Since(start), trainingErrorType(err))
		h.logger.Error().Err(err).Int64("duration_ms", duration).Msg("model training failed")
		return err
	}

	h.publish(model)
	h.trainingCount.Add(1)
	h.finishTraining(StateTrained, duration, nil)
	metrics.RecordTraining(time.Since(start), "")

	h.logger.Info().
		Int("version", model.version).
		Int("users", model.store.UserCount()).
		Int("problems", model.store.ProblemCount()).
		Int("entries", model.store.EntryCount()).
		Int64("duration_ms", duration).
		Msg("model training complete")

	return nil
}

// TrainEntries trains from in-memory entries.
func (h *Handle) TrainEntries(ctx context.Context, entries []RatingEntry) error {
	return h.Train(ctx, StaticDataset(entries))
}

// buildModel runs one full training cycle under the configured timeout.
func (h *Handle) buildModel(ctx context.Context, provider DatasetProvider, start time.Time) (*Model, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: no dataset provider", ErrData)
	}

	trainCtx, cancel := context.WithTimeout(ctx, h.config.Training.Timeout)
	defer cancel()

	entries, err := provider.Ratings(trainCtx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	store, err := LoadRatings(entries)
	if err != nil {
		return nil, err
	}
	if store.UserCount() < h.config.Training.MinUsers {
		return nil, fmt.Errorf("%w: insufficient users: %d < %d", ErrData, store.UserCount(), h.config.Training.MinUsers)
	}

	h.logger.Info().
		Int("entries", len(entries)).
		Int("users", store.UserCount()).
		Int("problems", store.ProblemCount()).
		Msg("loaded training data")

	table, err := TrainPairwise(trainCtx, store, h.config.Training.Workers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("training timed out after %v: %w", h.config.Training.Timeout, err)
		}
		return nil, fmt.Errorf("compute similarity: %w", err)
	}

	return NewModel(store, table, int(h.version.Add(1)), start), nil
}

// publish swaps in a new model. Cached responses are keyed by model version,
// so clearing is only to release memory.
func (h *Handle) publish(m *Model) {
	h.model.Store(m)
	if h.cache != nil {
		h.cache.Clear()
	}
	metrics.UpdateModelGauges(m.store.UserCount(), m.store.ProblemCount(), m.version, m.trainedAt)
}

// trainingErrorType labels a training failure for metrics.
func trainingErrorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrData):
		return "data"
	default:
		return "internal"
	}
}

// beginTraining records the transition into a training state and returns the
// state to restore on failure.
func (h *Handle) beginTraining() State {
	h.statusMu.Lock()
	defer h.statusMu.Unlock()

	if h.model.Load() != nil {
		h.state = StateRetraining
		return StateTrained
	}
	h.state = StateTraining
	return StateUninitialized
}

func (h *Handle) finishTraining(next State, durationMS int64, err error) {
	h.statusMu.Lock()
	defer h.statusMu.Unlock()

	if h.state != StateClosed {
		h.state = next
	}
	h.lastTrainMS = durationMS
	if err != nil {
		h.lastError = err.Error()
	} else {
		h.lastError = ""
	}
}

// Recommend serves a recommendation request against the published model.
//
// A Handle present in the model takes the existing-user path. A Handle absent
// from the model fails with ErrUnknownUser unless Solved is provided, in
// which case the cold-start path runs. Returns ErrUntrainedModel before the
// first model is published.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (h *Handle) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	h.requestCount.Add(1)

	if h.closed.Load() {
		return nil, ErrHandleClosed
	}

	m := h.model.Load()
	if m == nil {
		h.errorCount.Add(1)
		return nil, ErrUntrainedModel
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req = h.prepareRequest(req)
	logger := h.logger.With().
		Str("request_id", req.RequestID).
		Str("handle", req.Handle).
		Int("n", req.N).
		Str("tag", req.Tag).
		Logger()

	known := req.Handle != "" && m.store.Has(req.Handle)
	if !known && req.Solved == nil {
		h.errorCount.Add(1)
		if req.Handle != "" {
			metrics.RecordRecommendationError(ModeExistingUser.String())
			return nil, fmt.Errorf("%w: %q", ErrUnknownUser, req.Handle)
		}
		metrics.RecordRecommendationError(invalidRequestMode)
		return nil, ErrInvalidRequest
	}

	key := ""
	if known && h.cache != nil {
		key = cacheKey(m.version, req)
		if cached, ok := h.cache.Get(key); ok {
			h.cacheHits.Add(1)
			resp := copyResponse(cached)
			resp.Metadata.RequestID = req.RequestID
			resp.Metadata.CacheHit = true
			resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
			metrics.RecordRecommendation(resp.Metadata.Mode, string(resp.Source), time.Since(start), true)
			logger.Debug().Msg("cache hit")
			return resp, nil
		}
		h.cacheMisses.Add(1)
	}

	var (
		rec  *recommendation
		mode Mode
	)
	if known {
		mode = ModeExistingUser
		if req.Tag != "" {
			mode = ModeExistingUserByTag
		}
		var err error
		rec, err = m.existingUser(req.Handle, req.Tag, req.N, h.config.Neighbors)
		if err != nil {
			h.errorCount.Add(1)
			metrics.RecordRecommendationError(mode.String())
			return nil, err
		}
	} else {
		mode = ModeNewUser
		if req.Tag != "" {
			mode = ModeNewUserByTag
		}
		rec = m.newUser(req.Solved, req.Tag, req.N, h.config.Neighbors)
	}

	if rec.source == SourcePopularity {
		h.fallbackCount.Add(1)
	}

	resp := &Response{
		Items:  rec.items,
		Source: rec.source,
		Metadata: ResponseMetadata{
			RequestID:    req.RequestID,
			Mode:         mode.String(),
			Neighbors:    rec.neighbors,
			LatencyMS:    time.Since(start).Milliseconds(),
			ModelVersion: m.version,
			TrainedAt:    m.trainedAt,
		},
	}
	if req.Tag != "" {
		resp.Metadata.Tag = NormalizeTag(req.Tag)
	}

	if key != "" {
		h.cache.Add(key, copyResponse(resp))
	}
	metrics.RecordRecommendation(resp.Metadata.Mode, string(resp.Source), time.Since(start), false)

	logger.Debug().
		Str("mode", resp.Metadata.Mode).
		Str("source", string(resp.Source)).
		Int("neighbors", rec.neighbors).
		Int("returned", len(resp.Items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (h *Handle) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.N <= 0 {
		req.N = h.config.Limits.DefaultK
	}
	if req.N > h.config.Limits.MaxK {
		req.N = h.config.Limits.MaxK
	}
	return req
}

// cacheKey embeds the model version so a new model never serves stale entries.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func cacheKey(version int, req Request) string {
	return fmt.Sprintf("v%d:%s:%d:%s", version, req.Handle, req.N, NormalizeTag(req.Tag))
}

func copyResponse(resp *Response) *Response {
	items := make([]ScoredProblem, len(resp.Items))
	copy(items, resp.Items)
	return &Response{
		Items:    items,
		Source:   resp.Source,
		Metadata: resp.Metadata,
	}
}

// Stats summarizes a user's solve history in the serving model.
func (h *Handle) Stats(handle string) (*UserStats, error) {
	if h.closed.Load() {
		return nil, ErrHandleClosed
	}
	m := h.model.Load()
	if m == nil {
		return nil, ErrUntrainedModel
	}
	stats, ok := m.store.Stats(handle)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUser, handle)
	}
	return stats, nil
}

// SaveSnapshot persists the serving model to the configured snapshot store.
func (h *Handle) SaveSnapshot(ctx context.Context) (*storage.Metadata, error) {
	m := h.model.Load()
	if m == nil {
		return nil, ErrUntrainedModel
	}
	if h.snapshots == nil {
		return nil, fmt.Errorf("%w: no snapshot store configured", ErrPersistence)
	}

	h.statusMu.RLock()
	durationMS := h.lastTrainMS
	h.statusMu.RUnlock()

	meta, err := h.snapshots.Save(ctx, SnapshotName, m.version, m.ToSnapshot(), m.snapshotMetadata(durationMS))
	if err != nil {
		metrics.RecordSnapshot("save", 0, err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.RecordSnapshot("save", meta.SizeBytes, nil)

	h.logger.Info().
		Int("version", meta.Version).
		Int64("size_bytes", meta.SizeBytes).
		Msg("model snapshot saved")
	return meta, nil
}

// RestoreSnapshot loads a snapshot from the configured store and publishes
// it. Version 0 restores the latest snapshot. The published model is only
// replaced when the snapshot loads completely.
func (h *Handle) RestoreSnapshot(ctx context.Context, version int) (*storage.Metadata, error) {
	if h.closed.Load() {
		return nil, ErrHandleClosed
	}
	if h.snapshots == nil {
		return nil, fmt.Errorf("%w: no snapshot store configured", ErrPersistence)
	}
	if !h.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer h.trainMu.Unlock()

	state, meta, err := h.snapshots.Load(ctx, SnapshotName, version)
	if err != nil {
		metrics.RecordSnapshot("load", 0, err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	m, err := ModelFromSnapshot(state, meta)
	if err != nil {
		metrics.RecordSnapshot("load", 0, err)
		return nil, err
	}
	metrics.RecordSnapshot("load", meta.SizeBytes, nil)

	h.install(m)
	h.logger.Info().
		Int("version", m.version).
		Int("users", m.store.UserCount()).
		Time("trained_at", m.trainedAt).
		Msg("model snapshot restored")
	return meta, nil
}

// LoadFile publishes a model read from an explicit snapshot path.
func (h *Handle) LoadFile(path string) error {
	if h.closed.Load() {
		return ErrHandleClosed
	}
	if !h.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer h.trainMu.Unlock()

	m, err := LoadModel(path)
	if err != nil {
		return err
	}
	h.install(m)
	return nil
}

// install publishes a restored model and advances the version counter past it.
// Must be called with trainMu held.
func (h *Handle) install(m *Model) {
	h.advanceVersion(m.version)
	h.publish(m)

	h.statusMu.Lock()
	if h.state != StateClosed {
		h.state = StateTrained
	}
	h.lastError = ""
	h.statusMu.Unlock()
}

// advanceVersion raises the version counter to at least v.
func (h *Handle) advanceVersion(v int) {
	for {
		current := h.version.Load()
		if int64(v) <= current || h.version.CompareAndSwap(current, int64(v)) {
			return
		}
	}
}

// Status returns the current training status.
func (h *Handle) Status() TrainingStatus {
	h.statusMu.RLock()
	status := TrainingStatus{
		State:                  h.state.String(),
		IsTraining:             h.state == StateTraining || h.state == StateRetraining,
		LastTrainingDurationMS: h.lastTrainMS,
		LastError:              h.lastError,
	}
	h.statusMu.RUnlock()

	if m := h.model.Load(); m != nil {
		status.LastTrainedAt = m.trainedAt
		status.EntryCount = m.store.EntryCount()
		status.UserCount = m.store.UserCount()
		status.ProblemCount = m.store.ProblemCount()
		status.ModelVersion = m.version
	}
	return status
}

// Metrics returns the current handle counters.
func (h *Handle) Metrics() Metrics {
	return Metrics{
		RequestCount:  h.requestCount.Load(),
		CacheHits:     h.cacheHits.Load(),
		CacheMisses:   h.cacheMisses.Load(),
		FallbackCount: h.fallbackCount.Load(),
		TrainingCount: h.trainingCount.Load(),
		ErrorCount:    h.errorCount.Load(),
	}
}

// Close tears the handle down. Subsequent operations fail with ErrHandleClosed.
// Close does not close the snapshot store.
func (h *Handle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}

	h.statusMu.Lock()
	h.state = StateClosed
	h.statusMu.Unlock()

	h.model.Store(nil)
	if h.cache != nil {
		h.cache.Clear()
	}
	h.logger.Info().Msg("model handle closed")
	return nil
}
