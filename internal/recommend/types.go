// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import (
	"context"
	"time"
)

// RatingEntry is a single solve record: a user solved a problem of a given difficulty.
type RatingEntry struct {
	// Handle is the solver's solved.ac handle.
	Handle string `json:"handle"`

	// ProblemID is the judge problem number (e.g. 1000).
	ProblemID int `json:"problem_id"`

	// Difficulty is the solved.ac level of the problem (0 = unrated, 1-30).
	Difficulty int `json:"difficulty"`
}

// UserVector maps problem ID to difficulty for one user.
// Vectors owned by a RatingStore are never mutated after training.
type UserVector map[int]int

// Clone returns an independent copy of the vector.
func (v UserVector) Clone() UserVector {
	out := make(UserVector, len(v))
	for p, d := range v {
		out[p] = d
	}
	return out
}

// ScoredProblem is a recommended problem with its estimated score.
type ScoredProblem struct {
	// ProblemID is the recommended problem.
	ProblemID int `json:"problem_id"`

	// Score is the accumulated similarity-weighted difficulty, or the
	// popularity score (solver count * mean difficulty) for fallback results.
	Score float64 `json:"score"`
}

// DatasetProvider supplies ratings for training.
// This is implemented by the dataset package (CSV, DuckDB, synthetic).
type DatasetProvider interface {
	// Ratings returns every rating entry of the dataset.
	Ratings(ctx context.Context) ([]RatingEntry, error)
}

// StaticDataset is an in-memory DatasetProvider.
type StaticDataset []RatingEntry

// Ratings implements DatasetProvider.
func (s StaticDataset) Ratings(_ context.Context) ([]RatingEntry, error) {
	return s, nil
}

// Request describes a recommendation query.
// Exactly one of Handle (known user) or Solved (cold-start vector) drives the
// query. When both are set, a known Handle wins and Solved is ignored.
type Request struct {
	// Handle identifies a user present in the trained store.
	Handle string `json:"handle,omitempty"`

	// Solved is the solve history of a user unseen at training time.
	Solved UserVector `json:"solved,omitempty"`

	// N is the number of recommendations to return.
	// Zero means Limits.DefaultK; values above Limits.MaxK are clamped.
	N int `json:"n"`

	// Tag restricts candidates with the tag predicate. Empty means no filter.
	Tag string `json:"tag,omitempty"`

	// RequestID is used for tracing. Generated if empty.
	RequestID string `json:"request_id,omitempty"`
}

// Mode identifies which recommendation path served a request.
type Mode int

const (
	// ModeExistingUser uses the precomputed similarity table.
	ModeExistingUser Mode = iota

	// ModeExistingUserByTag uses the precomputed table with a tag filter.
	ModeExistingUserByTag

	// ModeNewUser computes similarity on demand for a cold-start vector.
	ModeNewUser

	// ModeNewUserByTag is the cold-start path with a tag filter.
	ModeNewUserByTag
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeExistingUser:
		return "existing_user"
	case ModeExistingUserByTag:
		return "existing_user_by_tag"
	case ModeNewUser:
		return "new_user"
	case ModeNewUserByTag:
		return "new_user_by_tag"
	default:
		return "unknown"
	}
}

// Source identifies how the returned scores were produced.
type Source string

const (
	// SourceCollaborative means scores come from neighbor accumulation.
	SourceCollaborative Source = "collaborative"

	// SourcePopularity means the popularity fallback produced the result.
	SourcePopularity Source = "popularity"
)

// Response contains recommendation results.
type Response struct {
	// Items are the ranked problems, best first. Never nil.
	Items []ScoredProblem `json:"items"`

	// Source reports whether collaborative scores or the fallback were used.
	Source Source `json:"source"`

	// Metadata contains request processing information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains information about how recommendations were generated.
type ResponseMetadata struct {
	// RequestID is the request identifier.
	RequestID string `json:"request_id"`

	// Mode is the recommendation path used.
	Mode string `json:"mode"`

	// Tag is the normalized tag filter, if any.
	Tag string `json:"tag,omitempty"`

	// Neighbors is the number of positive-similarity neighbors used.
	Neighbors int `json:"neighbors"`

	// LatencyMS is the processing time in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates whether the response was served from cache.
	CacheHit bool `json:"cache_hit"`

	// ModelVersion is the version of the model that served the request.
	ModelVersion int `json:"model_version"`

	// TrainedAt is when the serving model was trained.
	TrainedAt time.Time `json:"trained_at"`
}

// UserStats summarizes one user's solve history.
type UserStats struct {
	Handle        string      `json:"handle"`
	TotalSolved   int         `json:"total_solved"`
	AvgDifficulty float64     `json:"avg_difficulty"`
	MinDifficulty int         `json:"min_difficulty"`
	MaxDifficulty int         `json:"max_difficulty"`
	Histogram     map[int]int `json:"difficulty_histogram"`
}

// State is the lifecycle state of a ModelHandle.
type State int

const (
	// StateUninitialized means no model has been published yet.
	StateUninitialized State = iota

	// StateTraining means the first model is being built.
	StateTraining

	// StateTrained means a model is published and serving.
	StateTrained

	// StateRetraining means a replacement is being built while the old model serves.
	StateRetraining

	// StateClosed means the handle has been torn down.
	StateClosed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateTraining:
		return "training"
	case StateTrained:
		return "trained"
	case StateRetraining:
		return "retraining"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// TrainingStatus represents the current training state.
type TrainingStatus struct {
	// State is the handle lifecycle state.
	State string `json:"state"`

	// IsTraining indicates whether training is currently in progress.
	IsTraining bool `json:"is_training"`

	// LastTrainedAt is when the serving model was trained.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastTrainingDurationMS is how long the last training took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError contains the last training error, if any.
	LastError string `json:"last_error,omitempty"`

	// EntryCount is the number of deduplicated ratings in the serving model.
	EntryCount int `json:"entry_count"`

	// UserCount is the number of users in the serving model.
	UserCount int `json:"user_count"`

	// ProblemCount is the number of distinct problems in the serving model.
	ProblemCount int `json:"problem_count"`

	// ModelVersion is the serving model version.
	ModelVersion int `json:"model_version"`
}

// Metrics contains handle-level counters for observability.
type Metrics struct {
	// RequestCount is the total number of recommendation requests.
	RequestCount int64 `json:"request_count"`

	// CacheHits is the number of cache hits.
	CacheHits int64 `json:"cache_hits"`

	// CacheMisses is the number of cache misses.
	CacheMisses int64 `json:"cache_misses"`

	// FallbackCount is the number of responses served by popularity fallback.
	FallbackCount int64 `json:"fallback_count"`

	// TrainingCount is the number of successful training runs.
	TrainingCount int64 `json:"training_count"`

	// ErrorCount is the total number of failed requests and training runs.
	ErrorCount int64 `json:"error_count"`
}
