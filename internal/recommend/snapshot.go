// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import (
	"fmt"

	"github.com/tomtom215/solvedrec/internal/recommend/storage"
)

// SnapshotName is the series name under which the handle stores models.
const SnapshotName = "model"

// ToSnapshot converts a model into its serializable state.
func (m *Model) ToSnapshot() *storage.SnapshotState {
	sim := make(map[string]map[string]float64, len(m.similarity))
	for handle, row := range m.similarity {
		cp := make(map[string]float64, len(row))
		for other, v := range row {
			cp[other] = v
		}
		sim[handle] = cp
	}

	return &storage.SnapshotState{
		Ratings:    m.store.Vectors(),
		Similarity: sim,
	}
}

// snapshotMetadata describes the model for the snapshot header.
func (m *Model) snapshotMetadata(trainingDurationMS int64) storage.Metadata {
	return storage.Metadata{
		TrainedAt:          m.trainedAt,
		EntryCount:         m.store.EntryCount(),
		UserCount:          m.store.UserCount(),
		ProblemCount:       m.store.ProblemCount(),
		TrainingDurationMS: trainingDurationMS,
	}
}

// ModelFromSnapshot rebuilds a model from a decoded snapshot.
// Every failure wraps ErrPersistence; no partially built model is returned.
func ModelFromSnapshot(state *storage.SnapshotState, meta *storage.Metadata) (*Model, error) {
	if state == nil || meta == nil {
		return nil, fmt.Errorf("%w: empty snapshot", ErrPersistence)
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	vectors := make(map[string]UserVector, len(state.Ratings))
	for handle, row := range state.Ratings {
		if len(row) == 0 {
			return nil, fmt.Errorf("%w: user %q has no ratings", ErrPersistence, handle)
		}
		vec := make(UserVector, len(row))
		for p, d := range row {
			if err := validateEntry(RatingEntry{Handle: handle, ProblemID: p, Difficulty: d}); err != nil {
				return nil, fmt.Errorf("%w: user %q: %s", ErrPersistence, handle, err.Error())
			}
			vec[p] = d
		}
		vectors[handle] = vec
	}

	table := make(SimilarityTable, len(vectors))
	for handle := range vectors {
		row := make(map[string]float64, len(state.Similarity[handle]))
		for other, v := range state.Similarity[handle] {
			row[other] = v
		}
		table[handle] = row
	}

	return NewModel(newRatingStore(vectors), table, meta.Version, meta.TrainedAt), nil
}

// SaveModel writes a model snapshot to path.
func SaveModel(path string, m *Model) (*storage.Metadata, error) {
	if m == nil {
		return nil, ErrUntrainedModel
	}
	meta, err := storage.SavePath(path, m.version, m.ToSnapshot(), m.snapshotMetadata(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return meta, nil
}

// LoadModel reads a model snapshot from path.
func LoadModel(path string) (*Model, error) {
	state, meta, err := storage.LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return ModelFromSnapshot(state, meta)
}
