// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import (
	"fmt"
	"sort"
	"time"
)

// Model is an immutable trained model: the rating store plus the
// precomputed similarity table. A Model is never mutated after construction,
// so it can be shared by any number of concurrent readers.
type Model struct {
	store      *RatingStore
	similarity SimilarityTable
	version    int
	trainedAt  time.Time
}

// NewModel assembles a model from its parts.
func NewModel(store *RatingStore, similarity SimilarityTable, version int, trainedAt time.Time) *Model {
	return &Model{
		store:      store,
		similarity: similarity,
		version:    version,
		trainedAt:  trainedAt,
	}
}

// Store returns the model's rating store.
func (m *Model) Store() *RatingStore { return m.store }

// Similarity returns the model's similarity table. It must not be modified.
func (m *Model) Similarity() SimilarityTable { return m.similarity }

// Version returns the model version.
func (m *Model) Version() int { return m.version }

// TrainedAt returns when the model was trained.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// neighbor is a candidate similar user.
type neighbor struct {
	handle string
	sim    float64
}

// recommendation is the internal result of one scoring pass.
type recommendation struct {
	items     []ScoredProblem
	source    Source
	neighbors int
}

// sortNeighbors orders by similarity descending, then handle ascending.
func sortNeighbors(ns []neighbor) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].sim != ns[j].sim {
			return ns[i].sim > ns[j].sim
		}
		return ns[i].handle < ns[j].handle
	})
}

// accumulate sums sim * difficulty over the neighbors' unsolved problems.
// Neighbors with non-positive similarity contribute nothing. Results are
// sorted by score descending; ties keep first-accumulation order.
func (m *Model) accumulate(neighbors []neighbor, solved UserVector, keep func(int) bool, n int) ([]ScoredProblem, int) {
	scores := make(map[int]float64)
	order := make([]int, 0)
	used := 0

	for _, nb := range neighbors {
		if nb.sim <= 0 {
			continue
		}
		used++

		vec := m.store.vectors[nb.handle]
		for _, p := range m.store.problemsOf(nb.handle) {
			if _, ok := solved[p]; ok {
				continue
			}
			if keep != nil && !keep(p) {
				continue
			}
			if _, seen := scores[p]; !seen {
				order = append(order, p)
			}
			scores[p] += nb.sim * float64(vec[p])
		}
	}

	out := make([]ScoredProblem, 0, len(order))
	for _, p := range order {
		out = append(out, ScoredProblem{ProblemID: p, Score: scores[p]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > n {
		out = out[:n]
	}
	return out, used
}

// tableNeighbors returns the top k neighbors of a known user from the
// precomputed table. All neighbors are ranked before truncation, so
// non-positive entries may occupy slots and are skipped later.
func (m *Model) tableNeighbors(handle string, k int) []neighbor {
	row := m.similarity[handle]
	ns := make([]neighbor, 0, len(row))
	for other, sim := range row {
		ns = append(ns, neighbor{handle: other, sim: sim})
	}
	sortNeighbors(ns)
	if len(ns) > k {
		ns = ns[:k]
	}
	return ns
}

// vectorNeighbors returns the top k positive neighbors of an arbitrary vector.
func (m *Model) vectorNeighbors(vec UserVector, k int) []neighbor {
	sims := SimilarityAgainstAll(vec, m.store)
	ns := make([]neighbor, 0, len(sims))
	for other, sim := range sims {
		ns = append(ns, neighbor{handle: other, sim: sim})
	}
	sortNeighbors(ns)
	if len(ns) > k {
		ns = ns[:k]
	}
	return ns
}

// RecommendForExistingUser scores unsolved problems for a user present in
// the store using the precomputed similarity table.
// Returns ErrUnknownUser when the handle is absent. An empty, non-nil result
// is valid when no neighbor contributes.
func (m *Model) RecommendForExistingUser(handle string, n int, cfg NeighborConfig) ([]ScoredProblem, error) {
	rec, err := m.existingUser(handle, "", n, cfg)
	if err != nil {
		return nil, err
	}
	return rec.items, nil
}

// RecommendForExistingUserByTag is RecommendForExistingUser restricted to
// problems passing the tag predicate, with the tag popularity fallback.
func (m *Model) RecommendForExistingUserByTag(handle, tag string, n int, cfg NeighborConfig) ([]ScoredProblem, error) {
	rec, err := m.existingUser(handle, tag, n, cfg)
	if err != nil {
		return nil, err
	}
	return rec.items, nil
}

// RecommendForNewUser scores problems for a solve history unseen at training
// time. Falls back to popularity when no positive neighbor exists or when
// the neighbors contribute nothing.
func (m *Model) RecommendForNewUser(vec UserVector, n int, cfg NeighborConfig) []ScoredProblem {
	return m.newUser(vec, "", n, cfg).items
}

// RecommendForNewUserByTag is RecommendForNewUser restricted to problems
// passing the tag predicate, with the tag popularity fallback.
func (m *Model) RecommendForNewUserByTag(vec UserVector, tag string, n int, cfg NeighborConfig) []ScoredProblem {
	return m.newUser(vec, tag, n, cfg).items
}

func (m *Model) existingUser(handle, tag string, n int, cfg NeighborConfig) (*recommendation, error) {
	solved, ok := m.store.Get(handle)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUser, handle)
	}

	var keep func(int) bool
	if tag != "" {
		keep = func(p int) bool { return TagPredicate(p, tag) }
	}

	items, used := m.accumulate(m.tableNeighbors(handle, cfg.TopK), solved, keep, n)
	rec := &recommendation{items: items, source: SourceCollaborative, neighbors: used}

	if len(items) == 0 && tag != "" {
		rec.items = PopularityFallbackByTag(m.store, solved, tag, cfg.MinTagPopularity, n)
		rec.source = SourcePopularity
	}
	return rec, nil
}

func (m *Model) newUser(vec UserVector, tag string, n int, cfg NeighborConfig) *recommendation {
	fallback := func() *recommendation {
		var items []ScoredProblem
		if tag != "" {
			items = PopularityFallbackByTag(m.store, vec, tag, cfg.MinTagPopularity, n)
		} else {
			items = PopularityFallback(m.store, vec, cfg.MinPopularity, n)
		}
		return &recommendation{items: items, source: SourcePopularity}
	}

	if len(vec) == 0 {
		return &recommendation{items: []ScoredProblem{}, source: SourcePopularity}
	}

	neighbors := m.vectorNeighbors(vec, cfg.TopK)
	if len(neighbors) == 0 {
		return fallback()
	}

	var keep func(int) bool
	if tag != "" {
		keep = func(p int) bool { return TagPredicate(p, tag) }
	}

	items, used := m.accumulate(neighbors, vec, keep, n)
	if len(items) == 0 {
		rec := fallback()
		rec.neighbors = used
		return rec
	}
	return &recommendation{items: items, source: SourceCollaborative, neighbors: used}
}
