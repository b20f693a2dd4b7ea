// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// SimilarityTable maps a user to the similarity of every other user.
// Self-pairs are absent. Both directions are stored and computed independently.
type SimilarityTable map[string]map[string]float64

// Get returns sim(a, b) and whether the pair is present.
func (t SimilarityTable) Get(a, b string) (float64, bool) {
	row, ok := t[a]
	if !ok {
		return 0, false
	}
	v, ok := row[b]
	return v, ok
}

// CosineSimilarity computes cosine similarity between two rating vectors.
//
// The dot product runs over the intersection of keys while each norm runs over
// the vector's FULL key set, so users with many unrelated solves are penalized.
// Returns exactly 0.0 for disjoint vectors or when either norm is zero.
func CosineSimilarity(a, b UserVector) float64 {
	// Iterate the smaller vector for the intersection.
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	// Difficulties are integers, so the sums are exact and independent of
	// map iteration order.
	var dot int64
	shared := 0
	for p, ds := range small {
		if dl, ok := large[p]; ok {
			dot += int64(ds) * int64(dl)
			shared++
		}
	}
	if shared == 0 {
		return 0.0
	}

	normA := vectorNorm(a)
	normB := vectorNorm(b)
	if normA == 0 || normB == 0 {
		return 0.0
	}

	return float64(dot) / (normA * normB)
}

// vectorNorm returns the Euclidean norm over all of the vector's entries.
func vectorNorm(v UserVector) float64 {
	var sum int64
	for _, d := range v {
		sum += int64(d) * int64(d)
	}
	return math.Sqrt(float64(sum))
}

// TrainPairwise computes similarity for every ordered pair of distinct users.
//
// Cost is O(U^2 * avgProblemsPerUser). This is the scaling ceiling of the
// system: it is acceptable only because the user count of a crawled sample is
// small. Rows are computed in parallel by up to workers goroutines; each row
// is owned by one goroutine, so sim(a, b) and sim(b, a) are computed
// independently. The context is checked between rows.
func TrainPairwise(ctx context.Context, store *RatingStore, workers int) (SimilarityTable, error) {
	if workers < 1 {
		workers = 1
	}

	handles := store.Handles()
	rows := make([]map[string]float64, len(handles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, user := range handles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			vec := store.vectors[user]
			row := make(map[string]float64, len(handles)-1)
			for _, other := range handles {
				if other == user {
					continue
				}
				row[other] = CosineSimilarity(vec, store.vectors[other])
			}
			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := make(SimilarityTable, len(handles))
	for i, user := range handles {
		table[user] = rows[i]
	}
	return table, nil
}

// SimilarityAgainstAll computes on-demand similarity between a vector and
// every stored user. Only strictly positive scores are retained.
func SimilarityAgainstAll(vec UserVector, store *RatingStore) map[string]float64 {
	out := make(map[string]float64)
	for _, handle := range store.Handles() {
		if sim := CosineSimilarity(vec, store.vectors[handle]); sim > 0 {
			out[handle] = sim
		}
	}
	return out
}
