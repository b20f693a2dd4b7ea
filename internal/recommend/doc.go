// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

// Package recommend implements the user-based collaborative filtering core.
//
// # Architecture
//
// The pipeline is:
//
//	dataset -> RatingStore -> TrainPairwise -> SimilarityTable -> Model -> Handle.Recommend
//
//   - RatingStore: sparse user -> problem -> difficulty matrix, deduplicated
//     by (user, problem) with the first entry winning
//   - CosineSimilarity: dot product over shared problems, norms over each
//     user's full solve set, 0.0 for disjoint users
//   - Model: an immutable rating store plus similarity table
//   - Handle: owns the serving Model and swaps in retrained ones atomically
//
// # Recommendation Paths
//
//   - Existing user: top neighbors from the precomputed table, ranked by
//     similarity then handle; only positive neighbors contribute
//   - New user: similarity is computed on demand against every stored
//     user; falls back to popularity when nothing accumulates
//   - Tag filter: candidates must pass TagPredicate, and the fallback
//     becomes the tag-filtered popularity ranking
//
// Scores accumulate as similarity * neighborDifficulty. Problems the querying
// user already solved are never returned.
//
// # Usage
//
//	h, err := recommend.NewHandle(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//
//	if err := h.Train(ctx, provider); err != nil {
//	    return err
//	}
//
//	resp, err := h.Recommend(ctx, recommend.Request{Handle: "alice", N: 10})
//
// # Thread Safety
//
// Recommend, Stats and Status may run concurrently with each other and with
// Train. Training holds an exclusive try-lock so a second concurrent Train
// returns ErrTrainingInProgress instead of queueing.
//
// # Scaling
//
// Training is O(U^2 * avgProblemsPerUser). This is acceptable for crawled
// samples of a few thousand users and is the intended ceiling of the design.
package recommend
