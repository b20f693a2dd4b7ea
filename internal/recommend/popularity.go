// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import "sort"

// popularityStat accumulates solver count and difficulty sum for one problem.
type popularityStat struct {
	count int
	sum   int
}

// PopularityFallback ranks problems absent from exclude by
// solverCount * meanDifficulty. A problem qualifies only when at least
// minCount distinct users solved it. Ties are broken by ascending problem ID.
//
// The result is never nil.
func PopularityFallback(store *RatingStore, exclude UserVector, minCount, n int) []ScoredProblem {
	return popularity(store, exclude, minCount, n, nil)
}

// PopularityFallbackByTag is PopularityFallback restricted to problems that
// pass the tag predicate.
func PopularityFallbackByTag(store *RatingStore, exclude UserVector, tag string, minCount, n int) []ScoredProblem {
	return popularity(store, exclude, minCount, n, func(problemID int) bool {
		return TagPredicate(problemID, tag)
	})
}

func popularity(store *RatingStore, exclude UserVector, minCount, n int, keep func(int) bool) []ScoredProblem {
	stats := make(map[int]*popularityStat)
	for _, handle := range store.Handles() {
		vec := store.vectors[handle]
		for p, d := range vec {
			if _, solved := exclude[p]; solved {
				continue
			}
			if keep != nil && !keep(p) {
				continue
			}
			st, ok := stats[p]
			if !ok {
				st = &popularityStat{}
				stats[p] = st
			}
			st.count++
			st.sum += d
		}
	}

	out := make([]ScoredProblem, 0, len(stats))
	for p, st := range stats {
		if st.count < minCount {
			continue
		}
		// count * (sum / count) reduces to the difficulty sum.
		out = append(out, ScoredProblem{ProblemID: p, Score: float64(st.sum)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ProblemID < out[j].ProblemID
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
