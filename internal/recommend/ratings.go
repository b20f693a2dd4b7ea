// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import (
	"fmt"
	"sort"
	"strings"
)

// RatingStore holds the sparse user -> problem -> difficulty matrix.
//
// A store is built once per training cycle and is immutable afterwards:
// retraining builds a new store and replaces the old one wholesale, so
// readers never observe a half-updated matrix.
type RatingStore struct {
	vectors map[string]UserVector

	// problems holds each user's problem IDs in ascending order so that
	// accumulation and tie-breaking do not depend on map iteration order.
	problems map[string][]int

	// handles is the sorted list of users.
	handles []string

	problemCount int
	entryCount   int
}

// LoadRatings builds a RatingStore from rating entries.
//
// Entries are deduplicated by (handle, problem); the first occurrence wins.
// Returns ErrData when entries is empty or an entry is malformed.
func LoadRatings(entries []RatingEntry) (*RatingStore, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: dataset is empty", ErrData)
	}

	vectors := make(map[string]UserVector)
	for i, e := range entries {
		if err := validateEntry(e); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %s", ErrData, i, err.Error())
		}

		vec, ok := vectors[e.Handle]
		if !ok {
			vec = make(UserVector)
			vectors[e.Handle] = vec
		}
		if _, dup := vec[e.ProblemID]; dup {
			continue
		}
		vec[e.ProblemID] = e.Difficulty
	}

	return newRatingStore(vectors), nil
}

// validateEntry reports why an entry is malformed, or nil.
func validateEntry(e RatingEntry) error {
	if strings.TrimSpace(e.Handle) == "" {
		return fmt.Errorf("missing user handle")
	}
	if e.ProblemID <= 0 {
		return fmt.Errorf("invalid problem id %d", e.ProblemID)
	}
	if e.Difficulty < 0 {
		return fmt.Errorf("invalid difficulty %d", e.Difficulty)
	}
	return nil
}

// newRatingStore indexes already-deduplicated vectors. The store takes
// ownership of the map.
func newRatingStore(vectors map[string]UserVector) *RatingStore {
	s := &RatingStore{
		vectors:  vectors,
		problems: make(map[string][]int, len(vectors)),
		handles:  make([]string, 0, len(vectors)),
	}

	distinct := make(map[int]struct{})
	for handle, vec := range vectors {
		ids := make([]int, 0, len(vec))
		for p := range vec {
			ids = append(ids, p)
			distinct[p] = struct{}{}
		}
		sort.Ints(ids)

		s.problems[handle] = ids
		s.handles = append(s.handles, handle)
		s.entryCount += len(vec)
	}
	sort.Strings(s.handles)
	s.problemCount = len(distinct)

	return s
}

// Get returns the vector for a user.
func (s *RatingStore) Get(handle string) (UserVector, bool) {
	vec, ok := s.vectors[handle]
	return vec, ok
}

// Has reports whether the user is present.
func (s *RatingStore) Has(handle string) bool {
	_, ok := s.vectors[handle]
	return ok
}

// UserCount returns the number of distinct users.
func (s *RatingStore) UserCount() int {
	return len(s.vectors)
}

// ProblemCount returns the number of distinct problems.
func (s *RatingStore) ProblemCount() int {
	return s.problemCount
}

// EntryCount returns the number of deduplicated ratings.
func (s *RatingStore) EntryCount() int {
	return s.entryCount
}

// Handles returns all users in ascending order. The slice must not be modified.
func (s *RatingStore) Handles() []string {
	return s.handles
}

// problemsOf returns the user's problem IDs in ascending order.
func (s *RatingStore) problemsOf(handle string) []int {
	return s.problems[handle]
}

// Vectors returns a deep copy of the matrix, used for snapshots.
func (s *RatingStore) Vectors() map[string]map[int]int {
	out := make(map[string]map[int]int, len(s.vectors))
	for handle, vec := range s.vectors {
		out[handle] = vec.Clone()
	}
	return out
}

// Stats summarizes a user's solve history.
func (s *RatingStore) Stats(handle string) (*UserStats, bool) {
	vec, ok := s.vectors[handle]
	if !ok {
		return nil, false
	}

	stats := &UserStats{
		Handle:      handle,
		TotalSolved: len(vec),
		Histogram:   make(map[int]int),
	}
	if len(vec) == 0 {
		return stats, true
	}

	sum := 0
	first := true
	for _, d := range vec {
		sum += d
		stats.Histogram[d]++
		if first || d < stats.MinDifficulty {
			stats.MinDifficulty = d
		}
		if first || d > stats.MaxDifficulty {
			stats.MaxDifficulty = d
		}
		first = false
	}
	stats.AvgDifficulty = float64(sum) / float64(len(vec))

	return stats, true
}
