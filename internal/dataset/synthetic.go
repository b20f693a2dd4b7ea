// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package dataset

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/tomtom215/solvedrec/internal/recommend"
)

// Demo dataset shape.
const (
	DemoUsers        = 20
	DemoFirstProblem = 1000
	DemoProblems     = 100
	DemoMinSolves    = 10
	DemoMaxSolves    = 30
	MaxLevel         = 30
)

// Synthetic generates a deterministic demo dataset: each user solves a random
// subset of a contiguous problem range, each solve at a random level.
type Synthetic struct {
	Seed         uint64
	Users        int
	FirstProblem int
	Problems     int
	MinSolves    int
	MaxSolves    int
}

// NewSynthetic returns the demo shape seeded with seed.
func NewSynthetic(seed uint64) *Synthetic {
	return &Synthetic{
		Seed:         seed,
		Users:        DemoUsers,
		FirstProblem: DemoFirstProblem,
		Problems:     DemoProblems,
		MinSolves:    DemoMinSolves,
		MaxSolves:    DemoMaxSolves,
	}
}

// Ratings implements recommend.DatasetProvider.
func (s *Synthetic) Ratings(ctx context.Context) ([]recommend.RatingEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Users < 1 || s.Problems < 1 || s.MinSolves < 1 || s.MaxSolves < s.MinSolves {
		return nil, fmt.Errorf("%w: invalid synthetic shape %+v", recommend.ErrData, *s)
	}

	maxSolves := min(s.MaxSolves, s.Problems)
	minSolves := min(s.MinSolves, maxSolves)

	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // demo data

	entries := make([]recommend.RatingEntry, 0, s.Users*maxSolves)
	for u := 1; u <= s.Users; u++ {
		handle := fmt.Sprintf("user%d", u)
		count := minSolves + rng.IntN(maxSolves-minSolves+1)
		for _, offset := range rng.Perm(s.Problems)[:count] {
			entries = append(entries, recommend.RatingEntry{
				Handle:     handle,
				ProblemID:  s.FirstProblem + offset,
				Difficulty: 1 + rng.IntN(MaxLevel),
			})
		}
	}
	return entries, nil
}
