// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

// scenarioEntries is the two-user reference dataset.
func scenarioEntries() []RatingEntry {
	return []RatingEntry{
		{Handle: "u1", ProblemID: 1000, Difficulty: 10},
		{Handle: "u1", ProblemID: 1001, Difficulty: 20},
		{Handle: "u2", ProblemID: 1000, Difficulty: 10},
		{Handle: "u2", ProblemID: 1002, Difficulty: 30},
	}
}

func trainModel(t *testing.T, entries []RatingEntry) *Model {
	t.Helper()
	store, err := LoadRatings(entries)
	if err != nil {
		t.Fatalf("LoadRatings() error = %v", err)
	}
	table, err := TrainPairwise(context.Background(), store, 2)
	if err != nil {
		t.Fatalf("TrainPairwise() error = %v", err)
	}
	return NewModel(store, table, 1, time.Now())
}

func neighborConfig() NeighborConfig {
	return DefaultConfig().Neighbors
}

func TestRecommendForExistingUser_Scenario(t *testing.T) {
	m := trainModel(t, scenarioEntries())

	sim, ok := m.Similarity().Get("u1", "u2")
	if !ok {
		t.Fatal("sim(u1,u2) missing")
	}
	wantSim := 100 / (math.Sqrt(500) * math.Sqrt(1000))
	if math.Abs(sim-wantSim) > epsilon {
		t.Errorf("sim(u1,u2) = %v, want %v", sim, wantSim)
	}

	got, err := m.RecommendForExistingUser("u1", 5, neighborConfig())
	if err != nil {
		t.Fatalf("RecommendForExistingUser() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("RecommendForExistingUser() = %+v, want exactly problem 1002", got)
	}
	if got[0].ProblemID != 1002 {
		t.Errorf("ProblemID = %d, want 1002", got[0].ProblemID)
	}
	if math.Abs(got[0].Score-sim*30) > epsilon {
		t.Errorf("Score = %v, want sim*30 = %v", got[0].Score, sim*30)
	}
}

func TestRecommendForExistingUser_UnknownUser(t *testing.T) {
	m := trainModel(t, scenarioEntries())

	_, err := m.RecommendForExistingUser("ghost", 5, neighborConfig())
	if !errors.Is(err, ErrUnknownUser) {
		t.Errorf("error = %v, want ErrUnknownUser", err)
	}
}

func TestRecommendForExistingUser_NoContributionIsEmpty(t *testing.T) {
	m := trainModel(t, []RatingEntry{
		{Handle: "a", ProblemID: 1000, Difficulty: 5},
		{Handle: "b", ProblemID: 2000, Difficulty: 5},
	})

	got, err := m.RecommendForExistingUser("a", 5, neighborConfig())
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if got == nil {
		t.Fatal("result = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("result = %+v, want empty (no popularity fallback for existing users)", got)
	}
}

func TestRecommendForExistingUser_NeverReturnsSolved(t *testing.T) {
	m := trainModel(t, symmetryEntries())

	for _, handle := range m.Store().Handles() {
		solved, _ := m.Store().Get(handle)
		got, err := m.RecommendForExistingUser(handle, 100, neighborConfig())
		if err != nil {
			t.Fatalf("RecommendForExistingUser(%s) error = %v", handle, err)
		}
		for i, sp := range got {
			if _, ok := solved[sp.ProblemID]; ok {
				t.Errorf("%s: solved problem %d recommended", handle, sp.ProblemID)
			}
			if i > 0 && got[i-1].Score < sp.Score {
				t.Errorf("%s: not sorted at %d", handle, i)
			}
		}
	}
}

func TestRecommendForExistingUser_TopKNeighbors(t *testing.T) {
	// "strong" shares both problems with target, "weak" shares one.
	m := trainModel(t, []RatingEntry{
		{Handle: "target", ProblemID: 1000, Difficulty: 10},
		{Handle: "target", ProblemID: 1001, Difficulty: 10},
		{Handle: "strong", ProblemID: 1000, Difficulty: 10},
		{Handle: "strong", ProblemID: 1001, Difficulty: 10},
		{Handle: "strong", ProblemID: 1100, Difficulty: 5},
		{Handle: "weak", ProblemID: 1000, Difficulty: 10},
		{Handle: "weak", ProblemID: 1200, Difficulty: 30},
	})

	cfg := neighborConfig()
	cfg.TopK = 1

	got, err := m.RecommendForExistingUser("target", 10, cfg)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(got) != 1 || got[0].ProblemID != 1100 {
		t.Errorf("result = %+v, want only 1100 from the strongest neighbor", got)
	}
}

func TestRecommendForExistingUser_NeighborTiesByHandle(t *testing.T) {
	// "alpha" and "beta" are equally similar to target.
	m := trainModel(t, []RatingEntry{
		{Handle: "target", ProblemID: 1000, Difficulty: 10},
		{Handle: "beta", ProblemID: 1000, Difficulty: 10},
		{Handle: "beta", ProblemID: 1300, Difficulty: 10},
		{Handle: "alpha", ProblemID: 1000, Difficulty: 10},
		{Handle: "alpha", ProblemID: 1400, Difficulty: 10},
	})

	cfg := neighborConfig()
	cfg.TopK = 1

	got, err := m.RecommendForExistingUser("target", 10, cfg)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(got) != 1 || got[0].ProblemID != 1400 {
		t.Errorf("result = %+v, want 1400 from alpha", got)
	}
}

func TestRecommendForExistingUser_ScoreTiesKeepAccumulationOrder(t *testing.T) {
	m := trainModel(t, []RatingEntry{
		{Handle: "target", ProblemID: 1000, Difficulty: 10},
		{Handle: "n", ProblemID: 1000, Difficulty: 10},
		{Handle: "n", ProblemID: 1700, Difficulty: 8},
		{Handle: "n", ProblemID: 1600, Difficulty: 8},
	})

	got, err := m.RecommendForExistingUser("target", 10, neighborConfig())
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("result = %+v, want two problems", got)
	}
	// A neighbor's problems are visited in ascending ID order.
	if got[0].ProblemID != 1600 || got[1].ProblemID != 1700 {
		t.Errorf("order = [%d %d], want [1600 1700]", got[0].ProblemID, got[1].ProblemID)
	}
}

func TestRecommendForExistingUser_Truncates(t *testing.T) {
	m := trainModel(t, symmetryEntries())

	got, err := m.RecommendForExistingUser("user00", 3, neighborConfig())
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(got) > 3 {
		t.Errorf("len = %d, want <= 3", len(got))
	}
}

func TestRecommendForExistingUserByTag(t *testing.T) {
	m := trainModel(t, []RatingEntry{
		{Handle: "target", ProblemID: 1000, Difficulty: 10},
		{Handle: "n", ProblemID: 1000, Difficulty: 10},
		{Handle: "n", ProblemID: 1100, Difficulty: 10},
		{Handle: "n", ProblemID: 1300, Difficulty: 10},
		{Handle: "other", ProblemID: 5000, Difficulty: 7},
		{Handle: "other", ProblemID: 1900, Difficulty: 7},
	})

	t.Run("filters neighbor candidates", func(t *testing.T) {
		got, err := m.RecommendForExistingUserByTag("target", "graph", 10, neighborConfig())
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if len(got) != 1 || got[0].ProblemID != 1300 {
			t.Errorf("result = %+v, want only 1300", got)
		}
	})

	t.Run("falls back to tag popularity", func(t *testing.T) {
		// other shares nothing with anyone, so no neighbor contributes.
		got, err := m.RecommendForExistingUserByTag("other", "graph", 10, neighborConfig())
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		// 1900 is solved by other; 1300 is the only remaining graph problem.
		if len(got) != 1 || got[0].ProblemID != 1300 {
			t.Errorf("result = %+v, want fallback [1300]", got)
		}
	})
}

func TestRecommendForNewUser(t *testing.T) {
	m := trainModel(t, scenarioEntries())

	t.Run("collaborative when neighbors overlap", func(t *testing.T) {
		got := m.RecommendForNewUser(UserVector{1000: 10, 1001: 20}, 5, neighborConfig())
		// Same vector as u1 plus u1 itself as a neighbor: 1002 from u2 only.
		if len(got) != 1 || got[0].ProblemID != 1002 {
			t.Fatalf("result = %+v, want [1002]", got)
		}
		want := 100 / (math.Sqrt(500) * math.Sqrt(1000)) * 30
		if math.Abs(got[0].Score-want) > epsilon {
			t.Errorf("Score = %v, want %v", got[0].Score, want)
		}
	})

	t.Run("popularity fallback without positive neighbors", func(t *testing.T) {
		rec := m.newUser(UserVector{9000: 5}, "", 5, neighborConfig())
		if rec.source != SourcePopularity {
			t.Errorf("source = %s, want popularity", rec.source)
		}
		// 1000 is the only problem with two solvers.
		if len(rec.items) != 1 || rec.items[0].ProblemID != 1000 {
			t.Errorf("items = %+v, want [1000]", rec.items)
		}
		if math.Abs(rec.items[0].Score-20) > epsilon {
			t.Errorf("score = %v, want 2*10", rec.items[0].Score)
		}
	})

	t.Run("fallback when accumulation is empty", func(t *testing.T) {
		rec := m.newUser(UserVector{1000: 10, 1001: 20, 1002: 30}, "", 5, neighborConfig())
		if rec.source != SourcePopularity {
			t.Errorf("source = %s, want popularity", rec.source)
		}
		if rec.items == nil || len(rec.items) != 0 {
			t.Errorf("items = %+v, want empty non-nil", rec.items)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		got := m.RecommendForNewUser(UserVector{}, 5, neighborConfig())
		if got == nil || len(got) != 0 {
			t.Errorf("result = %+v, want empty non-nil", got)
		}
	})
}

func TestRecommendForNewUserByTag(t *testing.T) {
	m := trainModel(t, []RatingEntry{
		{Handle: "a", ProblemID: 1000, Difficulty: 10},
		{Handle: "a", ProblemID: 1100, Difficulty: 12},
		{Handle: "a", ProblemID: 1300, Difficulty: 14},
		{Handle: "b", ProblemID: 2700, Difficulty: 20},
	})

	t.Run("filters candidates", func(t *testing.T) {
		got := m.RecommendForNewUserByTag(UserVector{1000: 10}, "graph", 5, neighborConfig())
		if len(got) != 1 || got[0].ProblemID != 1300 {
			t.Errorf("result = %+v, want [1300]", got)
		}
	})

	t.Run("unknown tag filters nothing", func(t *testing.T) {
		got := m.RecommendForNewUserByTag(UserVector{1000: 10}, "segment_tree", 5, neighborConfig())
		if len(got) != 2 {
			t.Errorf("result = %+v, want 1100 and 1300", got)
		}
	})

	t.Run("tag fallback admits single solver", func(t *testing.T) {
		rec := m.newUser(UserVector{9999: 3}, "greedy", 5, neighborConfig())
		if rec.source != SourcePopularity {
			t.Errorf("source = %s, want popularity", rec.source)
		}
		// greedy covers 1200..2500: only 1300 qualifies.
		if len(rec.items) != 1 || rec.items[0].ProblemID != 1300 {
			t.Errorf("items = %+v, want [1300]", rec.items)
		}
	})
}
