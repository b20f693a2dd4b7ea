// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import (
	"context"
	"testing"
)

func TestMode_String(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		expected string
	}{
		{"existing user", ModeExistingUser, "existing_user"},
		{"existing user by tag", ModeExistingUserByTag, "existing_user_by_tag"},
		{"new user", ModeNewUser, "new_user"},
		{"new user by tag", ModeNewUserByTag, "new_user_by_tag"},
		{"unknown value", Mode(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.String(); got != tt.expected {
				t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.expected)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateUninitialized, "uninitialized"},
		{StateTraining, "training"},
		{StateTrained, "trained"},
		{StateRetraining, "retraining"},
		{StateClosed, "closed"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
			}
		})
	}
}

func TestUserVector_Clone(t *testing.T) {
	orig := UserVector{1000: 5, 1001: 7}
	clone := orig.Clone()

	clone[1000] = 99
	clone[2000] = 1

	if orig[1000] != 5 {
		t.Errorf("original modified: orig[1000] = %d, want 5", orig[1000])
	}
	if _, ok := orig[2000]; ok {
		t.Error("original gained key 2000")
	}
}

func TestStaticDataset_Ratings(t *testing.T) {
	ds := StaticDataset{{Handle: "u1", ProblemID: 1000, Difficulty: 3}}

	got, err := ds.Ratings(context.Background())
	if err != nil {
		t.Fatalf("Ratings() error = %v", err)
	}
	if len(got) != 1 || got[0].Handle != "u1" {
		t.Errorf("Ratings() = %+v, want one entry for u1", got)
	}
}
