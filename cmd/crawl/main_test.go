// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package main

import (
	"slices"
	"testing"
)

func TestSplitHandles(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "koosaga", []string{"koosaga"}},
		{"trims and drops blanks", " a1 ,, b_2 ,", []string{"a1", "b_2"}},
		{"drops invalid", "ok,not-ok,also ok", []string{"ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitHandles(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("splitHandles(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
