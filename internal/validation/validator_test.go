// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type recommendRequest struct {
	Handle string   `json:"handle" validate:"omitempty,handle"`
	N      int      `json:"n" validate:"gte=0,lte=100"`
	Tag    string   `json:"tag" validate:"omitempty,problemtag"`
	Solved []solved `json:"solved" validate:"max=3,dive"`
}

type solved struct {
	ProblemID  int `json:"problem_id" validate:"gt=0"`
	Difficulty int `json:"difficulty" validate:"gte=0,lte=30"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     recommendRequest
		wantField string
		wantTag   string
	}{
		{
			name:  "valid handle request",
			input: recommendRequest{Handle: "koosaga", N: 10, Tag: "dp"},
		},
		{
			name:  "valid solved list",
			input: recommendRequest{Solved: []solved{{ProblemID: 1000, Difficulty: 5}}},
		},
		{
			name:  "korean tag",
			input: recommendRequest{Handle: "user_1", Tag: "수학"},
		},
		{
			name:      "bad handle",
			input:     recommendRequest{Handle: "no spaces"},
			wantField: "handle",
			wantTag:   "handle",
		},
		{
			name:      "handle too long",
			input:     recommendRequest{Handle: strings.Repeat("a", 21)},
			wantField: "handle",
			wantTag:   "handle",
		},
		{
			name:      "n too large",
			input:     recommendRequest{N: 101},
			wantField: "n",
			wantTag:   "lte",
		},
		{
			name:  "tag with spaces",
			input: recommendRequest{Tag: "dynamic programming"},
		},
		{
			name:      "tag with leading space",
			input:     recommendRequest{Tag: " dp"},
			wantField: "tag",
			wantTag:   "problemtag",
		},
		{
			name:      "tag with slash",
			input:     recommendRequest{Tag: "dp/greedy"},
			wantField: "tag",
			wantTag:   "problemtag",
		},
		{
			name:      "nested problem id",
			input:     recommendRequest{Solved: []solved{{ProblemID: 0}}},
			wantField: "problem_id",
			wantTag:   "gt",
		},
		{
			name:      "nested difficulty",
			input:     recommendRequest{Solved: []solved{{ProblemID: 1, Difficulty: 31}}},
			wantField: "difficulty",
			wantTag:   "lte",
		},
		{
			name:      "too many solved",
			input:     recommendRequest{Solved: make([]solved, 4)},
			wantField: "solved",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(&tt.input)
			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			first := verr.Errors()[0]
			if first.Field() != tt.wantField || first.Tag() != tt.wantTag {
				t.Errorf("first error = %s/%s, want %s/%s", first.Field(), first.Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&recommendRequest{N: -1})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Message != "n must be greater than or equal to 0" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "n" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&recommendRequest{Handle: "bad handle", N: 500})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("len(Errors()) = %d, want 2", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "handle:") || !strings.Contains(apiErr.Message, "n:") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", verr.Error())
	}
}

func TestToAPIError_Empty(t *testing.T) {
	t.Parallel()

	verr := &RequestValidationError{}
	if verr.Error() != "validation failed" {
		t.Errorf("Error() = %q", verr.Error())
	}
	if apiErr := verr.ToAPIError(); apiErr.Message != "Validation failed" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	type sample struct {
		Name  string   `json:"name" validate:"required"`
		Label string   `json:"label" validate:"min=3"`
		Mode  string   `json:"mode" validate:"oneof=json console"`
		Items []string `json:"items" validate:"min=1"`
		Count int      `validate:"max=5"`
	}

	verr := ValidateStruct(&sample{Label: "ab", Mode: "xml", Count: 9})
	if verr == nil {
		t.Fatal("expected validation errors")
	}

	want := map[string]string{
		"name":  "name is required",
		"label": "label must be at least 3 characters",
		"mode":  "mode must be one of: json console",
		"items": "items must contain at least 1 items",
		"Count": "Count must be at most 5",
	}
	for _, e := range verr.Errors() {
		if msg, ok := want[e.Field()]; ok && e.Error() != msg {
			t.Errorf("%s message = %q, want %q", e.Field(), e.Error(), msg)
		}
		delete(want, e.Field())
	}
	if len(want) != 0 {
		t.Errorf("missing errors for %v", want)
	}
}

func TestIsHandle(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"koosaga":  true,
		"user_01":  true,
		"":         false,
		"a b":      false,
		"한글":       false,
		"x;DROP--": false,
	}
	for in, want := range tests {
		if got := IsHandle(in); got != want {
			t.Errorf("IsHandle(%q) = %v, want %v", in, got, want)
		}
	}
}
