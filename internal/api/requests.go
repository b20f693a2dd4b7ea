// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/solvedrec/internal/recommend"
	"github.com/tomtom215/solvedrec/internal/validation"
)

// UserRecommendationRequest holds the validated parameters of
// GET /api/v1/recommendations/user/{handle}.
type UserRecommendationRequest struct {
	Handle string `json:"handle" validate:"required,handle"`
	N      int    `json:"n" validate:"min=0,max=1000"`
	Tag    string `json:"tag" validate:"omitempty,problemtag"`
}

// UserStatsRequest holds the validated path of GET /api/v1/users/{handle}/stats.
type UserStatsRequest struct {
	Handle string `json:"handle" validate:"required,handle"`
}

// SolvedProblem is one entry of a cold-start solve history.
type SolvedProblem struct {
	ProblemID  int `json:"problem_id" validate:"min=1"`
	Difficulty int `json:"difficulty" validate:"min=0,max=30"`
}

// RecommendRequest is the body of POST /api/v1/recommendations.
// Handle selects a trained user; Solved supplies a history for a user the
// model has not seen. At least one must be present.
type RecommendRequest struct {
	Handle string          `json:"handle" validate:"omitempty,handle"`
	Solved []SolvedProblem `json:"solved" validate:"omitempty,max=100000,dive"`
	N      int             `json:"n" validate:"min=0,max=1000"`
	Tag    string          `json:"tag" validate:"omitempty,problemtag"`
}

// toRequest converts the body into an engine request. The first entry for
// a problem wins, matching how the rating store treats duplicates.
func (r *RecommendRequest) toRequest(requestID string) recommend.Request {
	req := recommend.Request{
		Handle:    r.Handle,
		N:         r.N,
		Tag:       r.Tag,
		RequestID: requestID,
	}
	if r.Solved != nil {
		req.Solved = make(recommend.UserVector, len(r.Solved))
		for _, s := range r.Solved {
			if _, seen := req.Solved[s.ProblemID]; !seen {
				req.Solved[s.ProblemID] = s.Difficulty
			}
		}
	}
	return req
}

// OpenDuelRequest is the body of POST /api/v1/duels.
type OpenDuelRequest struct {
	User      string `json:"user" validate:"required,handle"`
	ProblemID int    `json:"problem_id" validate:"required,min=1"`
}

// FinishDuelRequest is the body of POST /api/v1/duels/{id}/finish.
type FinishDuelRequest struct {
	User string `json:"user" validate:"required,handle"`
}

// DuelQuery holds the validated parameters of GET /api/v1/duels.
type DuelQuery struct {
	User string `json:"user" validate:"required,handle"`
}

var errEmptyBody = errors.New("request body is required")

// decodeJSON decodes a size-limited JSON body into dst.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return errEmptyBody
	}
	body := http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parseN reads the optional n query parameter.
func parseN(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("n must be an integer, got %q", raw)
	}
	return n, nil
}

// validateRequest runs struct validation and writes a 400 on failure.
// Returns false when a response was written.
func validateRequest(rw *ResponseWriter, v interface{}) bool {
	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}
