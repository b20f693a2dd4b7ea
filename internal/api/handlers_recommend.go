// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/solvedrec/internal/logging"
	"github.com/tomtom215/solvedrec/internal/recommend"
)

// UserRecommendations handles GET /api/v1/recommendations/user/{handle}?n=&tag=
// Returns recommendations for a user present in the trained model.
//
// @Summary Recommend problems for a known user
// @Description Returns recommendations for a user present in the trained model.
// @Tags Recommendations
// @Produce json
// @Param handle path string true "solved.ac handle"
// @Param n query int false "Number of results (default 10)"
// @Param tag query string false "Algorithm tag, e.g. dp or dynamic programming"
// @Success 200 {object} APIResponse{data=recommend.Response} "Recommendations"
// @Failure 400 {object} APIResponse "Invalid parameters"
// @Failure 404 {object} APIResponse "Unknown user"
// @Failure 503 {object} APIResponse "Model not ready"
// @Router /recommendations/user/{handle} [get]
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	n, err := parseN(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	params := UserRecommendationRequest{
		Handle: chi.URLParam(r, "handle"),
		N:      n,
		Tag:    r.URL.Query().Get("tag"),
	}
	if !validateRequest(rw, &params) {
		return
	}

	h.recommend(rw, r, recommend.Request{
		Handle: params.Handle,
		N:      params.N,
		Tag:    params.Tag,
	})
}

// Recommendations handles POST /api/v1/recommendations.
// A known handle takes the trained-user path; an unknown handle or no
// handle with a solve history takes the cold-start path.
//
// @Summary Recommend problems for a handle or a solve history
// @Description A known handle takes the trained-user path. An unknown handle or no handle with a solved history takes the cold-start path.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body RecommendRequest true "Recommendation request"
// @Success 200 {object} APIResponse{data=recommend.Response} "Recommendations"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 404 {object} APIResponse "Unknown user without history"
// @Failure 503 {object} APIResponse "Model not ready"
// @Router /recommendations [post]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var body RecommendRequest
	if err := h.decodeJSON(w, r, &body); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validateRequest(rw, &body) {
		return
	}
	if body.Handle == "" && body.Solved == nil {
		rw.BadRequest("either handle or solved is required")
		return
	}

	h.recommend(rw, r, body.toRequest(""))
}

func (h *Handler) recommend(rw *ResponseWriter, r *http.Request, req recommend.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	req.RequestID = logging.RequestIDFromContext(r.Context())
	resp, err := h.rec.Recommend(ctx, req)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(resp)
}

// UserStats handles GET /api/v1/users/{handle}/stats.
//
// @Summary Solve statistics for a known user
// @Tags Recommendations
// @Produce json
// @Param handle path string true "solved.ac handle"
// @Success 200 {object} APIResponse{data=recommend.UserStats} "User statistics"
// @Failure 404 {object} APIResponse "Unknown user"
// @Failure 503 {object} APIResponse "Model not ready"
// @Router /users/{handle}/stats [get]
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := UserStatsRequest{Handle: chi.URLParam(r, "handle")}
	if !validateRequest(rw, &params) {
		return
	}

	stats, err := h.rec.Stats(params.Handle)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(stats)
}

// Tags handles GET /api/v1/tags.
// Returns the tag classifier table used by tag-filtered recommendations.
//
// @Summary List the tag difficulty ranges
// @Tags Recommendations
// @Produce json
// @Success 200 {object} APIResponse{data=[]recommend.TagRange} "Tag ranges sorted by name"
// @Router /tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(recommend.KnownTags())
}
