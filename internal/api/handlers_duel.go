// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/solvedrec/internal/duel"
)

// DuelView is a match together with its current result.
type DuelView struct {
	duel.Match
	Result duel.Result `json:"result"`
}

func newDuelView(m duel.Match) DuelView {
	return DuelView{Match: m, Result: m.Result()}
}

// duelsAvailable writes a 503 when no duel manager is configured.
func (h *Handler) duelsAvailable(rw *ResponseWriter) bool {
	if h.duels == nil {
		rw.ServiceUnavailable(ErrCodeServiceUnavailable, "duels are not available")
		return false
	}
	return true
}

// OpenDuel handles POST /api/v1/duels.
// Joins the oldest open match on the problem or opens a new one.
//
// @Summary Open or join a duel
// @Tags Duels
// @Accept json
// @Produce json
// @Param request body OpenDuelRequest true "Duel request"
// @Success 201 {object} APIResponse{data=DuelView} "Match opened or joined"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 409 {object} APIResponse "User would duel themselves"
// @Failure 503 {object} APIResponse "Duels are not available"
// @Router /duels [post]
func (h *Handler) OpenDuel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.duelsAvailable(rw) {
		return
	}

	var body OpenDuelRequest
	if err := h.decodeJSON(w, r, &body); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validateRequest(rw, &body) {
		return
	}

	match, err := h.duels.Open(body.User, body.ProblemID)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Created(newDuelView(match))
}

// GetDuel handles GET /api/v1/duels/{id}.
//
// @Summary Get a duel with its result
// @Tags Duels
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} APIResponse{data=DuelView} "Match"
// @Failure 404 {object} APIResponse "Match not found"
// @Router /duels/{id} [get]
func (h *Handler) GetDuel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.duelsAvailable(rw) {
		return
	}

	match, err := h.duels.Get(chi.URLParam(r, "id"))
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(newDuelView(match))
}

// FinishDuel handles POST /api/v1/duels/{id}/finish.
// Records the caller's elapsed time; the result is decided once both sides finish.
//
// @Summary Finish a duel
// @Tags Duels
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param request body FinishDuelRequest true "Finishing user"
// @Success 200 {object} APIResponse{data=DuelView} "Match"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 404 {object} APIResponse "Match not found"
// @Failure 409 {object} APIResponse "Side already finished"
// @Router /duels/{id}/finish [post]
func (h *Handler) FinishDuel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.duelsAvailable(rw) {
		return
	}

	var body FinishDuelRequest
	if err := h.decodeJSON(w, r, &body); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validateRequest(rw, &body) {
		return
	}

	match, err := h.duels.FinishMatch(chi.URLParam(r, "id"), body.User)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(newDuelView(match))
}

// ListDuels handles GET /api/v1/duels?user=
//
// @Summary List a user's duels
// @Tags Duels
// @Produce json
// @Param user query string true "solved.ac handle"
// @Success 200 {object} APIResponse{data=[]DuelView} "Matches"
// @Failure 400 {object} APIResponse "Invalid handle"
// @Failure 503 {object} APIResponse "Duels are not available"
// @Router /duels [get]
func (h *Handler) ListDuels(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.duelsAvailable(rw) {
		return
	}

	params := DuelQuery{User: r.URL.Query().Get("user")}
	if !validateRequest(rw, &params) {
		return
	}

	matches := h.duels.Find(params.User)
	views := make([]DuelView, 0, len(matches))
	for _, m := range matches {
		views = append(views, newDuelView(m))
	}
	rw.Success(views)
}
