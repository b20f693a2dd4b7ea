// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/solvedrec/internal/recommend"
)

// ModelStatus is the payload of GET /api/v1/model/status.
type ModelStatus struct {
	Training recommend.TrainingStatus `json:"training"`
	Counters recommend.Metrics        `json:"counters"`
}

// ModelStatusHandler handles GET /api/v1/model/status.
//
// @Summary Training status and handle counters
// @Tags Model
// @Produce json
// @Success 200 {object} APIResponse{data=ModelStatus} "Model status"
// @Router /model/status [get]
func (h *Handler) ModelStatusHandler(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(ModelStatus{
		Training: h.rec.Status(),
		Counters: h.rec.Metrics(),
	})
}

// TrainModel handles POST /api/v1/model/train.
// Training runs asynchronously in the trainer service; poll
// /api/v1/model/status for the outcome.
//
// @Summary Trigger retraining
// @Description Queues an asynchronous training run. Poll /model/status for the outcome.
// @Tags Model
// @Produce json
// @Success 202 {object} APIResponse "Training queued"
// @Failure 409 {object} APIResponse "A run is already queued"
// @Failure 503 {object} APIResponse "Training is not available"
// @Router /model/train [post]
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.trainer == nil {
		rw.ServiceUnavailable(ErrCodeServiceUnavailable, "training is not available")
		return
	}
	if !h.trainer.Trigger() {
		rw.Error(http.StatusConflict, ErrCodeTrainingInProgress, "a training run is already queued")
		return
	}
	rw.Accepted(map[string]bool{"queued": true})
}

// SaveSnapshot handles POST /api/v1/model/snapshot.
//
// @Summary Save a snapshot of the serving model
// @Tags Model
// @Produce json
// @Success 201 {object} APIResponse{data=storage.Metadata} "Snapshot saved"
// @Failure 500 {object} APIResponse "No snapshot store or write failure"
// @Failure 503 {object} APIResponse "Model not ready"
// @Router /model/snapshot [post]
func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	meta, err := h.rec.SaveSnapshot(ctx)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Created(meta)
}
