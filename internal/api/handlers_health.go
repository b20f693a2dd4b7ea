// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the payload of the health endpoints.
type HealthStatus struct {
	Status        string  `json:"status"`
	ModelReady    bool    `json:"model_ready"`
	ModelVersion  int     `json:"model_version,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// HealthLive handles GET /api/v1/health/live.
// The process is alive whenever it can answer.
//
// @Summary Liveness probe
// @Description Returns 200 whenever the process can answer.
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthStatus{
		Status:        "alive",
		ModelReady:    h.rec.Ready(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready.
// Answers 503 until the first model is published.
//
// @Summary Readiness probe
// @Description Returns 503 until the first model is published.
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Model is serving"
// @Failure 503 {object} APIResponse "Model not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.rec.Ready() {
		rw.ServiceUnavailable(ErrCodeModelNotReady, "model not trained yet")
		return
	}
	rw.Success(HealthStatus{
		Status:        "ready",
		ModelReady:    true,
		ModelVersion:  h.rec.Status().ModelVersion,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}
