// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/solvedrec/internal/logging"
)

// AccessLog logs one line per request and stores the component logger in
// the context, so handlers can use logging.Ctx(r.Context()).
// Must run after RequestID.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func AccessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	base := logger.With().Str("component", "http").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := base.With().
				Str("request_id", logging.RequestIDFromContext(r.Context())).
				Str("correlation_id", logging.CorrelationIDFromContext(r.Context())).
				Logger()

			ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r.WithContext(logging.ContextWithLogger(r.Context(), base)))

			event := reqLogger.Info()
			switch {
			case ww.statusCode >= http.StatusInternalServerError:
				event = reqLogger.Error()
			case ww.statusCode >= http.StatusBadRequest:
				event = reqLogger.Warn()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", ww.statusCode).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("request completed")
		})
	}
}
