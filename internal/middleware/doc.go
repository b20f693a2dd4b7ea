// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

/*
Package middleware provides chi-compatible HTTP middleware for request
tracking, access logging and Prometheus instrumentation.

Key Components:

  - RequestID: X-Request-ID propagation plus a per-request correlation ID
  - AccessLog: one zerolog line per request, level chosen by status class
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by
    chi route pattern

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.PrometheusMetrics)

CORS, rate limiting, panic recovery and compression come from go-chi
packages and are wired in internal/api.
*/
package middleware
