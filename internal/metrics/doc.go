// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Training Metrics:
  - recommend_training_duration_seconds: Training run duration (histogram)
  - recommend_training_runs_total: Runs by result (success, failure, skipped)
  - recommend_training_errors_total: Failures by error_type
  - recommend_model_users, recommend_model_problems, recommend_model_version
  - recommend_model_last_trained_timestamp

Recommendation Metrics:
  - recommend_requests_total: Requests by mode and source
    (collaborative, popularity, error)
  - recommend_latency_seconds: Latency by mode (histogram)
  - recommend_cache_hits_total, recommend_cache_misses_total

Snapshot Metrics:
  - recommend_snapshot_operations_total: Labels operation, result
  - recommend_snapshot_size_bytes

Crawler Metrics:
  - crawler_requests_total: solved.ac calls by endpoint and status_code
  - crawler_rate_limit_retries_total
  - crawler_records_total

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_consecutive_failures
  - circuit_breaker_state_transitions_total

# Example Alerts

	groups:
	  - name: solvedrec
	    rules:
	      - alert: ModelTrainingFailing
	        expr: increase(recommend_training_runs_total{result="failure"}[1h]) > 3
	      - alert: CircuitBreakerOpen
	        expr: circuit_breaker_state == 2
	        for: 5m
*/
package metrics
