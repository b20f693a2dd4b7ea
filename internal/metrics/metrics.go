// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for:
// - API endpoint latency and throughput
// - Model training and snapshots
// - Recommendation serving paths
// - solved.ac crawling and its circuit breaker

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Training Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
		},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_training_runs_total",
			Help: "Total number of training runs",
		},
		[]string{"result"}, // "success", "failure", "skipped"
	)

	TrainingErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_training_errors_total",
			Help: "Total number of training failures by category",
		},
		[]string{"error_type"}, // "data", "timeout", "canceled", "other"
	)

	ModelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_users",
			Help: "Number of users in the serving model",
		},
	)

	ModelProblems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_problems",
			Help: "Number of distinct problems in the serving model",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_version",
			Help: "Version of the serving model",
		},
	)

	ModelLastTrained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_last_trained_timestamp",
			Help: "Unix timestamp of the serving model's training",
		},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"mode", "source"}, // mode: existing_user, new_user, ..., invalid; source: collaborative, popularity, error
	)

	RecommendationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_latency_seconds",
			Help:    "Recommendation latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"mode"},
	)

	RecommendationCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	RecommendationCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// Snapshot Metrics
	SnapshotOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_snapshot_operations_total",
			Help: "Total number of model snapshot operations",
		},
		[]string{"operation", "result"}, // operation: "save", "load"; result: "success", "failure"
	)

	SnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_size_bytes",
			Help: "Size of the most recently saved snapshot in bytes",
		},
	)

	// Crawler Metrics
	CrawlerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_requests_total",
			Help: "Total number of solved.ac API requests",
		},
		[]string{"endpoint", "status_code"},
	)

	CrawlerRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_rate_limit_retries_total",
			Help: "Total number of retries after HTTP 429",
		},
	)

	CrawlerRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_records_total",
			Help: "Total number of solve records crawled",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Duel Metrics
	DuelsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duels_active",
			Help: "Current number of unfinished duels",
		},
	)

	DuelsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duels_completed_total",
			Help: "Total number of duels where both sides finished",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTraining records one training run. An empty errorType means success;
// otherwise it labels the failure ("data", "timeout", "canceled", "other").
func RecordTraining(duration time.Duration, errorType string) {
	TrainingDuration.Observe(duration.Seconds())
	if errorType == "" {
		TrainingRuns.WithLabelValues("success").Inc()
		return
	}
	TrainingRuns.WithLabelValues("failure").Inc()
	TrainingErrors.WithLabelValues(errorType).Inc()
}

// RecordTrainingSkipped records a run skipped because another was in progress.
func RecordTrainingSkipped() {
	TrainingRuns.WithLabelValues("skipped").Inc()
}

// UpdateModelGauges publishes the serving model's shape.
func UpdateModelGauges(users, problems, version int, trainedAt time.Time) {
	ModelUsers.Set(float64(users))
	ModelProblems.Set(float64(problems))
	ModelVersion.Set(float64(version))
	ModelLastTrained.Set(float64(trainedAt.Unix()))
}

// RecordRecommendation records a served recommendation request.
func RecordRecommendation(mode, source string, duration time.Duration, cacheHit bool) {
	RecommendationRequests.WithLabelValues(mode, source).Inc()
	RecommendationLatency.WithLabelValues(mode).Observe(duration.Seconds())
	if cacheHit {
		RecommendationCacheHits.Inc()
	} else {
		RecommendationCacheMisses.Inc()
	}
}

// RecordRecommendationError records a failed recommendation request.
func RecordRecommendationError(mode string) {
	RecommendationRequests.WithLabelValues(mode, "error").Inc()
}

// RecordSnapshot records a snapshot save or load.
func RecordSnapshot(operation string, sizeBytes int64, err error) {
	if err != nil {
		SnapshotOperations.WithLabelValues(operation, "failure").Inc()
		return
	}
	SnapshotOperations.WithLabelValues(operation, "success").Inc()
	if operation == "save" {
		SnapshotSize.Set(float64(sizeBytes))
	}
}

// RecordCrawlerRequest records one solved.ac API call. Status 0 means the
// request never produced a response.
func RecordCrawlerRequest(endpoint string, status int) {
	CrawlerRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}
