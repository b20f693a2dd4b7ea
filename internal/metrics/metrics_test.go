// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{"successful GET", "GET", "/api/v1/recommendations/user/{handle}", "200", 2 * time.Millisecond},
		{"not found", "GET", "/api/v1/users/{handle}/stats", "404", time.Millisecond},
		{"service unavailable", "POST", "/api/v1/recommendations", "503", 500 * time.Microsecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
			after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			if after-before != 1 {
				t.Errorf("api_requests_total delta = %v, want 1", after-before)
			}
		})
	}
}

// TestTrackActiveRequest tests the active request gauge under concurrency
func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordTraining(t *testing.T) {
	tests := []struct {
		name      string
		errorType string
		result    string
	}{
		{"success", "", "success"},
		{"data error", "data", "failure"},
		{"timeout", "timeout", "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(TrainingRuns.WithLabelValues(tt.result))
			RecordTraining(10*time.Millisecond, tt.errorType)
			if got := testutil.ToFloat64(TrainingRuns.WithLabelValues(tt.result)) - before; got != 1 {
				t.Errorf("training runs[%s] delta = %v, want 1", tt.result, got)
			}
		})
	}

	before := testutil.ToFloat64(TrainingRuns.WithLabelValues("skipped"))
	RecordTrainingSkipped()
	if got := testutil.ToFloat64(TrainingRuns.WithLabelValues("skipped")) - before; got != 1 {
		t.Errorf("skipped delta = %v, want 1", got)
	}
}

func TestUpdateModelGauges(t *testing.T) {
	trainedAt := time.Unix(1_700_000_000, 0)
	UpdateModelGauges(20, 100, 3, trainedAt)

	if got := testutil.ToFloat64(ModelUsers); got != 20 {
		t.Errorf("ModelUsers = %v, want 20", got)
	}
	if got := testutil.ToFloat64(ModelProblems); got != 100 {
		t.Errorf("ModelProblems = %v, want 100", got)
	}
	if got := testutil.ToFloat64(ModelVersion); got != 3 {
		t.Errorf("ModelVersion = %v, want 3", got)
	}
	if got := testutil.ToFloat64(ModelLastTrained); got != 1_700_000_000 {
		t.Errorf("ModelLastTrained = %v", got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	hitsBefore := testutil.ToFloat64(RecommendationCacheHits)
	missesBefore := testutil.ToFloat64(RecommendationCacheMisses)
	reqBefore := testutil.ToFloat64(RecommendationRequests.WithLabelValues("new_user", "popularity"))

	RecordRecommendation("new_user", "popularity", time.Millisecond, false)
	RecordRecommendation("existing_user", "collaborative", time.Millisecond, true)

	if got := testutil.ToFloat64(RecommendationCacheHits) - hitsBefore; got != 1 {
		t.Errorf("cache hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(RecommendationCacheMisses) - missesBefore; got != 1 {
		t.Errorf("cache misses delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(RecommendationRequests.WithLabelValues("new_user", "popularity")) - reqBefore; got != 1 {
		t.Errorf("requests delta = %v, want 1", got)
	}

	errBefore := testutil.ToFloat64(RecommendationRequests.WithLabelValues("existing_user", "error"))
	RecordRecommendationError("existing_user")
	if got := testutil.ToFloat64(RecommendationRequests.WithLabelValues("existing_user", "error")) - errBefore; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}

func TestRecordSnapshot(t *testing.T) {
	RecordSnapshot("save", 4096, nil)
	if got := testutil.ToFloat64(SnapshotSize); got != 4096 {
		t.Errorf("SnapshotSize = %v, want 4096", got)
	}

	before := testutil.ToFloat64(SnapshotOperations.WithLabelValues("load", "failure"))
	RecordSnapshot("load", 0, errTest)
	if got := testutil.ToFloat64(SnapshotOperations.WithLabelValues("load", "failure")) - before; got != 1 {
		t.Errorf("load failure delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SnapshotSize); got != 4096 {
		t.Errorf("SnapshotSize changed on failed load: %v", got)
	}
}

func TestRecordCrawlerRequest(t *testing.T) {
	before := testutil.ToFloat64(CrawlerRequests.WithLabelValues("search_problem", "429"))
	RecordCrawlerRequest("search_problem", 429)
	if got := testutil.ToFloat64(CrawlerRequests.WithLabelValues("search_problem", "429")) - before; got != 1 {
		t.Errorf("crawler requests delta = %v, want 1", got)
	}
}

// TestCircuitBreakerMetrics tests circuit breaker metric recording
func TestCircuitBreakerMetrics(t *testing.T) {
	cbName := "test-breaker"

	CircuitBreakerState.WithLabelValues(cbName).Set(2) // open
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues(cbName)); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}

	CircuitBreakerTransitions.WithLabelValues(cbName, "closed", "open").Inc()
	if got := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues(cbName, "closed", "open")); got != 1 {
		t.Errorf("transitions = %v, want 1", got)
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")
