// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	_ "github.com/tomtom215/solvedrec/docs"
	"github.com/tomtom215/solvedrec/internal/duel"
	"github.com/tomtom215/solvedrec/internal/recommend"
	"github.com/tomtom215/solvedrec/internal/recommend/storage"
)

// envelope mirrors APIResponse with raw data for typed decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

type fakeTrigger struct {
	accept atomic.Bool
	calls  atomic.Int32
}

func (f *fakeTrigger) Trigger() bool {
	f.calls.Add(1)
	return f.accept.Load()
}

func scenarioEntries() []recommend.RatingEntry {
	return []recommend.RatingEntry{
		{Handle: "u1", ProblemID: 1000, Difficulty: 10},
		{Handle: "u1", ProblemID: 1001, Difficulty: 20},
		{Handle: "u2", ProblemID: 1000, Difficulty: 10},
		{Handle: "u2", ProblemID: 1002, Difficulty: 30},
	}
}

type testServer struct {
	handle  *recommend.Handle
	trigger *fakeTrigger
	duels   *duel.Manager
	router  http.Handler
}

func newTestServer(t *testing.T, trained bool) *testServer {
	t.Helper()

	handle, err := recommend.NewHandle(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHandle: %v", err)
	}
	t.Cleanup(func() { _ = handle.Close() })

	if trained {
		if err := handle.TrainEntries(context.Background(), scenarioEntries()); err != nil {
			t.Fatalf("TrainEntries: %v", err)
		}
	}

	ts := &testServer{
		handle:  handle,
		trigger: &fakeTrigger{},
		duels:   duel.NewManager(zerolog.Nop()),
	}
	ts.trigger.accept.Store(true)

	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"https://example.com"},
		RateLimitDisabled:  true,
	})
	h := NewHandler(handle, ts.trigger, ts.duels, HandlerConfig{RequestTimeout: 5 * time.Second})
	ts.router = NewRouter(h, mw, zerolog.Nop()).Setup()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}

func TestHealth(t *testing.T) {
	untrained := newTestServer(t, false)
	trained := newTestServer(t, true)

	tests := []struct {
		name       string
		server     *testServer
		path       string
		wantStatus int
		wantCode   string
	}{
		{"live before training", untrained, "/api/v1/health/live", http.StatusOK, ""},
		{"ready before training", untrained, "/api/v1/health/ready", http.StatusServiceUnavailable, ErrCodeModelNotReady},
		{"ready after training", trained, "/api/v1/health/ready", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := tt.server.do(t, http.MethodGet, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" && (env.Error == nil || env.Error.Code != tt.wantCode) {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
			if env.Meta == nil || env.Meta.RequestID == "" {
				t.Error("meta.request_id missing")
			}
		})
	}
}

func TestUserRecommendations(t *testing.T) {
	ts := newTestServer(t, true)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
		wantFirst  int
		wantMode   string
	}{
		{"existing user", "/api/v1/recommendations/user/u1?n=5", http.StatusOK, "", 1002, "existing_user"},
		{"existing user by tag", "/api/v1/recommendations/user/u1?tag=dynamic_programming", http.StatusOK, "", 1002, "existing_user_by_tag"},
		{"unknown user", "/api/v1/recommendations/user/ghost", http.StatusNotFound, ErrCodeUnknownUser, 0, ""},
		{"invalid handle", "/api/v1/recommendations/user/bad-handle!", http.StatusBadRequest, ErrCodeValidationFailed, 0, ""},
		{"non-numeric n", "/api/v1/recommendations/user/u1?n=ten", http.StatusBadRequest, ErrCodeBadRequest, 0, ""},
		{"n out of range", "/api/v1/recommendations/user/u1?n=5000", http.StatusBadRequest, ErrCodeValidationFailed, 0, ""},
		{"tag with spaces", "/api/v1/recommendations/user/u1?tag=dynamic%20programming", http.StatusOK, "", 1002, "existing_user_by_tag"},
		{"malformed tag", "/api/v1/recommendations/user/u1?tag=dp%2Fgreedy", http.StatusBadRequest, ErrCodeValidationFailed, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.do(t, http.MethodGet, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Success || env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
				}
				return
			}

			var resp recommend.Response
			decodeData(t, env, &resp)
			if len(resp.Items) == 0 || resp.Items[0].ProblemID != tt.wantFirst {
				t.Errorf("items = %+v, want first %d", resp.Items, tt.wantFirst)
			}
			if resp.Metadata.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", resp.Metadata.Mode, tt.wantMode)
			}
			if resp.Metadata.RequestID != rec.Header().Get("X-Request-ID") {
				t.Errorf("request id %q does not match header %q", resp.Metadata.RequestID, rec.Header().Get("X-Request-ID"))
			}
		})
	}
}

func TestUserRecommendations_Untrained(t *testing.T) {
	ts := newTestServer(t, false)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/recommendations/user/u1", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeModelNotReady {
		t.Errorf("error = %+v, want %s", env.Error, ErrCodeModelNotReady)
	}
}

func TestRecommendations(t *testing.T) {
	ts := newTestServer(t, true)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantMode   string
		wantSource recommend.Source
	}{
		{
			name:       "cold start",
			body:       `{"solved":[{"problem_id":1000,"difficulty":10}],"n":3}`,
			wantStatus: http.StatusOK,
			wantMode:   "new_user",
			wantSource: recommend.SourceCollaborative,
		},
		{
			name:       "cold start with duplicate keeps first",
			body:       `{"solved":[{"problem_id":1000,"difficulty":10},{"problem_id":1000,"difficulty":0}]}`,
			wantStatus: http.StatusOK,
			wantMode:   "new_user",
			wantSource: recommend.SourceCollaborative,
		},
		{
			name:       "empty history falls back to popularity",
			body:       `{"handle":"newbie","solved":[]}`,
			wantStatus: http.StatusOK,
			wantMode:   "new_user",
			wantSource: recommend.SourcePopularity,
		},
		{
			name:       "known handle",
			body:       `{"handle":"u2","tag":"dp"}`,
			wantStatus: http.StatusOK,
			wantMode:   "existing_user_by_tag",
			wantSource: recommend.SourceCollaborative,
		},
		{
			name:       "unknown handle without history",
			body:       `{"handle":"ghost"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   ErrCodeUnknownUser,
		},
		{
			name:       "neither handle nor history",
			body:       `{"n":5}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name:       "difficulty out of range",
			body:       `{"solved":[{"problem_id":1000,"difficulty":31}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "unknown field",
			body:       `{"handle":"u1","k":5}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"handle":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.do(t, http.MethodPost, "/api/v1/recommendations", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
				}
				return
			}

			var resp recommend.Response
			decodeData(t, env, &resp)
			if resp.Metadata.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", resp.Metadata.Mode, tt.wantMode)
			}
			if resp.Source != tt.wantSource {
				t.Errorf("source = %s, want %s", resp.Source, tt.wantSource)
			}
		})
	}
}

func TestRecommendations_EmptyBody(t *testing.T) {
	ts := newTestServer(t, true)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/recommendations", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || !strings.Contains(env.Error.Message, "body is required") {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestUserStats(t *testing.T) {
	ts := newTestServer(t, true)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/users/u1/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats recommend.UserStats
	decodeData(t, env, &stats)
	if stats.Handle != "u1" || stats.TotalSolved != 2 || stats.MaxDifficulty != 20 {
		t.Errorf("stats = %+v", stats)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/users/ghost/stats", "")
	if rec.Code != http.StatusNotFound || env.Error.Code != ErrCodeUnknownUser {
		t.Errorf("unknown user: status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestTags(t *testing.T) {
	ts := newTestServer(t, false)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/tags", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var tags []recommend.TagRange
	decodeData(t, env, &tags)
	if len(tags) != len(recommend.KnownTags()) {
		t.Fatalf("got %d tags, want %d", len(tags), len(recommend.KnownTags()))
	}
	for i := 1; i < len(tags); i++ {
		if tags[i-1].Tag >= tags[i].Tag {
			t.Errorf("tags not sorted: %s before %s", tags[i-1].Tag, tags[i].Tag)
		}
	}
}

func TestModelEndpoints(t *testing.T) {
	ts := newTestServer(t, true)

	t.Run("status", func(t *testing.T) {
		rec, env := ts.do(t, http.MethodGet, "/api/v1/model/status", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var status ModelStatus
		decodeData(t, env, &status)
		if status.Training.State != "trained" || status.Training.UserCount != 2 || status.Training.ModelVersion != 1 {
			t.Errorf("training = %+v", status.Training)
		}
		if status.Counters.TrainingCount != 1 {
			t.Errorf("counters = %+v", status.Counters)
		}
	})

	t.Run("train accepted", func(t *testing.T) {
		ts.trigger.accept.Store(true)
		rec, _ := ts.do(t, http.MethodPost, "/api/v1/model/train", "")
		if rec.Code != http.StatusAccepted {
			t.Errorf("status = %d, want 202", rec.Code)
		}
	})

	t.Run("train already queued", func(t *testing.T) {
		ts.trigger.accept.Store(false)
		rec, env := ts.do(t, http.MethodPost, "/api/v1/model/train", "")
		if rec.Code != http.StatusConflict || env.Error.Code != ErrCodeTrainingInProgress {
			t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
		}
	})

	t.Run("snapshot without store", func(t *testing.T) {
		rec, env := ts.do(t, http.MethodPost, "/api/v1/model/snapshot", "")
		if rec.Code != http.StatusInternalServerError || env.Error.Code != ErrCodeSnapshotFailed {
			t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
		}
	})

	t.Run("snapshot with store", func(t *testing.T) {
		store, err := storage.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileStore: %v", err)
		}
		defer store.Close()
		ts.handle.SetSnapshotStore(store)

		rec, env := ts.do(t, http.MethodPost, "/api/v1/model/snapshot", "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		var meta storage.Metadata
		decodeData(t, env, &meta)
		if meta.Version != 1 {
			t.Errorf("meta.Version = %d, want 1", meta.Version)
		}
	})
}

func TestModelTrain_NoTrainer(t *testing.T) {
	handle, err := recommend.NewHandle(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHandle: %v", err)
	}
	router := NewRouter(NewHandler(handle, nil, nil, HandlerConfig{}), nil, zerolog.Nop()).Setup()

	for _, path := range []string{"/api/v1/model/train", "/api/v1/duels"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`)))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("POST %s status = %d, want 503", path, rec.Code)
		}
	}
}

func TestDuelFlow(t *testing.T) {
	ts := newTestServer(t, false)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/duels", `{"user":"alice","problem_id":1000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open: status = %d: %s", rec.Code, rec.Body.String())
	}
	var opened DuelView
	decodeData(t, env, &opened)
	if opened.ID == "" || opened.Host != "alice" || opened.Opponent != "" {
		t.Fatalf("opened = %+v", opened)
	}

	rec, env = ts.do(t, http.MethodPost, "/api/v1/duels", `{"user":"alice","problem_id":1000}`)
	if rec.Code != http.StatusConflict || env.Error.Code != ErrCodeSelfMatch {
		t.Errorf("self join: status = %d, error = %+v", rec.Code, env.Error)
	}

	rec, env = ts.do(t, http.MethodPost, "/api/v1/duels", `{"user":"bob","problem_id":1000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("join: status = %d", rec.Code)
	}
	var joined DuelView
	decodeData(t, env, &joined)
	if joined.ID != opened.ID || joined.Opponent != "bob" {
		t.Fatalf("joined = %+v, want match %s with opponent bob", joined, opened.ID)
	}

	for _, user := range []string{"bob", "alice"} {
		rec, _ = ts.do(t, http.MethodPost, "/api/v1/duels/"+opened.ID+"/finish", `{"user":"`+user+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("finish %s: status = %d: %s", user, rec.Code, rec.Body.String())
		}
	}

	rec, env = ts.do(t, http.MethodPost, "/api/v1/duels/"+opened.ID+"/finish", `{"user":"alice"}`)
	if rec.Code != http.StatusConflict || env.Error.Code != ErrCodeMatchFinished {
		t.Errorf("finish twice: status = %d, error = %+v", rec.Code, env.Error)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/duels/"+opened.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rec.Code)
	}
	var done DuelView
	decodeData(t, env, &done)
	if !done.Result.Decided || done.Result.Winner == "" {
		t.Errorf("result = %+v, want decided", done.Result)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/duels?user=bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var list []DuelView
	decodeData(t, env, &list)
	if len(list) != 1 || list[0].ID != opened.ID {
		t.Errorf("list = %+v", list)
	}
}

func TestDuelErrors(t *testing.T) {
	ts := newTestServer(t, false)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"missing match", http.MethodGet, "/api/v1/duels/nope", "", http.StatusNotFound, ErrCodeMatchNotFound},
		{"finish missing match", http.MethodPost, "/api/v1/duels/nope/finish", `{"user":"alice"}`, http.StatusNotFound, ErrCodeMatchNotFound},
		{"open without problem", http.MethodPost, "/api/v1/duels", `{"user":"alice"}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"list without user", http.MethodGet, "/api/v1/duels", "", http.StatusBadRequest, ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
			}
		})
	}
}

// TestSwaggerDoc checks that every /api/v1 route has an operation in the
// served OpenAPI document.
func TestSwaggerDoc(t *testing.T) {
	ts := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not valid JSON: %v", err)
	}
	if doc.BasePath != "/api/v1" {
		t.Errorf("basePath = %q, want /api/v1", doc.BasePath)
	}

	routes, ok := ts.router.(chi.Routes)
	if !ok {
		t.Fatalf("router is %T, want chi.Routes", ts.router)
	}
	walked := 0
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		path, found := strings.CutPrefix(route, doc.BasePath)
		if !found {
			return nil
		}
		walked++
		if path != "/" {
			path = strings.TrimSuffix(path, "/")
		}
		if _, ok := doc.Paths[path][strings.ToLower(method)]; !ok {
			t.Errorf("%s %s is not documented", method, route)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("chi.Walk: %v", err)
	}
	if walked != 13 {
		t.Errorf("walked %d api routes, want 13", walked)
	}
}

func TestRouting(t *testing.T) {
	ts := newTestServer(t, false)

	t.Run("not found uses envelope", func(t *testing.T) {
		rec, env := ts.do(t, http.MethodGet, "/api/v1/nothing-here", "")
		if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
			t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec, _ := ts.do(t, http.MethodDelete, "/api/v1/tags", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ts.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
			t.Errorf("metrics status = %d", rec.Code)
		}
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/tags", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		ts.router.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
	})
}

func TestRateLimit(t *testing.T) {
	handle, err := recommend.NewHandle(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHandle: %v", err)
	}
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitRequests: 2, RateLimitWindow: time.Minute})
	router := NewRouter(NewHandler(handle, nil, nil, HandlerConfig{}), mw, zerolog.Nop()).Setup()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	// Health probes are never limited.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}
