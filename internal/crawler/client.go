// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/solvedrec/internal/metrics"
)

// Endpoint labels used in errors and metrics.
const (
	EndpointSearchProblem = "search_problem"
	EndpointRankingClass  = "ranking_class"
	EndpointSearchUser    = "search_user"
)

// maxBodyBytes bounds a single response body.
const maxBodyBytes = 8 << 20

// Config contains solved.ac client settings.
type Config struct {
	// BaseURL is the API origin. Default: https://solved.ac
	BaseURL string

	// RequestsPerSecond paces calls. Default: 2
	RequestsPerSecond float64

	// Burst is the limiter burst. Default: 1
	Burst int

	// Timeout bounds a single HTTP call. Default: 15s
	Timeout time.Duration

	// MaxRetries is the number of retries after HTTP 429. Default: 5
	MaxRetries int

	// RetryBaseDelay is the first 429 backoff; it doubles per attempt. Default: 1s
	RetryBaseDelay time.Duration

	// BreakerMinRequests is the request count before the breaker may trip. Default: 10
	BreakerMinRequests uint32

	// BreakerFailureRatio trips the breaker. Default: 0.6
	BreakerFailureRatio float64

	// BreakerTimeout is how long the breaker stays open. Default: 2m
	BreakerTimeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string
}

// DefaultConfig returns the production client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:             "https://solved.ac",
		RequestsPerSecond:   2,
		Burst:               1,
		Timeout:             15 * time.Second,
		MaxRetries:          5,
		RetryBaseDelay:      time.Second,
		BreakerMinRequests:  10,
		BreakerFailureRatio: 0.6,
		BreakerTimeout:      2 * time.Minute,
		UserAgent:           "solvedrec-crawler/1.0",
	}
}

// Client calls the solved.ac v3 API.
//
// Every call waits on a shared rate limiter, retries HTTP 429 with
// exponential backoff and runs through a circuit breaker. All failures are
// returned as *RequestError.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]byte]
	logger     zerolog.Logger
}

// NewClient creates a client. Zero fields in cfg take DefaultConfig values.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	cfg = withDefaults(cfg)

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	c := &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:     logger.With().Str("component", "crawler").Logger(),
	}
	c.cb = newBreaker("solvedac-api", cfg, c.logger)
	return c, nil
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = def.RetryBaseDelay
	}
	if cfg.BreakerMinRequests == 0 {
		cfg.BreakerMinRequests = def.BreakerMinRequests
	}
	if cfg.BreakerFailureRatio <= 0 {
		cfg.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = def.BreakerTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	return cfg
}

// newBreaker opens when the failure ratio reaches the threshold over at
// least BreakerMinRequests calls. Caller cancellation never counts as failure.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newBreaker(name string, cfg Config, logger zerolog.Logger) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.BreakerFailureRatio {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("opening circuit breaker")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// BreakerState returns the circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.cb.State()
}

// SearchProblems returns one page of problems. handle restricts the search
// to problems solved by that user; empty means all problems. An empty page
// returns ErrEndOfData.
func (c *Client) SearchProblems(ctx context.Context, handle string, page int) ([]Problem, error) {
	query := url.Values{"page": {strconv.Itoa(page)}, "query": {""}}
	if handle != "" {
		query.Set("query", "solved_by:"+handle)
	}

	var result ProblemPage
	if err := c.getJSON(ctx, EndpointSearchProblem, "/api/v3/search/problem", query, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, ErrEndOfData
	}
	return result.Items, nil
}

// RankingClass returns one page of the class ranking.
func (c *Client) RankingClass(ctx context.Context, page int) ([]User, error) {
	return c.users(ctx, EndpointRankingClass, "/api/v3/ranking/class", page)
}

// SearchUsers returns one page of the user search.
func (c *Client) SearchUsers(ctx context.Context, page int) ([]User, error) {
	return c.users(ctx, EndpointSearchUser, "/api/v3/search/user", page)
}

func (c *Client) users(ctx context.Context, endpoint, path string, page int) ([]User, error) {
	query := url.Values{"page": {strconv.Itoa(page)}, "query": {""}}

	var result RankingPage
	if err := c.getJSON(ctx, endpoint, path, query, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, ErrEndOfData
	}
	return result.Items, nil
}

// getJSON fetches path through the breaker and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.fetch(ctx, endpoint, path, query)
	})
	if err != nil {
		c.recordBreakerResult(err)
		var re *RequestError
		if errors.As(err, &re) {
			return err
		}
		return &RequestError{Endpoint: endpoint, Err: err}
	}
	c.recordBreakerResult(nil)

	if err := json.Unmarshal(body, out); err != nil {
		return &RequestError{Endpoint: endpoint, StatusCode: http.StatusOK, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) recordBreakerResult(err error) {
	name := c.cb.Name()
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
		c.logger.Warn().Err(err).Msg("request rejected by circuit breaker")
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(float64(c.cb.Counts().ConsecutiveFailures))
	}
}

// fetch performs one GET with 429 retries and returns the body of a 200.
//
// Backoff is RetryBaseDelay * 2^attempt unless the server sends Retry-After
// in seconds.
func (c *Client) fetch(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + query.Encode()

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &RequestError{Endpoint: endpoint, Err: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, &RequestError{Endpoint: endpoint, Err: fmt.Errorf("create request: %w", err)}
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.cfg.UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordCrawlerRequest(endpoint, 0)
			return nil, &RequestError{Endpoint: endpoint, Err: fmt.Errorf("execute request: %w", err)}
		}
		metrics.RecordCrawlerRequest(endpoint, resp.StatusCode)

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := resp.Header.Get("Retry-After")
			drainAndClose(resp.Body)

			if attempt >= c.cfg.MaxRetries {
				return nil, &RequestError{
					Endpoint:   endpoint,
					StatusCode: resp.StatusCode,
					Err:        fmt.Errorf("rate limit exceeded after %d retries", c.cfg.MaxRetries),
				}
			}

			delay := c.cfg.RetryBaseDelay * (1 << attempt)
			if seconds, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}

			metrics.CrawlerRetries.Inc()
			c.logger.Warn().
				Str("endpoint", endpoint).
				Dur("retry_delay", delay).
				Int("attempt", attempt+1).
				Int("max_retries", c.cfg.MaxRetries).
				Msg("solved.ac rate limited (HTTP 429), retrying")

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, &RequestError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: ctx.Err()}
			case <-timer.C:
			}
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close() //nolint:errcheck,gosec // body fully read

		if resp.StatusCode != http.StatusOK {
			return nil, &RequestError{
				Endpoint:   endpoint,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("unexpected status: %s", resp.Status),
			}
		}
		if err != nil {
			return nil, &RequestError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
		}
		return body, nil
	}
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBodyBytes)) //nolint:errcheck // best-effort drain
	body.Close()                                                  //nolint:errcheck,gosec // best-effort close
}
