// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package duel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/solvedrec/internal/metrics"
)

var (
	// ErrMatchNotFound is returned when no match fits the request.
	ErrMatchNotFound = errors.New("duel: match not found")

	// ErrAlreadyFinished is returned when a side finishes twice.
	ErrAlreadyFinished = errors.New("duel: already finished")

	// ErrSelfMatch is returned when a user would duel themselves.
	ErrSelfMatch = errors.New("duel: cannot join own match")

	// ErrInvalidRequest is returned for an empty user or non-positive problem.
	ErrInvalidRequest = errors.New("duel: invalid request")
)

// Match is a race between two users on one problem. Each side's time runs
// from the moment that side entered the match.
type Match struct {
	ID               string        `json:"id"`
	ProblemID        int           `json:"problem_id"`
	Host             string        `json:"host"`
	Opponent         string        `json:"opponent,omitempty"`
	HostStart        time.Time     `json:"host_start"`
	OpponentStart    time.Time     `json:"opponent_start"`
	HostTime         time.Duration `json:"host_time_ns,omitempty"`
	OpponentTime     time.Duration `json:"opponent_time_ns,omitempty"`
	HostFinished     bool          `json:"host_finished"`
	OpponentFinished bool          `json:"opponent_finished"`
}

// Open reports whether the match is waiting for an opponent.
func (m *Match) Open() bool {
	return m.Opponent == ""
}

// Done reports whether both sides have finished.
func (m *Match) Done() bool {
	return m.HostFinished && m.OpponentFinished
}

// Result is the outcome of a match.
type Result struct {
	// Decided is false until both sides have finished.
	Decided bool   `json:"decided"`
	Winner  string `json:"winner,omitempty"`
}

// Result returns the outcome. The host wins only when strictly faster.
func (m *Match) Result() Result {
	if !m.Done() {
		return Result{}
	}
	if m.HostTime < m.OpponentTime {
		return Result{Decided: true, Winner: m.Host}
	}
	return Result{Decided: true, Winner: m.Opponent}
}

// Manager pairs users into matches. It is safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	matches []*Match
	byID    map[string]*Match
	now     func() time.Time
	logger  zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an empty Manager.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewManager(logger zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		byID:   make(map[string]*Match),
		now:    time.Now,
		logger: logger.With().Str("component", "duel").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open joins user to the oldest open match on problemID hosted by someone
// else, or creates a new match hosted by user when there is none. A user
// already waiting on problemID gets ErrSelfMatch.
func (m *Manager) Open(user string, problemID int) (Match, error) {
	if user == "" || problemID <= 0 {
		return Match{}, fmt.Errorf("%w: user and positive problem_id are required", ErrInvalidRequest)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	waiting := false
	for _, match := range m.matches {
		if match.ProblemID != problemID || !match.Open() {
			continue
		}
		if match.Host == user {
			waiting = true
			continue
		}
		match.Opponent = user
		match.OpponentStart = m.now()
		m.logger.Info().Str("match_id", match.ID).Str("host", match.Host).Str("opponent", user).
			Int("problem_id", problemID).Msg("duel joined")
		return *match, nil
	}
	if waiting {
		return Match{}, ErrSelfMatch
	}

	match := &Match{
		ID:        uuid.NewString(),
		ProblemID: problemID,
		Host:      user,
		HostStart: m.now(),
	}
	m.matches = append(m.matches, match)
	m.byID[match.ID] = match
	metrics.DuelsActive.Inc()

	m.logger.Info().Str("match_id", match.ID).Str("host", user).Int("problem_id", problemID).Msg("duel opened")
	return *match, nil
}

// Get returns the match with the given ID.
func (m *Manager) Get(id string) (Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	match, ok := m.byID[id]
	if !ok {
		return Match{}, ErrMatchNotFound
	}
	return *match, nil
}

// Find returns every match user takes part in, oldest first.
func (m *Manager) Find(user string) []Match {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found []Match
	for _, match := range m.matches {
		if match.Host == user || (match.Opponent != "" && match.Opponent == user) {
			found = append(found, *match)
		}
	}
	return found
}

// Finish records user's time on the oldest match for problemID where
// their side is still running.
func (m *Manager) Finish(user string, problemID int) (Match, error) {
	if user == "" {
		return Match{}, ErrMatchNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	finished := false
	for _, match := range m.matches {
		if match.ProblemID != problemID {
			continue
		}
		switch {
		case match.Host == user && !match.HostFinished,
			match.Opponent == user && !match.OpponentFinished:
			return m.finishLocked(match, user)
		case match.Host == user, match.Opponent == user:
			finished = true
		}
	}
	if finished {
		return Match{}, ErrAlreadyFinished
	}
	return Match{}, ErrMatchNotFound
}

// FinishMatch records user's time on the match with the given ID.
func (m *Manager) FinishMatch(id, user string) (Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	match, ok := m.byID[id]
	if !ok || (match.Host != user && match.Opponent != user) || user == "" {
		return Match{}, ErrMatchNotFound
	}
	return m.finishLocked(match, user)
}

func (m *Manager) finishLocked(match *Match, user string) (Match, error) {
	now := m.now()
	switch user {
	case match.Host:
		if match.HostFinished {
			return Match{}, ErrAlreadyFinished
		}
		match.HostTime = now.Sub(match.HostStart)
		match.HostFinished = true
	default:
		if match.OpponentFinished {
			return Match{}, ErrAlreadyFinished
		}
		match.OpponentTime = now.Sub(match.OpponentStart)
		match.OpponentFinished = true
	}

	if match.Done() {
		metrics.DuelsActive.Dec()
		metrics.DuelsCompleted.Inc()
		m.logger.Info().Str("match_id", match.ID).Str("winner", match.Result().Winner).Msg("duel completed")
	}
	return *match, nil
}

// Prune drops completed matches whose host started before cutoff and
// returns how many were removed.
func (m *Manager) Prune(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.matches[:0]
	removed := 0
	for _, match := range m.matches {
		if match.Done() && match.HostStart.Before(cutoff) {
			delete(m.byID, match.ID)
			removed++
			continue
		}
		kept = append(kept, match)
	}
	clear(m.matches[len(kept):])
	m.matches = kept
	return removed
}
