// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewSupervisorTree(t *testing.T) {
	t.Run("applies defaults for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("NewSupervisorTree: %v", err)
		}
		if tree.Root() == nil {
			t.Fatal("root supervisor is nil")
		}
		if tree.config != DefaultTreeConfig() {
			t.Errorf("config = %+v, want %+v", tree.config, DefaultTreeConfig())
		}
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{FailureThreshold: 2, FailureBackoff: time.Second})
		if err != nil {
			t.Fatalf("NewSupervisorTree: %v", err)
		}
		if tree.config.FailureThreshold != 2 {
			t.Errorf("FailureThreshold = %v, want 2", tree.config.FailureThreshold)
		}
		if tree.config.FailureBackoff != time.Second {
			t.Errorf("FailureBackoff = %v, want 1s", tree.config.FailureBackoff)
		}
	})
}

func TestSupervisorTreeStartsEveryLayer(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}

	data := newMockService("trainer", 0)
	maintenance := newMockService("duel-pruner", 0)
	api := newMockService("http", 0)
	tree.AddDataService(data)
	tree.AddMaintenanceService(maintenance)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if data.startCount.Load() > 0 && maintenance.startCount.Load() > 0 && api.startCount.Load() > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	for _, svc := range []*mockService{data, maintenance, api} {
		if svc.startCount.Load() < 1 {
			t.Errorf("%s was not started", svc.name)
		}
	}
}

func TestSupervisorTreeRestartsFailingService(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}

	failing := newMockService("trainer", 2)
	stable := newMockService("http", 0)
	tree.AddDataService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && failing.startCount.Load() < 3 {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-errCh

	if got := failing.startCount.Load(); got < 3 {
		t.Errorf("failing service started %d times, want at least 3", got)
	}
	if stable.startCount.Load() != 1 {
		t.Errorf("stable service started %d times, want 1", stable.startCount.Load())
	}
}
