// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

// Package logging provides centralized zerolog-based logging for Solvedrec.
//
// It offers:
//
//   - JSON output for production, console output for development
//   - Context-aware logging with request and correlation ID propagation
//   - An slog.Handler adapter for libraries that require log/slog
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Ctx(ctx).Info().Str("handle", h).Msg("Recommendation served")
//
// Components take a zerolog.Logger by value and derive their own child:
//
//	logger := logging.WithComponent("trainer")
//	handle, err := recommend.NewHandle(cfg, logger)
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
