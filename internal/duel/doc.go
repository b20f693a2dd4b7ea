// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

// Package duel pairs two users racing on the same problem.
//
// The first user to open a duel on a problem hosts it; the next user to
// open one on the same problem joins as opponent. Each side's clock starts
// when that side enters, and the match is decided once both sides finish.
// Matches live in memory only.
package duel
