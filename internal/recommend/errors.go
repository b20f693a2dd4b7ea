// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import "errors"

// Sentinel errors returned by the recommendation core.
// Callers should compare with errors.Is since most are wrapped with context.
var (
	// ErrData indicates an empty or malformed ratings dataset.
	// Training never produces an empty model; it fails with ErrData instead.
	ErrData = errors.New("invalid ratings dataset")

	// ErrUnknownUser indicates a query for a handle absent from the trained store.
	// Callers typically fall back to the cold-start path or a default list.
	ErrUnknownUser = errors.New("unknown user")

	// ErrPersistence indicates an unreadable, corrupt or unwritable snapshot.
	// Recoverable by retraining from source data.
	ErrPersistence = errors.New("model snapshot persistence failed")

	// ErrUntrainedModel indicates a query issued before any model was published.
	ErrUntrainedModel = errors.New("model not trained")

	// ErrTrainingInProgress is returned when a second training run is requested
	// while one is already running on the same handle.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrInvalidRequest indicates a query with neither a handle nor a solve history.
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrHandleClosed is returned by operations on a closed handle.
	ErrHandleClosed = errors.New("model handle closed")
)
