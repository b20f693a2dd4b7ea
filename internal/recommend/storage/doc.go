// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

// Package storage provides snapshot persistence for the trained recommender.
//
// A snapshot bundles the rating matrix and the similarity table so a
// restarted process can serve without retraining.
//
// # Overview
//
// The storage system provides:
//   - Gob serialization of the model state
//   - Gzip compression to reduce storage footprint
//   - SHA-256 checksums for integrity verification
//   - Version tracking and pruning of old snapshots
//
// Two backends implement Store: FileStore writes one file per version and
// BadgerStore writes one key per version into a BadgerDB database.
//
// # Storage Format
//
//	filename (FileStore):  {name}_v{version}.gob.gz
//	key (BadgerStore):     snapshot/{name}/{zero-padded version}
//
//	structure:
//	  - Metadata
//	  - CompressedData (gzip-compressed gob-encoded SnapshotState)
//
// # Usage Example
//
//	store, err := storage.NewFileStore("/var/lib/solvedrec/snapshots")
//	if err != nil {
//	    return err
//	}
//
//	meta, err := store.Save(ctx, "model", 3, state, storage.Metadata{TrainedAt: trainedAt})
//
//	state, meta, err := store.Load(ctx, "model", 0) // 0 = latest version
//
// # Error Handling
//
// Load never returns partial results. A missing snapshot wraps ErrNotFound;
// a truncated file, a checksum mismatch or an inconsistent state wraps
// ErrCorrupt.
//
// # Thread Safety
//
// FileStore guards its version index with a RWMutex and publishes files by
// rename. BadgerStore relies on BadgerDB transactions.
package storage
