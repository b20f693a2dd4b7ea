// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when no snapshot exists for the requested name or version.
	ErrNotFound = errors.New("snapshot not found")

	// ErrCorrupt is returned when a snapshot cannot be decoded or fails verification.
	ErrCorrupt = errors.New("snapshot corrupt")
)

// Store persists model snapshots. Implementations must make Save atomic:
// a concurrent or later Load observes either the previous snapshot or the
// complete new one.
type Store interface {
	// Save writes a snapshot under name and version and returns the final metadata.
	Save(ctx context.Context, name string, version int, state *SnapshotState, meta Metadata) (*Metadata, error)

	// Load reads a snapshot. Version 0 loads the latest version.
	Load(ctx context.Context, name string, version int) (*SnapshotState, *Metadata, error)

	// LatestVersion returns the highest stored version for name.
	LatestVersion(name string) (int, bool)

	// Prune keeps only the newest keep versions of name.
	Prune(ctx context.Context, name string, keep int) error

	// Close releases resources held by the store.
	Close() error
}

// SnapshotState is the serializable form of a trained model: the rating
// matrix and the similarity table, persisted as one unit.
type SnapshotState struct {
	// Ratings maps user handle to problem ID to difficulty.
	Ratings map[string]map[int]int

	// Similarity maps user handle to other handle to similarity.
	Similarity map[string]map[string]float64
}

// Validate checks structural consistency of a decoded snapshot.
func (s *SnapshotState) Validate() error {
	if len(s.Ratings) == 0 {
		return fmt.Errorf("%w: no ratings", ErrCorrupt)
	}
	for handle, row := range s.Similarity {
		if _, ok := s.Ratings[handle]; !ok {
			return fmt.Errorf("%w: similarity row for unknown user %q", ErrCorrupt, handle)
		}
		for other := range row {
			if _, ok := s.Ratings[other]; !ok {
				return fmt.Errorf("%w: similarity entry for unknown user %q", ErrCorrupt, other)
			}
		}
	}
	return nil
}

// Metadata contains information about a stored snapshot.
type Metadata struct {
	// Name is the snapshot series name (e.g. "model").
	Name string `json:"name"`

	// Version is the snapshot version (monotonically increasing).
	Version int `json:"version"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the snapshot was saved.
	SavedAt time.Time `json:"saved_at"`

	// EntryCount is the number of deduplicated ratings.
	EntryCount int `json:"entry_count"`

	// UserCount is the number of users.
	UserCount int `json:"user_count"`

	// ProblemCount is the number of distinct problems.
	ProblemCount int `json:"problem_count"`

	// Checksum is the SHA-256 checksum of the uncompressed state.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed state size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long training took.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// storedFile is the on-disk (and on-key) format for snapshots.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// encodeSnapshot serializes state and returns the stored record bytes with
// the completed metadata.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func encodeSnapshot(name string, version int, state *SnapshotState, meta Metadata) ([]byte, *Metadata, error) {
	if state == nil {
		return nil, nil, fmt.Errorf("nil snapshot state")
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, nil, fmt.Errorf("encode snapshot: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, nil, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()
	meta.Name = name
	meta.Version = version

	var out bytes.Buffer
	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(&out).Encode(sf); err != nil {
		return nil, nil, fmt.Errorf("encode stored file: %w", err)
	}

	return out.Bytes(), &meta, nil
}

// decodeSnapshot reverses encodeSnapshot, verifying the checksum and the
// decoded structure. Every failure wraps ErrCorrupt.
func decodeSnapshot(r io.Reader) (*SnapshotState, *Metadata, error) {
	var sf storedFile
	if err := gob.NewDecoder(r).Decode(&sf); err != nil {
		return nil, nil, fmt.Errorf("%w: read stored file: %s", ErrCorrupt, err.Error())
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decompress: %s", ErrCorrupt, err.Error())
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read decompressed data: %s", ErrCorrupt, err.Error())
	}

	hash := sha256.Sum256(rawData)
	checksum := hex.EncodeToString(hash[:])
	if checksum != sf.Metadata.Checksum {
		return nil, nil, fmt.Errorf("%w: checksum mismatch: expected %s, got %s", ErrCorrupt, sf.Metadata.Checksum, checksum)
	}

	var state SnapshotState
	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(&state); err != nil {
		return nil, nil, fmt.Errorf("%w: decode state: %s", ErrCorrupt, err.Error())
	}
	if err := state.Validate(); err != nil {
		return nil, nil, err
	}

	return &state, &sf.Metadata, nil
}

// Register gob types for serialization.
//
//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(SnapshotState{})
	gob.Register(Metadata{})
	gob.Register(storedFile{})
}
