// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const fileSuffix = ".gob.gz"

// FileStore persists snapshots as files named {name}_v{version}.gob.gz.
// Writes go to a temporary file in the same directory and are renamed into
// place, so a crash mid-write never leaves a truncated snapshot behind.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per snapshot name
	versions map[string]int
}

// NewFileStore creates a store rooted at baseDir, creating it if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &FileStore{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing snapshots: %w", err)
	}

	return s, nil
}

// scan records the latest version of every snapshot in the directory.
func (s *FileStore) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name, version, ok := parseSnapshotFilename(entry)
		if !ok {
			continue
		}
		if current, seen := s.versions[name]; !seen || version > current {
			s.versions[name] = version
		}
	}
	return nil
}

// parseSnapshotFilename extracts name and version from "model_v3.gob.gz".
func parseSnapshotFilename(entry fs.DirEntry) (name string, version int, ok bool) {
	if entry.IsDir() {
		return "", 0, false
	}
	base, found := strings.CutSuffix(entry.Name(), fileSuffix)
	if !found {
		return "", 0, false
	}

	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0, false
	}
	if _, err := fmt.Sscanf(base[idx+2:], "%d", &version); err != nil || version <= 0 {
		return "", 0, false
	}
	return base[:idx], version, true
}

// Save implements Store.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *FileStore) Save(ctx context.Context, name string, version int, state *SnapshotState, meta Metadata) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, final, err := encodeSnapshot(name, version, state, meta)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path(name, version), data); err != nil {
		return nil, err
	}

	if current, ok := s.versions[name]; !ok || version > current {
		s.versions[name] = version
	}

	return final, nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, name string, version int) (*SnapshotState, *Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
	}

	data, err := os.ReadFile(s.path(name, version))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read snapshot: %w", err)
	}

	return decodeSnapshot(bytes.NewReader(data))
}

// SavePath writes a snapshot to an explicit file path, replacing any
// existing file atomically.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func SavePath(path string, version int, state *SnapshotState, meta Metadata) (*Metadata, error) {
	data, final, err := encodeSnapshot(strings.TrimSuffix(filepath.Base(path), fileSuffix), version, state, meta)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return nil, err
	}
	return final, nil
}

// writeFileAtomic writes data to a temporary file next to path, syncs it and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) } //nolint:errcheck // best-effort cleanup

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error already returned
		cleanup()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error already returned
		cleanup()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

// LoadPath reads a snapshot from an explicit file path.
func LoadPath(path string) (*SnapshotState, *Metadata, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeSnapshot(bytes.NewReader(data))
}

// LatestVersion implements Store.
func (s *FileStore) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// Prune implements Store.
func (s *FileStore) Prune(ctx context.Context, name string, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 1 {
		keep = 1
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}

	var versions []int
	for _, entry := range entries {
		n, v, ok := parseSnapshotFilename(entry)
		if ok && n == name {
			versions = append(versions, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))

	for i := keep; i < len(versions); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		_ = os.Remove(s.path(name, versions[i])) //nolint:errcheck // best-effort cleanup of old versions
	}

	return nil
}

// Close implements Store. FileStore holds no open handles.
func (s *FileStore) Close() error {
	return nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string {
	return s.baseDir
}

func (s *FileStore) path(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, fileSuffix))
}
