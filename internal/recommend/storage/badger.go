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
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "snapshot/"

// BadgerStore persists snapshots as values in a BadgerDB database.
// Each save is a single transaction, so a snapshot is either fully visible
// or absent.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a BadgerDB database at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an already opened database. The store takes ownership
// and closes db on Close.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// snapshotKey orders versions lexicographically by zero padding.
func snapshotKey(name string, version int) []byte {
	return []byte(fmt.Sprintf("%s%s/%020d", badgerKeyPrefix, name, version))
}

func snapshotPrefix(name string) []byte {
	return []byte(badgerKeyPrefix + name + "/")
}

// Save implements Store.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *BadgerStore) Save(ctx context.Context, name string, version int, state *SnapshotState, meta Metadata) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, final, err := encodeSnapshot(name, version, state, meta)
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey(name, version), data)
	})
	if err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	return final, nil
}

// Load implements Store.
func (s *BadgerStore) Load(ctx context.Context, name string, version int) (*SnapshotState, *Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if version == 0 {
		latest, ok := s.LatestVersion(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		version = latest
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey(name, version))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil, fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read snapshot: %w", err)
	}

	return decodeSnapshot(bytes.NewReader(data))
}

// versions returns every stored version of name in ascending order.
func (s *BadgerStore) versions(name string) ([]int, error) {
	var out []int
	prefix := snapshotPrefix(name)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			v, err := strconv.Atoi(strings.TrimPrefix(key, string(prefix)))
			if err != nil {
				continue
			}
			out = append(out, v)
		}
		return nil
	})
	return out, err
}

// LatestVersion implements Store.
func (s *BadgerStore) LatestVersion(name string) (int, bool) {
	versions, err := s.versions(name)
	if err != nil || len(versions) == 0 {
		return 0, false
	}
	return versions[len(versions)-1], true
}

// Prune implements Store.
func (s *BadgerStore) Prune(ctx context.Context, name string, keep int) error {
	if keep < 1 {
		keep = 1
	}

	versions, err := s.versions(name)
	if err != nil {
		return fmt.Errorf("list versions: %w", err)
	}
	if len(versions) <= keep {
		return nil
	}

	stale := versions[:len(versions)-keep]
	return s.db.Update(func(txn *badger.Txn) error {
		for _, v := range stale {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := txn.Delete(snapshotKey(name, v)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
