// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package dataset

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tomtom215/solvedrec/internal/recommend"
)

// Source kinds accepted by Open.
const (
	KindCSV       = "csv"
	KindDuckDB    = "duckdb"
	KindSynthetic = "synthetic"
)

// Source selects and configures a dataset provider.
type Source struct {
	// Kind is one of csv, duckdb or synthetic.
	Kind string

	// Path is the CSV file, or the DuckDB database file (empty for in-memory).
	Path string

	// Table is the DuckDB ratings table.
	Table string

	// ImportCSV, when set for duckdb, is loaded into Table on open.
	ImportCSV string

	// Seed drives the synthetic generator.
	Seed uint64
}

// Provider is a dataset provider that may hold resources.
type Provider interface {
	recommend.DatasetProvider
	io.Closer
}

type nopCloser struct {
	recommend.DatasetProvider
}

func (nopCloser) Close() error { return nil }

// Open builds the provider described by src.
func Open(ctx context.Context, src Source) (Provider, error) {
	switch src.Kind {
	case KindCSV, "":
		if src.Path == "" {
			return nil, fmt.Errorf("dataset path is required for %s", KindCSV)
		}
		return nopCloser{NewCSVProvider(src.Path)}, nil

	case KindDuckDB:
		p, err := OpenDuckDB(src.Path, src.Table)
		if err != nil {
			return nil, err
		}
		if src.ImportCSV != "" {
			if _, err := p.ImportCSV(ctx, src.ImportCSV); err != nil {
				p.Close() //nolint:errcheck,gosec // best-effort cleanup on error path
				return nil, err
			}
		}
		return p, nil

	case KindSynthetic:
		return nopCloser{NewSynthetic(src.Seed)}, nil

	default:
		return nil, fmt.Errorf("unknown dataset kind %q", src.Kind)
	}
}

// SourceForPath picks the provider for a dataset file by extension:
// .duckdb and .db open DuckDB's ratings table, anything else is read as CSV.
func SourceForPath(path string) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".duckdb", ".db":
		return Source{Kind: KindDuckDB, Path: path, Table: DefaultTable}
	default:
		return Source{Kind: KindCSV, Path: path}
	}
}

// Trainer is anything that trains from a ratings provider.
type Trainer interface {
	Train(ctx context.Context, provider recommend.DatasetProvider) error
}

// TrainFromPath opens the dataset file at path and trains t from it.
func TrainFromPath(ctx context.Context, t Trainer, path string) error {
	p, err := Open(ctx, SourceForPath(path))
	if err != nil {
		return err
	}
	defer p.Close() //nolint:errcheck // read-only provider

	return t.Train(ctx, p)
}
