// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	// DuckDB driver
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/solvedrec/internal/recommend"
)

// DefaultTable is the ratings table read by DuckDBProvider.
const DefaultTable = "ratings"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DuckDBProvider reads ratings from a DuckDB table with the columns
// solver_handle, problem_id and solved_lvl.
type DuckDBProvider struct {
	db    *sql.DB
	table string
	owned bool
}

// OpenDuckDB opens a DuckDB database file (empty path for in-memory) and
// returns a provider that owns the connection.
func OpenDuckDB(path, table string) (*DuckDBProvider, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("duckdb", dsn+"?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	p, err := NewDuckDBProvider(db, table)
	if err != nil {
		db.Close() //nolint:errcheck,gosec // best-effort cleanup on error path
		return nil, err
	}
	p.owned = true
	return p, nil
}

// NewDuckDBProvider wraps an existing connection. The caller keeps ownership
// of db.
func NewDuckDBProvider(db *sql.DB, table string) (*DuckDBProvider, error) {
	if table == "" {
		table = DefaultTable
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &DuckDBProvider{db: db, table: table}, nil
}

// ImportCSV replaces the ratings table with the contents of a CSV file.
func (p *DuckDBProvider) ImportCSV(ctx context.Context, path string) (int64, error) {
	query := fmt.Sprintf(
		`CREATE OR REPLACE TABLE %s AS
		 SELECT CAST(solver_handle AS VARCHAR) AS solver_handle,
		        CAST(problem_id AS BIGINT)     AS problem_id,
		        CAST(solved_lvl AS BIGINT)     AS solved_lvl
		 FROM read_csv_auto(%s, header = true)`,
		p.table, quoteLiteral(path))

	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return 0, fmt.Errorf("%w: import %s: %w", recommend.ErrData, path, err)
	}

	var n int64
	if err := p.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+p.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count imported rows: %w", err)
	}
	return n, nil
}

// Insert creates the ratings table if needed and appends entries.
func (p *DuckDBProvider) Insert(ctx context.Context, entries []recommend.RatingEntry) error {
	create := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (solver_handle VARCHAR, problem_id BIGINT, solved_lvl BIGINT)`,
		p.table)
	if _, err := p.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (solver_handle, problem_id, solved_lvl) VALUES (?, ?, ?)`, p.table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // closed with transaction

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Handle, e.ProblemID, e.Difficulty); err != nil {
			return fmt.Errorf("insert rating: %w", err)
		}
	}

	return tx.Commit()
}

// Ratings implements recommend.DatasetProvider. Rows are returned in
// insertion order so first-entry-wins deduplication stays deterministic.
func (p *DuckDBProvider) Ratings(ctx context.Context) ([]recommend.RatingEntry, error) {
	rows, err := p.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT solver_handle, problem_id, solved_lvl FROM %s ORDER BY rowid`, p.table))
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", recommend.ErrData, p.table, err)
	}
	defer rows.Close() //nolint:errcheck // read-only query

	var entries []recommend.RatingEntry
	row := 0
	for rows.Next() {
		row++
		var (
			handle  sql.NullString
			problem sql.NullInt64
			level   sql.NullInt64
		)
		if err := rows.Scan(&handle, &problem, &level); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", recommend.ErrData, row, err)
		}
		if !handle.Valid || !problem.Valid || !level.Valid {
			return nil, fmt.Errorf("%w: row %d: null value", recommend.ErrData, row)
		}
		entries = append(entries, recommend.RatingEntry{
			Handle:     handle.String,
			ProblemID:  int(problem.Int64),
			Difficulty: int(level.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}

	return entries, nil
}

// Close closes the connection if the provider opened it.
func (p *DuckDBProvider) Close() error {
	if p.owned {
		return p.db.Close()
	}
	return nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
