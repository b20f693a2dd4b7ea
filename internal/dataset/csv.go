// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/solvedrec/internal/recommend"
)

// Column names written by the crawler.
const (
	ColumnHandle     = "SOLVER_HANDLE"
	ColumnProblemID  = "PROBLEM_ID"
	ColumnTitle      = "TITLE_NM"
	ColumnTags       = "TAGS_NM"
	ColumnDifficulty = "SOLVED_LVL"
	ColumnHash       = "HASH_ID"
)

// headerAliases maps lowercased header names to the field they carry.
var headerAliases = map[string]string{
	"solver_handle": ColumnHandle,
	"user_handle":   ColumnHandle,
	"handle":        ColumnHandle,
	"problem_id":    ColumnProblemID,
	"solved_lvl":    ColumnDifficulty,
	"difficulty":    ColumnDifficulty,
	"level":         ColumnDifficulty,
}

// Record is one crawled solve with the descriptive columns kept for export.
type Record struct {
	Handle    string
	ProblemID int
	Title     string
	Tags      []string
	Level     int
}

// CSVProvider reads ratings from a CSV file with a header row.
type CSVProvider struct {
	path string
}

// NewCSVProvider creates a provider for the CSV file at path.
func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{path: path}
}

// Path returns the file path.
func (p *CSVProvider) Path() string {
	return p.path
}

// Ratings implements recommend.DatasetProvider.
func (p *CSVProvider) Ratings(ctx context.Context) ([]recommend.RatingEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return ParseCSV(ctx, f)
}

// ParseCSV parses rating entries from r.
//
// The header row locates the handle, problem and difficulty columns by name;
// other columns are ignored. A missing column or an unparsable value fails the
// whole parse with recommend.ErrData.
func ParseCSV(ctx context.Context, r io.Reader) ([]recommend.RatingEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", recommend.ErrData)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", recommend.ErrData, err)
	}

	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var entries []recommend.RatingEntry
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", recommend.ErrData, line, err)
		}

		entry, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", recommend.ErrData, line, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

type columnIndex struct {
	handle, problem, difficulty int
}

func locateColumns(header []string) (columnIndex, error) {
	found := map[string]int{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if field, ok := headerAliases[name]; ok {
			if _, dup := found[field]; !dup {
				found[field] = i
			}
		}
	}

	for _, field := range []string{ColumnHandle, ColumnProblemID, ColumnDifficulty} {
		if _, ok := found[field]; !ok {
			return columnIndex{}, fmt.Errorf("%w: missing column %s", recommend.ErrData, field)
		}
	}

	return columnIndex{
		handle:     found[ColumnHandle],
		problem:    found[ColumnProblemID],
		difficulty: found[ColumnDifficulty],
	}, nil
}

func parseRow(row []string, cols columnIndex) (recommend.RatingEntry, error) {
	field := func(i int) (string, error) {
		if i >= len(row) {
			return "", fmt.Errorf("expected at least %d fields, got %d", i+1, len(row))
		}
		return strings.TrimSpace(row[i]), nil
	}

	handle, err := field(cols.handle)
	if err != nil {
		return recommend.RatingEntry{}, err
	}
	rawProblem, err := field(cols.problem)
	if err != nil {
		return recommend.RatingEntry{}, err
	}
	rawLevel, err := field(cols.difficulty)
	if err != nil {
		return recommend.RatingEntry{}, err
	}

	problem, err := parseInt(rawProblem)
	if err != nil {
		return recommend.RatingEntry{}, fmt.Errorf("problem id %q: %w", rawProblem, err)
	}
	level, err := parseInt(rawLevel)
	if err != nil {
		return recommend.RatingEntry{}, fmt.Errorf("difficulty %q: %w", rawLevel, err)
	}

	return recommend.RatingEntry{Handle: handle, ProblemID: problem, Difficulty: level}, nil
}

// parseInt accepts integral values written as floats ("1000.0").
func parseInt(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, errors.New("not an integer")
	}
	return int(f), nil
}

// WriteCSV writes crawled records in the dataset layout.
func WriteCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{ColumnHandle, ColumnProblemID, ColumnTitle, ColumnTags, ColumnDifficulty, ColumnHash}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range records {
		r := &records[i]
		id := strconv.Itoa(r.ProblemID)
		row := []string{r.Handle, id, r.Title, strings.Join(r.Tags, " "), strconv.Itoa(r.Level), id}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes records to path, replacing any existing file.
func WriteCSVFile(path string, records []Record) error {
	f, err := os.Create(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close() //nolint:errcheck,gosec // best-effort cleanup on error path
		return err
	}
	return f.Close()
}

// Entries converts records to rating entries.
func Entries(records []Record) []recommend.RatingEntry {
	out := make([]recommend.RatingEntry, len(records))
	for i, r := range records {
		out[i] = recommend.RatingEntry{Handle: r.Handle, ProblemID: r.ProblemID, Difficulty: r.Level}
	}
	return out
}
