// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

// Package dataset provides rating sources for model training.
//
// Three providers implement recommend.DatasetProvider:
//
//   - CSVProvider: the crawler's CSV export (SOLVER_HANDLE, PROBLEM_ID,
//     SOLVED_LVL; TITLE_NM, TAGS_NM and HASH_ID are ignored)
//   - DuckDBProvider: a DuckDB table, optionally imported from CSV with
//     read_csv_auto
//   - Synthetic: a seeded demo dataset of 20 users over problems 1000-1099
//
// Providers return entries in source order and perform no deduplication;
// recommend.LoadRatings keeps the first entry per (user, problem).
//
// Example:
//
//	p, err := dataset.Open(ctx, dataset.Source{Kind: dataset.KindCSV, Path: "problems.csv"})
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//	err = handle.Train(ctx, p)
package dataset
