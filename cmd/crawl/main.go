// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

// Package main builds a training dataset by crawling solved.ac.
//
// Handles are either given with -handles or sampled from random class
// ranking pages. Each handle's solved problems are written as one CSV row
// per (handle, problem) and can optionally be loaded into a DuckDB table
// for the server's duckdb dataset kind.
//
//	solvedrec-crawl -pages 20 -per-page 5 -out /data/dataset.csv
//	solvedrec-crawl -handles koosaga,cubelover -duckdb /data/ratings.duckdb
//
// The solved.ac client is configured like the server (SOLVEDAC_BASE_URL,
// CRAWLER_REQUESTS_PER_SECOND, CRAWLER_CONCURRENCY, ...).
package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tomtom215/solvedrec/internal/config"
	"github.com/tomtom215/solvedrec/internal/crawler"
	"github.com/tomtom215/solvedrec/internal/dataset"
	"github.com/tomtom215/solvedrec/internal/logging"
	"github.com/tomtom215/solvedrec/internal/validation"
)

func main() {
	var (
		handleList string
		pages      int
		maxPage    int
		perPage    int
		maxPages   int
		seed       uint64
		out        string
		duckPath   string
		duckTable  string
	)
	flag.StringVar(&handleList, "handles", "", "comma-separated handles to crawl (skips sampling)")
	flag.IntVar(&pages, "pages", 20, "number of ranking pages to sample handles from")
	flag.IntVar(&maxPage, "max-page", 300, "highest ranking page to sample")
	flag.IntVar(&perPage, "per-page", 5, "handles drawn from each sampled page")
	flag.IntVar(&maxPages, "max-problem-pages", 0, "solved-problem pages per handle, 0 for all")
	flag.Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "sampling seed")
	flag.StringVar(&out, "out", "dataset.csv", "output CSV path")
	flag.StringVar(&duckPath, "duckdb", "", "also load the dataset into this DuckDB file")
	flag.StringVar(&duckTable, "table", "ratings", "DuckDB ratings table")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingConfigFor())
	logger := logging.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := crawler.NewClient(cfg.CrawlerClientConfig(), logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create solved.ac client")
	}
	c := crawler.New(client, cfg.Crawler.Concurrency, logger)

	handles := splitHandles(handleList)
	if len(handles) == 0 {
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // sampling, not security
		sampled := crawler.RandomPages(rng, maxPage, pages)
		logging.Info().Ints("pages", sampled).Uint64("seed", seed).Msg("Sampling handles")

		handles, err = c.SampleHandles(ctx, sampled, perPage, rng)
		if err != nil {
			logging.Fatal().Err(err).Msg("Handle sampling interrupted")
		}
	}
	if len(handles) == 0 {
		logging.Fatal().Msg("No handles to crawl")
	}

	logging.Info().Int("handles", len(handles)).Int("max_pages", maxPages).Msg("Crawling solve histories")
	result, err := c.CrawlHandles(ctx, handles, maxPages)
	if err != nil {
		logging.Fatal().Err(err).Msg("Crawl interrupted")
	}
	if len(result.Failed) > 0 {
		logging.Warn().Strs("handles", result.Failed).Msg("Some handles could not be fetched")
	}

	if err := dataset.WriteCSVFile(out, result.Records); err != nil {
		logging.Fatal().Err(err).Str("path", out).Msg("Failed to write dataset")
	}
	logging.Info().Int("records", len(result.Records)).Str("path", out).Msg("Dataset written")

	if duckPath == "" {
		return
	}

	db, err := dataset.OpenDuckDB(duckPath, duckTable)
	if err != nil {
		logging.Fatal().Err(err).Str("path", duckPath).Msg("Failed to open DuckDB")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing DuckDB")
		}
	}()
	if err := db.Insert(ctx, dataset.Entries(result.Records)); err != nil {
		logging.Error().Err(err).Str("path", duckPath).Msg("Failed to load dataset into DuckDB")
		return
	}
	logging.Info().Str("path", duckPath).Str("table", duckTable).Msg("Dataset loaded into DuckDB")
}

// splitHandles parses a comma-separated handle list, dropping blanks and
// anything that is not a valid handle.
func splitHandles(list string) []string {
	if list == "" {
		return nil
	}
	var handles []string
	for _, h := range strings.Split(list, ",") {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !validation.IsHandle(h) {
			logging.Warn().Str("handle", h).Msg("Skipping invalid handle")
			continue
		}
		handles = append(handles, h)
	}
	return handles
}
