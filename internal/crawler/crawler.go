// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package crawler

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/solvedrec/internal/dataset"
	"github.com/tomtom215/solvedrec/internal/metrics"
)

// DefaultConcurrency is the number of handles crawled in parallel.
const DefaultConcurrency = 4

// Crawler collects solve histories from solved.ac.
type Crawler struct {
	client      *Client
	concurrency int
	logger      zerolog.Logger
}

// New creates a Crawler. concurrency <= 0 uses DefaultConcurrency.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(client *Client, concurrency int, logger zerolog.Logger) *Crawler {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Crawler{
		client:      client,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "crawler").Logger(),
	}
}

// CrawlResult holds the records of one crawl and the handles whose
// history could not be fetched.
type CrawlResult struct {
	Records []dataset.Record
	Failed  []string
}

// CrawlHandles fetches up to maxPages pages of solved problems per handle.
// Output order follows handles. A handle whose request fails is listed in
// Failed and keeps the pages fetched before the failure; the crawl itself
// only fails when ctx is done.
func (c *Crawler) CrawlHandles(ctx context.Context, handles []string, maxPages int) (*CrawlResult, error) {
	type slot struct {
		records []dataset.Record
		failed  bool
	}
	slots := make([]slot, len(handles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, handle := range handles {
		g.Go(func() error {
			records, err := c.crawlHandle(gctx, handle, maxPages)
			slots[i].records = records
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				c.logger.Warn().Err(err).Str("handle", handle).Msg("skipping handle after request failure")
				slots[i].failed = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &CrawlResult{}
	for i, s := range slots {
		result.Records = append(result.Records, s.records...)
		if s.failed {
			result.Failed = append(result.Failed, handles[i])
		}
	}
	metrics.CrawlerRecords.Add(float64(len(result.Records)))

	c.logger.Info().
		Int("handles", len(handles)).
		Int("failed", len(result.Failed)).
		Int("records", len(result.Records)).
		Msg("crawl completed")
	return result, nil
}

func (c *Crawler) crawlHandle(ctx context.Context, handle string, maxPages int) ([]dataset.Record, error) {
	var records []dataset.Record
	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		problems, err := c.client.SearchProblems(ctx, handle, page)
		if errors.Is(err, ErrEndOfData) {
			break
		}
		if err != nil {
			return records, err
		}
		for i := range problems {
			p := &problems[i]
			records = append(records, dataset.Record{
				Handle:    handle,
				ProblemID: p.ProblemID,
				Title:     p.TitleKo,
				Tags:      p.TagNames(),
				Level:     p.Level,
			})
		}
	}
	return records, nil
}

// SampleHandles draws up to perPage handles from each class ranking page.
// Pages that are empty or fail are skipped; failures are logged.
func (c *Crawler) SampleHandles(ctx context.Context, pages []int, perPage int, rng *rand.Rand) ([]string, error) {
	seen := make(map[string]struct{})
	var handles []string

	for _, page := range pages {
		users, err := c.client.RankingClass(ctx, page)
		if errors.Is(err, ErrEndOfData) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return handles, ctxErr
			}
			c.logger.Warn().Err(err).Int("page", page).Msg("skipping ranking page")
			continue
		}

		rng.Shuffle(len(users), func(i, j int) { users[i], users[j] = users[j], users[i] })
		n := min(perPage, len(users))
		for _, u := range users[:n] {
			if _, ok := seen[u.Handle]; ok || u.Handle == "" {
				continue
			}
			seen[u.Handle] = struct{}{}
			handles = append(handles, u.Handle)
		}
	}
	return handles, nil
}

// RandomPages returns k distinct page numbers from 1..maxPage in ascending
// order. k is capped at maxPage.
func RandomPages(rng *rand.Rand, maxPage, k int) []int {
	if maxPage <= 0 || k <= 0 {
		return nil
	}
	k = min(k, maxPage)
	perm := rng.Perm(maxPage)[:k]
	pages := make([]int, k)
	for i, p := range perm {
		pages[i] = p + 1
	}
	slices.Sort(pages)
	return pages
}
