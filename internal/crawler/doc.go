// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

/*
Package crawler collects solve histories from the solved.ac v3 API.

The Client paces requests with a token bucket limiter, retries HTTP 429
with exponential backoff (honouring Retry-After) and guards every call with
a circuit breaker. Any transport, status or decode failure is returned as a
*RequestError. An empty page is reported as ErrEndOfData, which is a normal
end of pagination and never a failure.

The Crawler builds dataset records from those calls:

	client, _ := crawler.NewClient(crawler.DefaultConfig(), logger)
	c := crawler.New(client, 4, logger)
	rng := rand.New(rand.NewPCG(seed, seed))
	handles, _ := c.SampleHandles(ctx, crawler.RandomPages(rng, 300, 20), 5, rng)
	result, _ := c.CrawlHandles(ctx, handles, 0)
	_ = dataset.WriteCSVFile("dataset.csv", result.Records)
*/
package crawler
