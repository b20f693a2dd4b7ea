// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

/*
Package cache provides a thread-safe generic LRU cache with TTL support.

The recommendation handle uses it to memoize responses. Keys embed the
serving model version, so publishing a new model makes every older entry
unreachable without an explicit flush; stale entries age out through LRU
eviction or TTL.

# Usage Example

	c := cache.NewLRU[*recommend.Response](10000, 5*time.Minute)

	c.Add("v3:alice:10:", resp)
	if resp, ok := c.Get("v3:alice:10:"); ok {
	    // Use cached value
	}

# Thread Safety

All methods are safe for concurrent use. Get mutates recency order, so a
single mutex guards both reads and writes.
*/
package cache
