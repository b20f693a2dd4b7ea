// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package recommend

import (
	"sort"
	"strings"
)

// TagRange is an inclusive problem ID range associated with a tag.
type TagRange struct {
	Tag string `json:"tag"`
	Min int    `json:"min"`
	Max int    `json:"max"`
}

// tagRanges is the fixed tag classifier table. It is configuration, not
// derived from the dataset, and ranges overlap: a problem can match several tags.
var tagRanges = map[string]TagRange{
	"implementation": {Tag: "implementation", Min: 1000, Max: 2000},
	"math":           {Tag: "math", Min: 1001, Max: 3000},
	"greedy":         {Tag: "greedy", Min: 1200, Max: 2500},
	"dp":             {Tag: "dp", Min: 1000, Max: 3000},
	"graph":          {Tag: "graph", Min: 1260, Max: 2000},
	"string":         {Tag: "string", Min: 1152, Max: 2000},
	"bruteforce":     {Tag: "bruteforce", Min: 1000, Max: 2000},
}

// NormalizeTag folds a user-supplied tag name onto a table key.
// Case is folded and underscores and spaces are stripped. Names containing
// "dynamic" or "programming" map to dp, names containing "brute" map to bruteforce.
func NormalizeTag(tag string) string {
	key := strings.ToLower(tag)
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, " ", "")

	if strings.Contains(key, "dynamic") || strings.Contains(key, "programming") {
		key = "dp"
	}
	if strings.Contains(key, "brute") {
		key = "bruteforce"
	}
	return key
}

// TagPredicate reports whether a problem belongs to a tag.
// Unknown tags match every problem so that unrecognized input never
// over-filters the candidate pool.
func TagPredicate(problemID int, tag string) bool {
	r, ok := tagRanges[NormalizeTag(tag)]
	if !ok {
		return true
	}
	return problemID >= r.Min && problemID <= r.Max
}

// IsKnownTag reports whether the tag normalizes onto a table entry.
func IsKnownTag(tag string) bool {
	_, ok := tagRanges[NormalizeTag(tag)]
	return ok
}

// KnownTags returns the classifier table sorted by tag name.
func KnownTags() []TagRange {
	out := make([]TagRange, 0, len(tagRanges))
	for _, r := range tagRanges {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
