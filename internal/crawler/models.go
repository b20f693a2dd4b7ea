// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package crawler

import "strings"

// ProblemPage is a page of /api/v3/search/problem.
type ProblemPage struct {
	Count int       `json:"count"`
	Items []Problem `json:"items"`
}

// Problem is a solved.ac problem.
type Problem struct {
	ProblemID int    `json:"problemId"`
	TitleKo   string `json:"titleKo"`
	Level     int    `json:"level"`
	Tags      []Tag  `json:"tags"`
}

// Tag is a solved.ac algorithm tag.
type Tag struct {
	Key          string        `json:"key"`
	DisplayNames []DisplayName `json:"displayNames"`
}

// DisplayName is a localized tag name.
type DisplayName struct {
	Language string `json:"language"`
	Name     string `json:"name"`
	Short    string `json:"short"`
}

// RankingPage is a page of /api/v3/ranking/class or /api/v3/search/user.
type RankingPage struct {
	Count int    `json:"count"`
	Items []User `json:"items"`
}

// User is a solved.ac user summary.
type User struct {
	Handle      string `json:"handle"`
	Tier        int    `json:"tier"`
	Rating      int    `json:"rating"`
	Class       int    `json:"class"`
	SolvedCount int    `json:"solvedCount"`
}

// TagNames returns the exported tag names of p. The second display name
// (English) is preferred, falling back to the first and then to the key.
// Spaces become underscores so names stay single tokens.
func (p *Problem) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		name := tag.Key
		switch {
		case len(tag.DisplayNames) > 1 && tag.DisplayNames[1].Short != "":
			name = tag.DisplayNames[1].Short
		case len(tag.DisplayNames) > 0 && tag.DisplayNames[0].Short != "":
			name = tag.DisplayNames[0].Short
		}
		if name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_"); name != "" {
			names = append(names, name)
		}
	}
	return names
}
