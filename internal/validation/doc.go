// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator is shared by API request types and the
// configuration loader. Field names in errors follow the json tag so that
// clients see the names they sent.
//
// # Custom Tags
//
//   - handle: a solved.ac handle (letters, digits, underscore; 1-20 chars)
//   - problemtag: a single algorithm tag name, words joined by spaces or underscores
//
// # Usage
//
//	type RecommendRequest struct {
//	    Handle string `json:"handle" validate:"omitempty,handle"`
//	    N      int    `json:"n" validate:"gte=0,lte=100"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
