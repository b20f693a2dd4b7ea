// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package crawler

import (
	"errors"
	"fmt"
)

// ErrEndOfData is returned when a page has no items. It is not a failure.
var ErrEndOfData = errors.New("end of data")

// RequestError reports a failed solved.ac call: transport error, unexpected
// status, exhausted retries, open circuit or undecodable body.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("solved.ac %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("solved.ac %s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRequestError reports whether err is or wraps a *RequestError.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}
