// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/solvedrec/internal/duel"
	"github.com/tomtom215/solvedrec/internal/logging"
	"github.com/tomtom215/solvedrec/internal/recommend"
)

// errorMapping maps a sentinel error to its HTTP status and error code.
type errorMapping struct {
	target error
	status int
	code   string
	// expose controls whether err.Error() is sent to the client.
	expose bool
}

var errorMappings = []errorMapping{
	{recommend.ErrUntrainedModel, http.StatusServiceUnavailable, ErrCodeModelNotReady, true},
	{recommend.ErrHandleClosed, http.StatusServiceUnavailable, ErrCodeModelNotReady, true},
	{recommend.ErrUnknownUser, http.StatusNotFound, ErrCodeUnknownUser, true},
	{recommend.ErrInvalidRequest, http.StatusBadRequest, ErrCodeBadRequest, true},
	{recommend.ErrTrainingInProgress, http.StatusConflict, ErrCodeTrainingInProgress, true},
	{recommend.ErrData, http.StatusUnprocessableEntity, ErrCodeInvalidDataset, true},
	{recommend.ErrPersistence, http.StatusInternalServerError, ErrCodeSnapshotFailed, false},
	{duel.ErrMatchNotFound, http.StatusNotFound, ErrCodeMatchNotFound, true},
	{duel.ErrAlreadyFinished, http.StatusConflict, ErrCodeMatchFinished, true},
	{duel.ErrSelfMatch, http.StatusConflict, ErrCodeSelfMatch, true},
	{duel.ErrInvalidRequest, http.StatusBadRequest, ErrCodeBadRequest, true},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, ErrCodeTimeout, false},
}

// DomainError writes the response for an error returned by the engine or
// the duel manager. Unmapped and unexposed errors are logged and answered
// with a generic message.
func (rw *ResponseWriter) DomainError(err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.expose {
			rw.Error(m.status, m.code, err.Error())
			return
		}
		logging.Ctx(rw.r.Context()).Error().Err(err).Str("code", m.code).Msg("request failed")
		rw.Error(m.status, m.code, http.StatusText(m.status))
		return
	}

	logging.Ctx(rw.r.Context()).Error().Err(err).Msg("unhandled error")
	rw.InternalError("internal server error")
}
