// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package api

import (
	"net/http"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/logging"
)

// errorStatus maps an apperr kind to its HTTP status and error code.
func errorStatus(kind apperr.Kind) (int, string) {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, ErrCodeValidationFailed
	case apperr.KindNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case apperr.KindUpstream:
		return http.StatusBadGateway, ErrCodeExternalServiceFail
	case apperr.KindConflict:
		return http.StatusConflict, ErrCodeConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden, ErrCodeForbidden
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// respondError writes err using its apperr classification. Server-side
// failures are logged with the full error chain; clients only see the
// classified message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status, code := errorStatus(kind)

	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("kind", kind.String()).
			Str("path", r.URL.Path).
			Msg("Request failed")
	}

	NewResponseWriter(w, r).Error(status, code, apperr.Message(err, "internal server error"))
}
