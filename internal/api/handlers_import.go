// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package api

import (
	"net/http"

	"github.com/tomtom215/tourbuddy/internal/logging"
)

// ImportResponse reports the counts of an import run.
type ImportResponse struct {
	Imported   int   `json:"imported"`
	Refreshed  int   `json:"refreshed"`
	Updated    int   `json:"updated"`
	Skipped    int   `json:"skipped"`
	DurationMs int64 `json:"duration_ms"`
}

// ImportDestinations imports the configured dataset and backfills derived
// fields on every destination.
//
// @Summary Import and backfill destinations
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=ImportResponse}
// @Failure 403 {object} APIResponse "Admin role required"
// @Failure 409 {object} APIResponse "Import already running"
// @Failure 502 {object} APIResponse "Import failed"
// @Router /import-destinations [post]
func (h *Handler) ImportDestinations(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Importer.Run(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.CtxInfo(r.Context()).
		Int("imported", stats.Imported).
		Int("updated", stats.Updated).
		Msg("Import triggered via API")

	NewResponseWriter(w, r).Success(ImportResponse{
		Imported:   stats.Imported,
		Refreshed:  stats.Refreshed,
		Updated:    stats.Updated,
		Skipped:    stats.Skipped,
		DurationMs: stats.Duration().Milliseconds(),
	})
}
