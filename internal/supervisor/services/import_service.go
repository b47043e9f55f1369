// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/importer"
	"github.com/tomtom215/tourbuddy/internal/logging"
)

// Importer is satisfied by *importer.Importer.
type Importer interface {
	Run(ctx context.Context) (importer.Stats, error)
}

// ImportService runs one destination import when the tree starts.
//
// A failed run is returned to suture and retried with backoff. Once a run
// succeeds, or finds another import already in progress, the service returns
// suture.ErrDoNotRestart and leaves the tree.
type ImportService struct {
	importer Importer
	name     string
}

// NewImportService creates the service.
//
//	if cfg.Importer.RunOnStartup {
//	    tree.AddEventsService(services.NewImportService(imp))
//	}
func NewImportService(imp Importer) *ImportService {
	return &ImportService{
		importer: imp,
		name:     "destination-import",
	}
}

// Serve implements suture.Service.
func (s *ImportService) Serve(ctx context.Context) error {
	logging.Info().Msg("Starting destination import")

	stats, err := s.importer.Run(ctx)
	switch {
	case ctx.Err() != nil:
		logging.Info().Msg("Import canceled due to shutdown")
		return ctx.Err()
	case errors.Is(err, apperr.Conflict):
		logging.Info().Msg("Import already in progress, skipping startup run")
		return suture.ErrDoNotRestart
	case err != nil:
		return fmt.Errorf("import failed: %w", err)
	}

	logging.Info().
		Int("imported", stats.Imported).
		Int("refreshed", stats.Refreshed).
		Int("updated", stats.Updated).
		Msg("Startup import finished")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer for suture logs.
func (s *ImportService) String() string {
	return s.name
}
