// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package importer loads destinations from the dataset CSV and backfills the
// fields derived from each destination document.
//
// A run has two phases:
//
//  1. Dataset upsert (only when importer.dataset_path is set): rows not yet
//     stored are created; rows already stored have their dataset fields merged
//     in place, leaving reviews and aggregates untouched.
//  2. Backfill: every destination gets photoUrl, url_maps and rating_count
//     recomputed. Documents that already match are not rewritten.
//
// Only one run may be in progress at a time.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/config"
	"github.com/tomtom215/tourbuddy/internal/geo"
	"github.com/tomtom215/tourbuddy/internal/logging"
	"github.com/tomtom215/tourbuddy/internal/metrics"
	"github.com/tomtom215/tourbuddy/internal/models"
	"github.com/tomtom215/tourbuddy/internal/store"
)

// Publisher is notified after a run changed at least one destination.
type Publisher interface {
	PublishDestinationsImported(ctx context.Context, stats Stats) error
}

// Stats holds statistics about an import run.
type Stats struct {
	// Imported is the number of destinations created from the dataset.
	Imported int `json:"imported"`

	// Refreshed is the number of existing destinations whose dataset fields were merged.
	Refreshed int `json:"refreshed"`

	// Updated is the number of destinations rewritten by the backfill.
	Updated int `json:"updated"`

	// Skipped is the number of dataset rows rejected as invalid.
	Skipped int `json:"skipped"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Duration returns the duration of the run.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Importer runs dataset imports and backfills.
type Importer struct {
	cfg          config.ImporterConfig
	destinations *store.Collection[models.Destination]
	publisher    Publisher

	mu      sync.Mutex
	running bool
	last    *Stats
}

// New creates an importer. publisher may be nil.
func New(cfg config.ImporterConfig, db *store.DB, publisher Publisher) *Importer {
	if cfg.PhotoBaseURL == "" {
		cfg.PhotoBaseURL = config.DefaultPhotoBaseURL
	}
	cfg.PhotoBaseURL = strings.TrimRight(cfg.PhotoBaseURL, "/")

	return &Importer{
		cfg:          cfg,
		destinations: store.Destinations(db),
		publisher:    publisher,
	}
}

// Run performs one import. It returns a Conflict error if a run is already in progress.
func (i *Importer) Run(ctx context.Context) (Stats, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return Stats{}, apperr.New(apperr.KindConflict, "importer.Run", "import already in progress")
	}
	i.running = true
	i.mu.Unlock()

	stats := Stats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
		i.mu.Lock()
		i.running = false
		last := stats
		i.last = &last
		i.mu.Unlock()
	}()

	if i.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.Timeout)
		defer cancel()
	}

	err := i.run(ctx, &stats)
	metrics.RecordImport(stats.Imported, stats.Updated, err)
	if err != nil {
		return stats, apperr.Wrap(apperr.KindUpstream, "importer.Run", "import failed", err)
	}

	logging.Info().
		Int("imported", stats.Imported).
		Int("refreshed", stats.Refreshed).
		Int("updated", stats.Updated).
		Int("skipped", stats.Skipped).
		Dur("duration", time.Since(stats.StartTime)).
		Msg("Destination import completed")

	if i.publisher != nil && stats.Imported+stats.Refreshed+stats.Updated > 0 {
		if err := i.publisher.PublishDestinationsImported(ctx, stats); err != nil {
			logging.Warn().Err(err).Msg("Failed to publish destinations.imported event")
		}
	}

	return stats, nil
}

func (i *Importer) run(ctx context.Context, stats *Stats) error {
	if i.cfg.DatasetPath != "" {
		if err := i.importDataset(ctx, stats); err != nil {
			return err
		}
	}
	return i.backfill(ctx, stats)
}

// importDataset creates missing destinations and merges dataset fields into
// existing ones.
func (i *Importer) importDataset(ctx context.Context, stats *Stats) error {
	reader, err := NewDatasetReader(ctx, i.cfg.DatasetPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing dataset reader")
		}
	}()

	rows, err := reader.ReadAll(ctx)
	if err != nil {
		return err
	}

	for n := range rows {
		row := &rows[n]
		if err := ctx.Err(); err != nil {
			return err
		}

		if !row.Valid || (geo.Coordinate{Lat: row.Lat, Lon: row.Lon}).Validate() != nil {
			stats.Skipped++
			logging.Warn().Str("destination_id", row.ID).Msg("Skipping dataset row with invalid coordinates")
			continue
		}

		d := models.Destination{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			City:        row.City,
			Category:    row.Category,
			Lat:         row.Lat,
			Lon:         row.Lon,
			Rating:      row.Rating,
			Reviews:     []models.Review{},
		}
		err := i.destinations.Create(ctx, row.ID, d)
		switch {
		case err == nil:
			stats.Imported++
		case errors.Is(err, store.ErrExists):
			if err := i.destinations.Merge(ctx, row.ID, datasetFields(&d)); err != nil {
				return fmt.Errorf("merge destination %s: %w", row.ID, err)
			}
			stats.Refreshed++
		default:
			return fmt.Errorf("create destination %s: %w", row.ID, err)
		}
	}
	return nil
}

// datasetFields are the document fields owned by the dataset.
func datasetFields(d *models.Destination) map[string]any {
	return map[string]any{
		"destination_id": d.ID,
		"place_name":     d.Name,
		"description":    d.Description,
		"city":           d.City,
		"category":       d.Category,
		"lat":            d.Lat,
		"lon":            d.Lon,
		"rating":         d.Rating,
	}
}

// backfill recomputes the derived fields of every destination.
func (i *Importer) backfill(ctx context.Context, stats *Stats) error {
	all, err := i.destinations.List(ctx)
	if err != nil {
		return fmt.Errorf("list destinations: %w", err)
	}

	for n := range all {
		id := all[n].ID
		if id == "" {
			continue
		}

		changed := false
		_, err := i.destinations.Update(ctx, id, func(d *models.Destination) error {
			changed = i.applyDerived(d)
			if !changed {
				return store.ErrSkipWrite
			}
			return nil
		})
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("backfill destination %s: %w", id, err)
		}
		if changed {
			stats.Updated++
		}
	}
	return nil
}

// applyDerived sets photoUrl, url_maps and rating_count, reporting whether any changed.
func (i *Importer) applyDerived(d *models.Destination) bool {
	photo := PhotoURL(i.cfg.PhotoBaseURL, d.ID)
	maps := MapsURL(d.Lat, d.Lon)
	count := len(d.Reviews)

	if d.PhotoURL == photo && d.MapsURL == maps && d.RatingCount == count {
		return false
	}
	d.PhotoURL = photo
	d.MapsURL = maps
	d.RatingCount = count
	return true
}

// PhotoURL returns the dataset image URL for a destination.
func PhotoURL(baseURL, destinationID string) string {
	return baseURL + "/" + destinationID + ".jpg"
}

// MapsURL returns a Google Maps link for the coordinates.
func MapsURL(lat, lon float64) string {
	return "https://maps.google.com/?q=" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(lon, 'f', -1, 64)
}

// LastRun returns the stats of the most recent completed run, if any.
func (i *Importer) LastRun() (Stats, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.last == nil {
		return Stats{}, false
	}
	return *i.last, true
}

// IsRunning reports whether a run is in progress.
func (i *Importer) IsRunning() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.running
}
