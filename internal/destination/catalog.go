// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package destination serves destination lookups and nearby rankings.
//
// The full destination list is the ranking candidate set. It is read through
// a TTL cache that the event router invalidates whenever a review is added or
// an import changes the collection.
package destination

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/cache"
	"github.com/tomtom215/tourbuddy/internal/geo"
	"github.com/tomtom215/tourbuddy/internal/logging"
	"github.com/tomtom215/tourbuddy/internal/models"
	"github.com/tomtom215/tourbuddy/internal/ranking"
	"github.com/tomtom215/tourbuddy/internal/store"
)

const allKey = "all"

// Catalog reads destinations and ranks them for users.
type Catalog struct {
	destinations *store.Collection[models.Destination]
	users        *store.Collection[models.UserProfile]
	ranker       *ranking.Ranker
	cache        *cache.Cache[[]models.Destination]

	// generation is bumped on every invalidation so a load that raced with
	// one does not repopulate the cache with stale data.
	generation atomic.Uint64
}

// NewCatalog creates a catalog. A non-positive ttl disables caching.
func NewCatalog(db *store.DB, ranker *ranking.Ranker, ttl time.Duration) *Catalog {
	c := &Catalog{
		destinations: store.Destinations(db),
		users:        store.Users(db),
		ranker:       ranker,
	}
	if ttl > 0 {
		c.cache = cache.New[[]models.Destination]("destinations", ttl)
	}
	return c
}

// All returns every destination. The returned slice is shared and must not be modified.
func (c *Catalog) All(ctx context.Context) ([]models.Destination, error) {
	if c.cache != nil {
		if list, ok := c.cache.Get(allKey); ok {
			return list, nil
		}
	}

	gen := c.generation.Load()
	list, err := c.destinations.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "destination.All", "failed to load destinations", err)
	}

	if c.cache != nil && c.generation.Load() == gen {
		c.cache.Set(allKey, list)
	}
	return list, nil
}

// FindByCoordinates returns the destination stored at exactly lat/lon.
func (c *Catalog) FindByCoordinates(ctx context.Context, loc geo.Coordinate) (models.Destination, error) {
	const op = "destination.FindByCoordinates"

	if err := loc.Validate(); err != nil {
		return models.Destination{}, apperr.Wrap(apperr.KindValidation, op, "invalid coordinates", err)
	}

	matches, err := c.destinations.Query(ctx, func(d *models.Destination) bool {
		return d.Lat == loc.Lat && d.Lon == loc.Lon
	})
	if err != nil {
		return models.Destination{}, apperr.Wrap(apperr.KindUpstream, op, "failed to query destinations", err)
	}
	if len(matches) == 0 {
		return models.Destination{}, apperr.NotFoundf(op, "no destination at these coordinates")
	}
	return matches[0], nil
}

// NearbyRequest identifies the caller and their position.
type NearbyRequest struct {
	Email    string
	Location geo.Coordinate
}

// Nearby ranks all destinations for the user identified by req.Email.
func (c *Catalog) Nearby(ctx context.Context, req NearbyRequest) (ranking.Result, error) {
	const op = "destination.Nearby"

	if err := req.Location.Validate(); err != nil {
		return ranking.Result{}, apperr.Wrap(apperr.KindValidation, op, "invalid coordinates", err)
	}

	profile, err := c.users.Get(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return ranking.Result{}, apperr.NotFoundf(op, "user not found")
	}
	if err != nil {
		return ranking.Result{}, apperr.Wrap(apperr.KindUpstream, op, "failed to load user", err)
	}

	candidates, err := c.All(ctx)
	if err != nil {
		return ranking.Result{}, err
	}

	result, err := c.ranker.Rank(ctx, ranking.Request{
		UserID:   profile.ID,
		Location: req.Location,
		History:  profile.Reviews,
	}, candidates)
	if err != nil {
		logging.CtxWarn(ctx).Err(err).Str("mode", string(result.Mode)).Msg("Ranking failed")
		return result, err
	}
	return result, nil
}

// InvalidateDestinations implements events.Invalidator.
func (c *Catalog) InvalidateDestinations() {
	c.generation.Add(1)
	if c.cache != nil {
		c.cache.Delete(allKey)
	}
}

// Close stops the cache cleanup loop.
func (c *Catalog) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}
