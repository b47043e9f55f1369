// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package api

import (
	"context"
	"time"

	"github.com/tomtom215/tourbuddy/internal/account"
	"github.com/tomtom215/tourbuddy/internal/destination"
	"github.com/tomtom215/tourbuddy/internal/geo"
	"github.com/tomtom215/tourbuddy/internal/importer"
	"github.com/tomtom215/tourbuddy/internal/models"
	"github.com/tomtom215/tourbuddy/internal/ranking"
	"github.com/tomtom215/tourbuddy/internal/review"
)

// Accounts is satisfied by *account.Service.
type Accounts interface {
	Signup(ctx context.Context, req account.SignupRequest, ip string) (account.SignupResult, error)
	Login(ctx context.Context, req account.LoginRequest, ip string) (account.LoginResult, error)
}

// Destinations is satisfied by *destination.Catalog.
type Destinations interface {
	FindByCoordinates(ctx context.Context, loc geo.Coordinate) (models.Destination, error)
	Nearby(ctx context.Context, req destination.NearbyRequest) (ranking.Result, error)
}

// Reviews is satisfied by *review.Service.
type Reviews interface {
	Submit(ctx context.Context, sub review.Submission) (review.Result, review.Advisory, error)
	List(ctx context.Context, destinationID string) (review.Listing, error)
}

// ImportRunner is satisfied by *importer.Importer.
type ImportRunner interface {
	Run(ctx context.Context) (importer.Stats, error)
}

// Pinger reports store availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerState reports the prediction circuit breaker state.
type BreakerState interface {
	State() string
}

// EventsState reports whether the event router is consuming.
type EventsState interface {
	IsRunning() bool
}

// Dependencies holds the services behind the HTTP handlers. Breaker and
// Events are optional.
type Dependencies struct {
	Accounts     Accounts
	Destinations Destinations
	Reviews      Reviews
	Importer     ImportRunner
	Store        Pinger
	Breaker      BreakerState
	Events       EventsState
}

// Handler serves the Tourbuddy HTTP API.
type Handler struct {
	deps      Dependencies
	startTime time.Time
}

// NewHandler creates a handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		deps:      deps,
		startTime: time.Now(),
	}
}
