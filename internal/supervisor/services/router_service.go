// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/tourbuddy/internal/logging"
)

// EventRouter is satisfied by *events.Router.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
	IsRunning() bool
}

// EventRouterService runs the event router under supervision.
//
// A watermill router cannot be run twice, so the service takes a factory and
// builds a fresh router on every (re)start.
type EventRouterService struct {
	newRouter func() (EventRouter, error)
	name      string

	mu      sync.Mutex
	current EventRouter
}

// NewEventRouterService creates the service. newRouter is called once per Serve.
func NewEventRouterService(newRouter func() (EventRouter, error)) *EventRouterService {
	return &EventRouterService{
		newRouter: newRouter,
		name:      "event-router",
	}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.newRouter()
	if err != nil {
		return fmt.Errorf("event router setup failed: %w", err)
	}
	s.setCurrent(router)
	defer s.setCurrent(nil)

	err = router.Run(ctx)

	// Run returns after Close completes when ctx is canceled; Close is
	// idempotent and covers the crash path.
	if closeErr := router.Close(); closeErr != nil {
		logging.Warn().Err(closeErr).Msg("Event router close failed")
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("event router stopped: %w", err)
	}
	return fmt.Errorf("event router stopped unexpectedly")
}

// IsRunning reports whether the current router is processing messages.
func (s *EventRouterService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.current.IsRunning()
}

func (s *EventRouterService) setCurrent(r EventRouter) {
	s.mu.Lock()
	s.current = r
	s.mu.Unlock()
}

// String implements fmt.Stringer for suture logs.
func (s *EventRouterService) String() string {
	return s.name
}
