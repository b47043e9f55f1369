// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"

	"github.com/tomtom215/tourbuddy/internal/config"
	"github.com/tomtom215/tourbuddy/internal/logging"
	"github.com/tomtom215/tourbuddy/internal/metrics"
	"github.com/tomtom215/tourbuddy/internal/review"
)

// Invalidator drops cached destination data.
type Invalidator interface {
	InvalidateDestinations()
}

// Router consumes bus events with panic recovery and retry.
type Router struct {
	router *message.Router
}

// NewRouter creates a router whose handlers invalidate the destination cache
// on review.added and destinations.imported.
func NewRouter(cfg config.EventsConfig, bus *Bus, invalidator Invalidator) (*Router, error) {
	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, bus.logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Outer to inner: correlation, panic recovery, retry.
	wmRouter.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      cfg.RetryCount,
			InitialInterval: cfg.RetryInterval,
			Logger:          bus.logger,
		}.Middleware,
	)

	wmRouter.AddConsumerHandler(
		"invalidate_on_review_added",
		TopicReviewAdded,
		bus.Subscriber(),
		reviewAddedHandler(invalidator),
	)
	wmRouter.AddConsumerHandler(
		"invalidate_on_destinations_imported",
		TopicDestinationsImported,
		bus.Subscriber(),
		func(msg *message.Message) error {
			metrics.EventsConsumed.WithLabelValues(TopicDestinationsImported).Inc()
			invalidator.InvalidateDestinations()
			return nil
		},
	)

	return &Router{router: wmRouter}, nil
}

// reviewAddedHandler invalidates the cache. Undecodable payloads are logged
// and acknowledged so they are not redelivered.
func reviewAddedHandler(invalidator Invalidator) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		metrics.EventsConsumed.WithLabelValues(TopicReviewAdded).Inc()

		var event review.Added
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed review.added event")
			return nil
		}

		invalidator.InvalidateDestinations()
		logging.Debug().
			Str("destination_id", event.DestinationID).
			Str("correlation_id", middleware.MessageCorrelationID(msg)).
			Msg("Destination cache invalidated after review")
		return nil
	}
}

// Run blocks until ctx is canceled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// IsRunning reports whether the router is processing messages.
func (r *Router) IsRunning() bool {
	return r.router.IsRunning()
}

// Close stops the router, waiting up to CloseTimeout for handlers.
func (r *Router) Close() error {
	return r.router.Close()
}
