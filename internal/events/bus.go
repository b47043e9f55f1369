// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package events carries domain events between components using Watermill.
//
// Two transports are supported:
//
//   - Go channels (default): in-process, for single-instance deployments
//   - NATS core pub/sub: when events.nats_url is set or the embedded server
//     is enabled; every instance receives every event
//
// Events are JSON payloads. Delivery is at most once; consumers must tolerate
// a missed event (the destination cache also expires on its TTL).
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/tourbuddy/internal/config"
	"github.com/tomtom215/tourbuddy/internal/importer"
	"github.com/tomtom215/tourbuddy/internal/logging"
	"github.com/tomtom215/tourbuddy/internal/metrics"
	"github.com/tomtom215/tourbuddy/internal/review"
)

// Topics.
const (
	TopicReviewAdded          = "review.added"
	TopicDestinationsImported = "destinations.imported"
)

// Transport names reported by Bus.Transport.
const (
	TransportGoChannel = "gochannel"
	TransportNATS      = "nats"
)

// Bus publishes domain events and exposes the subscriber the router reads from.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     watermill.LoggerAdapter
	transport  string

	closeOnce sync.Once
	closeErr  error
}

// NewLogger returns the Watermill logger backed by the global zerolog logger.
func NewLogger() watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logging.NewSlogLogger())
}

// NewBus creates a bus. natsURL overrides cfg.NATSURL, e.g. with the embedded
// server's client URL. An empty URL selects the Go channel transport.
func NewBus(cfg config.EventsConfig, natsURL string) (*Bus, error) {
	logger := NewLogger()
	if natsURL == "" {
		natsURL = cfg.NATSURL
	}

	if natsURL == "" {
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
		return &Bus{publisher: ch, subscriber: ch, logger: logger, transport: TransportGoChannel}, nil
	}

	natsOpts := []natsgo.Option{
		natsgo.Name("tourbuddy"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         natsURL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	subscribers := cfg.SubscribersCount
	if subscribers < 1 {
		subscribers = 1
	}
	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              natsURL,
		SubscribersCount: subscribers,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create nats subscriber: %w", err)
	}

	return &Bus{publisher: pub, subscriber: sub, logger: logger, transport: TransportNATS}, nil
}

// Transport reports which transport the bus uses.
func (b *Bus) Transport() string {
	return b.transport
}

// Subscriber returns the subscriber for router handlers. Closing it is a
// no-op; the bus owns the underlying subscriber, which must outlive router
// restarts.
func (b *Bus) Subscriber() message.Subscriber {
	return routerSubscriber{b.subscriber}
}

// routerSubscriber ignores the Close a watermill router issues on shutdown.
type routerSubscriber struct {
	message.Subscriber
}

func (routerSubscriber) Close() error { return nil }

// PublishReviewAdded implements review.Publisher.
func (b *Bus) PublishReviewAdded(ctx context.Context, event review.Added) error {
	return b.publish(ctx, TopicReviewAdded, event)
}

// PublishDestinationsImported implements importer.Publisher.
func (b *Bus) PublishDestinationsImported(ctx context.Context, stats importer.Stats) error {
	return b.publish(ctx, TopicDestinationsImported, stats)
}

func (b *Bus) publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}

	if err := b.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// Close closes the publisher and subscriber.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.publisher.Close()
		if b.transport == TransportNATS {
			if err := b.subscriber.Close(); err != nil && b.closeErr == nil {
				b.closeErr = err
			}
		}
	})
	return b.closeErr
}
