// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package services

import (
	"context"
	"fmt"
	"time"
)

// NATSServer is satisfied by *events.EmbeddedServer.
type NATSServer interface {
	Shutdown(ctx context.Context) error
	IsRunning() bool
}

// EmbeddedNATSService ties the embedded NATS server's lifetime to the tree.
//
// The server is started before the event bus connects to it, so the service
// only watches for unexpected exits and shuts the server down with the tree.
type EmbeddedNATSService struct {
	server          NATSServer
	shutdownTimeout time.Duration
	pollInterval    time.Duration
	name            string
}

// NewEmbeddedNATSService wraps server. A non-positive shutdownTimeout uses 10s.
func NewEmbeddedNATSService(server NATSServer, shutdownTimeout time.Duration) *EmbeddedNATSService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &EmbeddedNATSService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		pollInterval:    time.Second,
		name:            "embedded-nats",
	}
}

// Serve implements suture.Service.
//
// A server that stopped on its own cannot be restarted in place; the error
// makes suture log the failure and back off.
func (s *EmbeddedNATSService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := s.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("embedded NATS shutdown failed: %w", err)
			}
			return ctx.Err()
		case <-ticker.C:
			if !s.server.IsRunning() {
				return fmt.Errorf("embedded NATS server is not running")
			}
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (s *EmbeddedNATSService) String() string {
	return s.name
}
