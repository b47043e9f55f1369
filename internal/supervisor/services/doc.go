// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

/*
Package services provides suture.Service wrappers for Tourbuddy components.

Each wrapper translates a component lifecycle (ListenAndServe/Shutdown,
Run/Close, a one-shot Run) into suture's context-aware Serve and implements
fmt.Stringer so suture can name the service in its logs.

  - HTTPServerService: *http.Server with graceful shutdown
  - EventRouterService: the watermill router that invalidates caches
  - EmbeddedNATSService: owns the in-process NATS server's shutdown
  - ImportService: a one-shot destination import at startup

Serve returns ctx.Err() on a normal shutdown. ImportService returns
suture.ErrDoNotRestart once its run completes so it is removed from the tree.
*/
package services
