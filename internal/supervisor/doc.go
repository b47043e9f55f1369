// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

/*
Package supervisor provides process supervision for Tourbuddy using suture v4.

Every long-running component runs under a two-layer supervisor tree:

	RootSupervisor ("tourbuddy")
	├── EventsSupervisor ("events-layer")
	│   ├── EmbeddedNATSService (if events.embedded_nats)
	│   ├── EventRouterService
	│   └── ImportService (if importer.run_on_startup, one-shot)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervision events are
logged through sutureslog into the zerolog-backed slog handler.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddEventsService(services.NewEventRouterService(router))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

See the services subpackage for the suture.Service wrappers.
*/
package supervisor
