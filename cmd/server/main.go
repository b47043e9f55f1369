// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tourbuddy/internal/account"
	"github.com/tomtom215/tourbuddy/internal/api"
	"github.com/tomtom215/tourbuddy/internal/auth"
	"github.com/tomtom215/tourbuddy/internal/authz"
	"github.com/tomtom215/tourbuddy/internal/config"
	"github.com/tomtom215/tourbuddy/internal/destination"
	"github.com/tomtom215/tourbuddy/internal/events"
	"github.com/tomtom215/tourbuddy/internal/importer"
	"github.com/tomtom215/tourbuddy/internal/logging"
	"github.com/tomtom215/tourbuddy/internal/prediction"
	"github.com/tomtom215/tourbuddy/internal/ranking"
	"github.com/tomtom215/tourbuddy/internal/review"
	"github.com/tomtom215/tourbuddy/internal/store"
	"github.com/tomtom215/tourbuddy/internal/supervisor"
	"github.com/tomtom215/tourbuddy/internal/supervisor/services"

	_ "github.com/tomtom215/tourbuddy/docs"
)

// authzCacheTTL bounds how long Casbin decisions are cached.
const authzCacheTTL = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Tourbuddy")

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("SECURITY WARNING: rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("SECURITY WARNING: CORS allows all origins (CORS_ORIGINS=*)")
			break
		}
	}

	db, err := store.Open(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Bool("in_memory", cfg.Database.InMemory).Str("path", cfg.Database.Path).Msg("Store opened")

	var natsServer *events.EmbeddedServer
	natsURL := cfg.Events.NATSURL
	if cfg.Events.EmbeddedNATS {
		natsServer, err = events.NewEmbeddedServer(cfg.Events.NATSPort)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to start embedded NATS server")
		}
		natsURL = natsServer.ClientURL()
		logging.Info().Str("url", natsURL).Msg("Embedded NATS server started")
	}

	bus, err := events.NewBus(cfg.Events, natsURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()
	logging.Info().Str("transport", bus.Transport()).Msg("Event bus ready")

	// A nil *BreakerPredictor must not reach the interface fields below.
	var predictor ranking.Predictor
	var breaker api.BreakerState
	if bp := prediction.NewFromConfig(cfg.Prediction); bp != nil {
		predictor = bp
		breaker = bp
		logging.Info().Str("endpoint", cfg.Prediction.URL()).Msg("Prediction endpoint configured")
	} else {
		logging.Info().Msg("Prediction endpoint not configured, personalized recommendations disabled")
	}

	catalog := destination.NewCatalog(db, ranking.NewRanker(predictor), cfg.Cache.DestinationsTTL)
	defer catalog.Close()

	reviews := review.NewService(db, bus)
	imp := importer.New(cfg.Importer, db, bus)

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create JWT manager")
	}
	accounts := account.NewService(db, jwtManager, cfg.Security)

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{CacheTTL: authzCacheTTL})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create authorization enforcer")
	}
	defer enforcer.Close()

	routerSvc := services.NewEventRouterService(func() (services.EventRouter, error) {
		r, err := events.NewRouter(cfg.Events, bus, catalog)
		if err != nil {
			return nil, err
		}
		return r, nil
	})

	handler := api.NewHandler(api.Dependencies{
		Accounts:     accounts,
		Destinations: catalog,
		Reviews:      reviews,
		Importer:     imp,
		Store:        db,
		Breaker:      breaker,
		Events:       routerSvc,
	})
	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager), authz.NewMiddleware(enforcer),
		api.NewChiMiddlewareFromSecurity(cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if natsServer != nil {
		tree.AddEventsService(services.NewEmbeddedNATSService(natsServer, cfg.Server.ShutdownTimeout))
	}
	tree.AddEventsService(routerSvc)
	if cfg.Importer.RunOnStartup {
		tree.AddEventsService(services.NewImportService(imp))
		logging.Info().Str("dataset", cfg.Importer.DatasetPath).Msg("Startup import scheduled")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Tourbuddy stopped gracefully")
}
