// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

/*
Package main is the entry point for the Tourbuddy server.

Tourbuddy serves tourist destinations around Jakarta: coordinate lookup,
reviews with a maintained average rating, and nearby recommendations that are
personalized by an external prediction model once a user has review history.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("tourbuddy")
	├── EventsSupervisor ("events-layer")
	│   ├── Embedded NATS server (optional)
	│   ├── Event router (review.added, destinations.imported)
	│   └── Startup import (one shot)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Store: BadgerDB document collections (destinations, users)
 4. Events: Watermill over Go channels or NATS
 5. Prediction: HTTP client behind rate limiter and circuit breaker
 6. Services: catalog, reviews, accounts, importer
 7. Authorization: Casbin role policy
 8. HTTP Server: Chi router with middleware stack

# Configuration

	# Server
	PORT=5000
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Authentication
	JWT_SECRET=<32+ chars>       # Required
	ADMIN_EMAILS=ops@example.com

	# Store
	BADGER_PATH=/data/tourbuddy
	BADGER_IN_MEMORY=false

	# Prediction (personalized mode is disabled when unset)
	ENDPOINT_URL=https://.../endpoints/123:predict
	ACCESS_TOKEN=<bearer token>

	# Import
	DATASET_PATH=/data/destinations.csv
	IMPORT_ON_STARTUP=true

	# Events
	NATS_URL=nats://localhost:4222   # empty uses in-process channels
	NATS_EMBEDDED=false

# Usage

	JWT_SECRET=$(openssl rand -base64 32) ./tourbuddy

# Swagger

@title Tourbuddy API
@version 1.0
@description Travel destination lookup, reviews and recommendations.
@BasePath /api/v1
@securityDefinitions.apikey BearerAuth
@in header
@name Authorization
*/
package main
