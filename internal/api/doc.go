// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

/*
Package api provides the Tourbuddy HTTP API on a Chi router.

# Routes

	GET  /api/v1/health/live            liveness
	GET  /api/v1/health/ready           store ping, breaker and router state
	POST /api/v1/auth/signup            create account, returns token
	POST /api/v1/auth/login             returns token
	GET  /api/v1/destination            lookup by exact lat/lon
	GET  /api/v1/review                 list reviews of a destination
	POST /api/v1/addreview              submit a review (token optional)
	GET  /api/v1/nearby-destinations    ranked recommendations (token required)
	POST /api/v1/import-destinations    dataset import and backfill (admin)
	GET  /metrics                       Prometheus
	GET  /swagger/*                     OpenAPI UI

# Responses

Every response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}, "meta": {...}}

Domain errors are classified with internal/apperr and mapped to HTTP status
in errors.go: validation 400, unauthorized 401, forbidden 403, not found 404,
conflict 409, upstream 502. Unclassified errors are 500 and their details are
only logged.

# Middleware

Global: request ID with logging context, RealIP, Recoverer, CORS. Route
groups add per-IP httprate limits (stricter for auth, login and writes),
security headers and Prometheus request metrics. Authorization for
nearby-destinations and import-destinations is checked with casbin after
JWT authentication.
*/
package api
