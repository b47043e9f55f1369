// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry via promauto and exposed at
/metrics by promhttp.

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)

Ranking Metrics:
  - ranking_requests_total: Nearby-destination rankings (counter)
    Labels: mode (geo, personalized), outcome (success, failure)
  - ranking_candidates_returned: Destinations kept after filtering (histogram)
  - prediction_request_duration_seconds: Prediction service latency (histogram)

Review Metrics:
  - reviews_submitted_total: Accepted review submissions (counter)
  - review_profile_updates_total: Profile denormalization outcome (counter)
    Labels: status (updated, skipped, failed)
  - review_aggregate_repairs_total: Read-time aggregate repairs (counter)

Store Metrics:
  - store_conflict_retries_total: Optimistic transaction retries (counter)
    Labels: collection

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_state_transitions_total: Labels name, from_state, to_state

Cache and Event Metrics:
  - cache_hits_total / cache_misses_total: Labels cache_type
  - events_published_total / events_consumed_total: Labels topic
  - import_runs_total: Labels outcome
*/
package metrics
