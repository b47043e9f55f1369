// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Ranking Metrics
	RankingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_requests_total",
			Help: "Total number of nearby-destination rankings",
		},
		[]string{"mode", "outcome"},
	)

	RankingCandidatesReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ranking_candidates_returned",
			Help:    "Number of destinations returned after filtering",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"mode"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prediction_request_duration_seconds",
			Help:    "Duration of prediction service calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Review Metrics
	ReviewsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_submitted_total",
			Help: "Total number of accepted review submissions",
		},
	)

	ReviewProfileUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_profile_updates_total",
			Help: "Outcome of denormalizing a review onto the author's profile",
		},
		[]string{"status"}, // updated, skipped, failed
	)

	ReviewAggregateRepairs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "review_aggregate_repairs_total",
			Help: "Total number of stale aggregates repaired at read time",
		},
	)

	// Store Metrics
	StoreConflictRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_conflict_retries_total",
			Help: "Total number of optimistic transaction retries after a conflict",
		},
		[]string{"collection"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry or invalidation)",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"topic"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of domain events handled",
		},
		[]string{"topic"},
	)

	// Import Metrics
	ImportRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_runs_total",
			Help: "Total number of destination import runs",
		},
		[]string{"outcome"},
	)

	ImportDestinations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_destinations_total",
			Help: "Destinations written by the importer",
		},
		[]string{"action"}, // imported, updated
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRanking records the outcome of a ranking request.
func RecordRanking(mode string, returned int, err error) {
	if err != nil {
		RankingRequests.WithLabelValues(mode, "failure").Inc()
		return
	}
	RankingRequests.WithLabelValues(mode, "success").Inc()
	RankingCandidatesReturned.WithLabelValues(mode).Observe(float64(returned))
}

// RecordPrediction records the latency of a prediction call.
func RecordPrediction(duration time.Duration) {
	PredictionDuration.Observe(duration.Seconds())
}

// RecordReviewSubmitted records an accepted review and its profile update status.
func RecordReviewSubmitted(profileStatus string) {
	ReviewsSubmitted.Inc()
	ReviewProfileUpdates.WithLabelValues(profileStatus).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordImport records a completed import run.
func RecordImport(imported, updated int, err error) {
	if err != nil {
		ImportRuns.WithLabelValues("failure").Inc()
		return
	}
	ImportRuns.WithLabelValues("success").Inc()
	ImportDestinations.WithLabelValues("imported").Add(float64(imported))
	ImportDestinations.WithLabelValues("updated").Add(float64(updated))
}
