// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package api

import (
	"net/http"
	"time"
)

// ReadinessStatus is the readiness probe payload.
type ReadinessStatus struct {
	Ready             bool    `json:"ready"`
	DatabaseConnected bool    `json:"database_connected"`
	PredictionBreaker string  `json:"prediction_breaker"`
	EventsRunning     *bool   `json:"events_running,omitempty"`
	Uptime            float64 `json:"uptime"`
}

// HealthLive handles liveness probes. It never checks dependencies.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probes. The service is ready when the store
// answers; an open prediction breaker degrades personalized ranking only and
// is reported without failing the probe.
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=ReadinessStatus}
// @Failure 503 {object} APIResponse "Store unavailable"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := ReadinessStatus{
		PredictionBreaker: "disabled",
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	status.DatabaseConnected = h.deps.Store != nil && h.deps.Store.Ping(r.Context()) == nil
	status.Ready = status.DatabaseConnected

	if h.deps.Breaker != nil {
		status.PredictionBreaker = h.deps.Breaker.State()
	}
	if h.deps.Events != nil {
		running := h.deps.Events.IsRunning()
		status.EventsRunning = &running
	}

	rw := NewResponseWriter(w, r)
	if !status.Ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "service is not ready", status)
		return
	}
	rw.Success(status)
}
