// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package api

import (
	"net/http"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/auth"
	"github.com/tomtom215/tourbuddy/internal/destination"
	"github.com/tomtom215/tourbuddy/internal/models"
	"github.com/tomtom215/tourbuddy/internal/ranking"
)

// DestinationResponse wraps a destination lookup.
type DestinationResponse struct {
	ListDestinations []models.Destination `json:"listDestinations"`
}

// NearbyResponse is a ranked destination list.
type NearbyResponse struct {
	ListDestinations []models.RankedDestination `json:"listDestinations"`
	Mode             ranking.Mode               `json:"mode"`
}

// Destination looks up the destination at exact coordinates.
//
// @Summary Get destination by coordinates
// @Tags Destinations
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} APIResponse{data=DestinationResponse}
// @Failure 400 {object} APIResponse "Invalid coordinates"
// @Failure 404 {object} APIResponse "No destination at these coordinates"
// @Router /destination [get]
func (h *Handler) Destination(w http.ResponseWriter, r *http.Request) {
	loc, err := parseCoordinates(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	d, err := h.deps.Destinations.FindByCoordinates(r.Context(), loc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(DestinationResponse{ListDestinations: []models.Destination{d}})
}

// NearbyDestinations ranks destinations for the authenticated user.
//
// Users with review history get model-scored results; others get rated
// destinations within 30km.
//
// @Summary Recommend nearby destinations
// @Tags Destinations
// @Produce json
// @Security BearerAuth
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} APIResponse{data=NearbyResponse}
// @Failure 400 {object} APIResponse "Invalid coordinates"
// @Failure 401 {object} APIResponse "Authentication required"
// @Failure 502 {object} APIResponse "Prediction service failed"
// @Router /nearby-destinations [get]
func (h *Handler) NearbyDestinations(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, apperr.New(apperr.KindUnauthorized, "api.NearbyDestinations", "authentication required"))
		return
	}

	loc, err := parseCoordinates(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.deps.Destinations.Nearby(r.Context(), destination.NearbyRequest{
		Email:    claims.Email,
		Location: loc,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	list := result.Destinations
	if list == nil {
		list = []models.RankedDestination{}
	}
	NewResponseWriter(w, r).Success(NearbyResponse{ListDestinations: list, Mode: result.Mode})
}
