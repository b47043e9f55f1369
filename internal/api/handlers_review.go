// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/auth"
	"github.com/tomtom215/tourbuddy/internal/models"
	"github.com/tomtom215/tourbuddy/internal/review"
)

// ReviewListResponse is a destination's reviews and aggregate.
type ReviewListResponse struct {
	ListReviews   []models.Review `json:"listReviews"`
	AverageRating float64         `json:"averageRating"`
	RatingCount   int             `json:"ratingCount"`
}

// AddReviewResponse is the committed review with the advisory outcome of
// the best-effort steps.
type AddReviewResponse struct {
	review.Result
	ProfileStatus review.Status `json:"profile_status"`
	EventStatus   review.Status `json:"event_status"`
}

// Reviews lists the reviews of a destination.
//
// @Summary List reviews
// @Tags Reviews
// @Produce json
// @Param destination_id query string true "Destination ID"
// @Success 200 {object} APIResponse{data=ReviewListResponse}
// @Failure 404 {object} APIResponse "Destination missing or has no reviews"
// @Router /review [get]
func (h *Handler) Reviews(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("destination_id"))
	if id == "" {
		respondError(w, r, apperr.Validationf("api.Reviews", "destination_id is required"))
		return
	}

	listing, err := h.deps.Reviews.List(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(ReviewListResponse{
		ListReviews:   listing.Reviews,
		AverageRating: listing.AverageRating,
		RatingCount:   listing.RatingCount,
	})
}

// AddReview submits a review. A bearer token is optional; without one the
// review is recorded as Anonymous.
//
// @Summary Add a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddReviewRequest true "Review"
// @Success 201 {object} APIResponse{data=AddReviewResponse}
// @Failure 400 {object} APIResponse "Validation failed"
// @Failure 401 {object} APIResponse "Invalid token"
// @Failure 404 {object} APIResponse "Destination not found"
// @Router /addreview [post]
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req AddReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub := review.Submission{
		DestinationID: req.DestinationID,
		Text:          req.Review,
		Rating:        int(req.Rating),
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		sub.ReviewerName = claims.Name
		sub.UserEmail = claims.Email
	}

	result, advisory, err := h.deps.Reviews.Submit(r.Context(), sub)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(AddReviewResponse{
		Result:        result,
		ProfileStatus: advisory.Profile,
		EventStatus:   advisory.Event,
	})
}
