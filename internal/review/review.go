// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package review accepts destination reviews and serves review listings.
//
// A submission is committed in one optimistic read-modify-write of the
// destination document: the review is appended and the aggregate recomputed
// together, so concurrent submissions never lose a review or leave a stale
// average. Denormalizing the review onto the author's profile and publishing
// the review.added event happen afterwards and are best effort; their outcome
// is reported as an Advisory and never fails the submission.
package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/logging"
	"github.com/tomtom215/tourbuddy/internal/metrics"
	"github.com/tomtom215/tourbuddy/internal/models"
	"github.com/tomtom215/tourbuddy/internal/rating"
	"github.com/tomtom215/tourbuddy/internal/store"
)

// ErrNoReviews is returned by List when the destination exists but has no reviews.
var ErrNoReviews = apperr.New(apperr.KindNotFound, "review.List", "no reviews found for this destination")

// Status is the outcome of a best-effort follow-up step.
type Status string

const (
	StatusUpdated   Status = "updated"
	StatusPublished Status = "published"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Submission is a review to add.
type Submission struct {
	DestinationID string
	Text          string
	Rating        int

	// ReviewerName is shown with the review; empty means Anonymous.
	ReviewerName string

	// UserEmail identifies the author's profile. Empty for anonymous reviews.
	UserEmail string
}

// Result is the committed review and the destination's new aggregate.
type Result struct {
	DestinationID string        `json:"destination_id"`
	Review        models.Review `json:"review"`
	AverageRating *float64      `json:"average_rating,omitempty"`
	RatingCount   int           `json:"rating_count"`
}

// Advisory reports best-effort steps that ran after the review was committed.
type Advisory struct {
	Profile Status `json:"profile"`
	Event   Status `json:"event"`
}

// Listing is a destination's reviews with their aggregate.
type Listing struct {
	DestinationID string          `json:"destination_id"`
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	RatingCount   int             `json:"rating_count"`
}

// Added is the payload of the review.added event.
type Added struct {
	DestinationID string    `json:"destination_id"`
	Rating        int       `json:"rating"`
	RatingCount   int       `json:"rating_count"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher publishes review events.
type Publisher interface {
	PublishReviewAdded(ctx context.Context, event Added) error
}

// Service implements review submission and listing.
type Service struct {
	destinations *store.Collection[models.Destination]
	users        *store.Collection[models.UserProfile]
	publisher    Publisher
	now          func() time.Time
}

// NewService creates a review service. publisher may be nil.
func NewService(db *store.DB, publisher Publisher) *Service {
	return &Service{
		destinations: store.Destinations(db),
		users:        store.Users(db),
		publisher:    publisher,
		now:          time.Now,
	}
}

// Submit validates and commits a review, then runs the best-effort steps.
func (s *Service) Submit(ctx context.Context, sub Submission) (Result, Advisory, error) {
	const op = "review.Submit"

	sub.DestinationID = strings.TrimSpace(sub.DestinationID)
	if sub.DestinationID == "" {
		return Result{}, Advisory{}, apperr.Validationf(op, "destination_id is required")
	}
	if !rating.ValidScore(sub.Rating) {
		return Result{}, Advisory{}, apperr.Validationf(op, "rating must be an integer between %d and %d", rating.MinScore, rating.MaxScore)
	}

	reviewer := strings.TrimSpace(sub.ReviewerName)
	if reviewer == "" {
		reviewer = models.AnonymousReviewer
	}
	rev := models.Review{
		ReviewerName: reviewer,
		Text:         sub.Text,
		Rating:       sub.Rating,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}

	updated, err := s.destinations.Update(ctx, sub.DestinationID, func(d *models.Destination) error {
		d.Reviews = append(d.Reviews, rev)
		rating.Apply(d)
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return Result{}, Advisory{}, apperr.NotFoundf(op, "destination not found")
	}
	if err != nil {
		return Result{}, Advisory{}, apperr.Wrap(apperr.KindUpstream, op, "failed to save review", err)
	}

	result := Result{
		DestinationID: updated.ID,
		Review:        rev,
		AverageRating: updated.AverageRating,
		RatingCount:   updated.RatingCount,
	}
	if result.DestinationID == "" {
		result.DestinationID = sub.DestinationID
	}

	advisory := Advisory{
		Profile: s.recordOnProfile(ctx, sub, &updated),
		Event:   s.publish(ctx, &result),
	}
	metrics.RecordReviewSubmitted(string(advisory.Profile))

	logging.Ctx(ctx).Debug().
		Str("destination_id", result.DestinationID).
		Int("rating_count", result.RatingCount).
		Str("profile", string(advisory.Profile)).
		Str("event", string(advisory.Event)).
		Msg("Review submitted")

	return result, advisory, nil
}

// recordOnProfile appends the review to the author's profile history.
func (s *Service) recordOnProfile(ctx context.Context, sub Submission, d *models.Destination) Status {
	if sub.UserEmail == "" {
		return StatusSkipped
	}

	record := models.UserReviewRecord{
		DestinationID: sub.DestinationID,
		Rating:        sub.Rating,
		Category:      d.Category,
		Review:        sub.Text,
	}
	_, err := s.users.Update(ctx, sub.UserEmail, func(u *models.UserProfile) error {
		u.Reviews = append(u.Reviews, record)
		return nil
	})
	if err != nil {
		logging.CtxWarn(ctx).
			Err(err).
			Str("destination_id", sub.DestinationID).
			Str("user", logging.SanitizeEmail(sub.UserEmail)).
			Str("advisory", string(StatusFailed)).
			Msg("Review saved but profile history update failed")
		return StatusFailed
	}
	return StatusUpdated
}

func (s *Service) publish(ctx context.Context, r *Result) Status {
	if s.publisher == nil {
		return StatusSkipped
	}

	err := s.publisher.PublishReviewAdded(ctx, Added{
		DestinationID: r.DestinationID,
		Rating:        r.Review.Rating,
		RatingCount:   r.RatingCount,
		AverageRating: r.AverageRating,
		OccurredAt:    r.Review.CreatedAt,
	})
	if err != nil {
		logging.CtxWarn(ctx).
			Err(err).
			Str("destination_id", r.DestinationID).
			Str("advisory", string(StatusFailed)).
			Msg("Review saved but review.added event was not published")
		return StatusFailed
	}
	return StatusPublished
}

// List returns a destination's reviews and aggregate. A stored aggregate that
// disagrees with the reviews is rewritten; a consistent one is never touched.
func (s *Service) List(ctx context.Context, destinationID string) (Listing, error) {
	const op = "review.List"

	destinationID = strings.TrimSpace(destinationID)
	if destinationID == "" {
		return Listing{}, apperr.Validationf(op, "destination_id is required")
	}

	d, err := s.destinations.Get(ctx, destinationID)
	if errors.Is(err, store.ErrNotFound) {
		return Listing{}, apperr.NotFoundf(op, "destination not found")
	}
	if err != nil {
		return Listing{}, apperr.Wrap(apperr.KindUpstream, op, "failed to load destination", err)
	}
	if len(d.Reviews) == 0 {
		return Listing{}, ErrNoReviews
	}

	if rating.Stale(&d) {
		d = s.repairAggregate(ctx, destinationID, d)
	}

	summary := rating.Aggregate(d.Reviews)
	return Listing{
		DestinationID: destinationID,
		Reviews:       d.Reviews,
		AverageRating: summary.Average,
		RatingCount:   summary.Count,
	}, nil
}

// repairAggregate rewrites a stale aggregate. On failure the listing is still
// served from the in-memory recomputation.
func (s *Service) repairAggregate(ctx context.Context, id string, d models.Destination) models.Destination {
	var wrote bool
	repaired, err := s.destinations.Update(ctx, id, func(doc *models.Destination) error {
		wrote = false
		if !rating.Stale(doc) {
			return store.ErrSkipWrite
		}
		rating.Apply(doc)
		wrote = true
		return nil
	})
	if err != nil {
		logging.CtxWarn(ctx).Err(err).Str("destination_id", id).Msg("Failed to repair stale rating aggregate")
		return d
	}
	if wrote {
		metrics.ReviewAggregateRepairs.Inc()
		logging.CtxInfo(ctx).Str("destination_id", id).Int("rating_count", repaired.RatingCount).Msg("Repaired stale rating aggregate")
	}
	return repaired
}
