// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/config"
	"github.com/tomtom215/tourbuddy/internal/models"
	"github.com/tomtom215/tourbuddy/internal/store"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Added
	err    error
}

func (p *recordingPublisher) PublishReviewAdded(_ context.Context, e Added) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func setupService(t *testing.T, pub Publisher) (*Service, *store.DB) {
	t.Helper()

	db, err := store.Open(config.DatabaseConfig{InMemory: true, ConflictRetries: 1000})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := store.Destinations(db).Set(ctx, "42", models.Destination{
		ID:       "42",
		Name:     "Pantai Parangtritis",
		Category: "Bahari",
		Lat:      -8.0249,
		Lon:      110.3297,
	}); err != nil {
		t.Fatalf("seed destination: %v", err)
	}
	if err := store.Users(db).Set(ctx, "ayu@example.com", models.UserProfile{
		ID:    "u-1",
		Email: "ayu@example.com",
		Role:  models.RoleTraveler,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	svc := NewService(db, pub)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, db
}

func TestSubmit_UpdatesAggregateAndProfile(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	svc, db := setupService(t, pub)
	ctx := context.Background()

	if _, _, err := svc.Submit(ctx, Submission{DestinationID: "42", Rating: 5}); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	result, advisory, err := svc.Submit(ctx, Submission{
		DestinationID: "42",
		Text:          "Sunset was great",
		Rating:        4,
		ReviewerName:  "Ayu",
		UserEmail:     "ayu@example.com",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if result.RatingCount != 2 {
		t.Errorf("RatingCount = %d, want 2", result.RatingCount)
	}
	if result.AverageRating == nil || *result.AverageRating != 4.5 {
		t.Errorf("AverageRating = %v, want 4.5", result.AverageRating)
	}
	if result.Review.ReviewerName != "Ayu" {
		t.Errorf("ReviewerName = %q", result.Review.ReviewerName)
	}
	if advisory.Profile != StatusUpdated || advisory.Event != StatusPublished {
		t.Errorf("advisory = %+v", advisory)
	}

	profile, err := store.Users(db).Get(ctx, "ayu@example.com")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if len(profile.Reviews) != 1 || profile.Reviews[0].Category != "Bahari" || profile.Reviews[0].Rating != 4 {
		t.Errorf("profile reviews = %+v", profile.Reviews)
	}
	if len(pub.events) != 2 || pub.events[1].RatingCount != 2 {
		t.Errorf("published events = %+v", pub.events)
	}
}

func TestSubmit_AnonymousSkipsProfile(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t, nil)
	result, advisory, err := svc.Submit(context.Background(), Submission{DestinationID: "42", Rating: 3})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Review.ReviewerName != models.AnonymousReviewer {
		t.Errorf("ReviewerName = %q, want %q", result.Review.ReviewerName, models.AnonymousReviewer)
	}
	if advisory.Profile != StatusSkipped || advisory.Event != StatusSkipped {
		t.Errorf("advisory = %+v, want skipped/skipped", advisory)
	}
}

func TestSubmit_BestEffortFailuresDoNotFailSubmission(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{err: errors.New("broker down")}
	svc, db := setupService(t, pub)

	result, advisory, err := svc.Submit(context.Background(), Submission{
		DestinationID: "42",
		Rating:        2,
		UserEmail:     "ghost@example.com",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if advisory.Profile != StatusFailed || advisory.Event != StatusFailed {
		t.Errorf("advisory = %+v, want failed/failed", advisory)
	}
	if result.RatingCount != 1 {
		t.Errorf("RatingCount = %d, want 1", result.RatingCount)
	}

	stored, _ := store.Destinations(db).Get(context.Background(), "42")
	if len(stored.Reviews) != 1 {
		t.Errorf("stored reviews = %d, want 1", len(stored.Reviews))
	}
}

func TestSubmit_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sub  Submission
		want error
	}{
		{"rating too low", Submission{DestinationID: "42", Rating: 0}, apperr.Validation},
		{"rating too high", Submission{DestinationID: "42", Rating: 6}, apperr.Validation},
		{"missing destination id", Submission{Rating: 3}, apperr.Validation},
		{"unknown destination", Submission{DestinationID: "nope", Rating: 3}, apperr.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, db := setupService(t, nil)
			_, _, err := svc.Submit(context.Background(), tt.sub)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Submit() error = %v, want %v", err, tt.want)
			}

			stored, _ := store.Destinations(db).Get(context.Background(), "42")
			if len(stored.Reviews) != 0 {
				t.Errorf("rejected submission persisted %d reviews", len(stored.Reviews))
			}
		})
	}
}

func TestSubmit_ConcurrentSubmissionsKeepEveryReview(t *testing.T) {
	t.Parallel()

	svc, db := setupService(t, nil)
	ctx := context.Background()

	const writers = 12
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, _, err := svc.Submit(ctx, Submission{DestinationID: "42", Rating: n%5 + 1}); err != nil {
				t.Errorf("Submit() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	stored, err := store.Destinations(db).Get(ctx, "42")
	if err != nil {
		t.Fatalf("get destination: %v", err)
	}
	if len(stored.Reviews) != writers || stored.RatingCount != writers {
		t.Errorf("reviews = %d, rating_count = %d, want %d", len(stored.Reviews), stored.RatingCount, writers)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t, nil)
	ctx := context.Background()

	if _, err := svc.List(ctx, "42"); !errors.Is(err, ErrNoReviews) {
		t.Fatalf("List() on unreviewed destination error = %v, want ErrNoReviews", err)
	}
	if _, err := svc.List(ctx, "missing"); !errors.Is(err, apperr.NotFound) {
		t.Fatalf("List() on unknown destination error = %v, want not found", err)
	}

	for _, r := range []int{5, 4, 4} {
		if _, _, err := svc.Submit(ctx, Submission{DestinationID: "42", Rating: r}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	listing, err := svc.List(ctx, "42")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if listing.RatingCount != 3 || listing.AverageRating != 4.3 {
		t.Errorf("listing aggregate = %v/%d, want 4.3/3", listing.AverageRating, listing.RatingCount)
	}
}

func TestList_RepairsStaleAggregate(t *testing.T) {
	t.Parallel()

	svc, db := setupService(t, nil)
	ctx := context.Background()
	destinations := store.Destinations(db)

	wrong := 1.0
	if err := destinations.Set(ctx, "42", models.Destination{
		ID:            "42",
		AverageRating: &wrong,
		RatingCount:   7,
		Reviews: []models.Review{
			{ReviewerName: "A", Rating: 5},
			{ReviewerName: "B", Rating: 3},
		},
	}); err != nil {
		t.Fatalf("seed stale destination: %v", err)
	}

	listing, err := svc.List(ctx, "42")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if listing.AverageRating != 4 || listing.RatingCount != 2 {
		t.Errorf("listing aggregate = %v/%d, want 4/2", listing.AverageRating, listing.RatingCount)
	}

	stored, _ := destinations.Get(ctx, "42")
	if stored.AverageRating == nil || *stored.AverageRating != 4 || stored.RatingCount != 2 {
		t.Errorf("stored aggregate not repaired: %v/%d", stored.AverageRating, stored.RatingCount)
	}

	again, err := svc.List(ctx, "42")
	if err != nil || again.AverageRating != listing.AverageRating || again.RatingCount != listing.RatingCount {
		t.Errorf("second List() = %+v, %v; want identical aggregate", again, err)
	}
}
