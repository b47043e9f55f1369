// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package rating derives aggregate rating fields from a destination's reviews.
//
// The aggregate is always recomputed from the full review list rather than
// updated incrementally, so repeated application is idempotent and a stored
// average can never drift from the reviews that back it.
package rating

import (
	"math"

	"github.com/tomtom215/tourbuddy/internal/models"
)

// Summary is the derived rating state for a review list.
type Summary struct {
	Count   int
	Average float64

	// Rated is false when the review list is empty; Average is then meaningless.
	Rated bool
}

// Aggregate computes count and mean rating rounded to one decimal.
func Aggregate(reviews []models.Review) Summary {
	if len(reviews) == 0 {
		return Summary{}
	}

	total := 0
	for i := range reviews {
		total += reviews[i].Rating
	}

	return Summary{
		Count:   len(reviews),
		Average: Round1(float64(total) / float64(len(reviews))),
		Rated:   true,
	}
}

// Apply recomputes the aggregate fields of d in place and returns the summary.
func Apply(d *models.Destination) Summary {
	s := Aggregate(d.Reviews)
	d.RatingCount = s.Count
	if s.Rated {
		avg := s.Average
		d.AverageRating = &avg
	} else {
		d.AverageRating = nil
	}
	return s
}

// Stale reports whether the stored aggregate fields disagree with the reviews.
func Stale(d *models.Destination) bool {
	s := Aggregate(d.Reviews)
	if d.RatingCount != s.Count {
		return true
	}
	if !s.Rated {
		return d.AverageRating != nil
	}
	return d.AverageRating == nil || *d.AverageRating != s.Average
}

// ValidScore reports whether r is an accepted review rating.
func ValidScore(r int) bool {
	return r >= MinScore && r <= MaxScore
}

// Review rating bounds.
const (
	MinScore = 1
	MaxScore = 5
)

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
