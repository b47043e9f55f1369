// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package models

import (
	"time"

	"github.com/tomtom215/tourbuddy/internal/geo"
)

// AnonymousReviewer is the reviewer name recorded for unauthenticated submissions.
const AnonymousReviewer = "Anonymous"

// Review is a single immutable review of a destination.
type Review struct {
	ReviewerName string    `json:"reviewer_name"`
	Text         string    `json:"review"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Destination is the stored destination document.
//
// AverageRating is nil while the destination has no reviews. When set it equals
// the mean of Reviews[*].Rating rounded to one decimal, and RatingCount always
// equals len(Reviews).
type Destination struct {
	ID          string  `json:"destination_id"`
	Name        string  `json:"place_name,omitempty"`
	Description string  `json:"description,omitempty"`
	City        string  `json:"city,omitempty"`
	Category    string  `json:"category"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`

	// Rating is the base rating shipped with the dataset.
	Rating float64 `json:"rating"`

	AverageRating *float64 `json:"average_rating,omitempty"`
	RatingCount   int      `json:"rating_count"`
	Reviews       []Review `json:"reviews"`

	PhotoURL string `json:"photoUrl,omitempty"`
	MapsURL  string `json:"url_maps,omitempty"`
}

// Coordinate returns the destination location.
func (d *Destination) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: d.Lat, Lon: d.Lon}
}

// Clone returns a copy that does not share the review slice or average pointer.
func (d *Destination) Clone() Destination {
	c := *d
	if d.Reviews != nil {
		c.Reviews = make([]Review, len(d.Reviews))
		copy(c.Reviews, d.Reviews)
	}
	if d.AverageRating != nil {
		avg := *d.AverageRating
		c.AverageRating = &avg
	}
	return c
}

// RankedDestination is a destination annotated for a nearby-destinations response.
// Exactly one of Distance or PredictionScore is set, depending on the ranking mode.
type RankedDestination struct {
	Destination
	Distance        *float64 `json:"distance,omitempty"`
	PredictionScore *float64 `json:"predictionScore,omitempty"`
}
