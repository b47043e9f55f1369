// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package models

import "time"

// UserReviewRecord is the denormalized copy of a review kept on the author's profile.
type UserReviewRecord struct {
	DestinationID string `json:"destination_id"`
	Rating        int    `json:"rating"`
	Category      string `json:"category"`
	Review        string `json:"review,omitempty"`
}

// UserProfile is the stored account document, keyed by email.
type UserProfile struct {
	ID           string             `json:"id"`
	Username     string             `json:"username"`
	Email        string             `json:"email"`
	PasswordHash string             `json:"password_hash"`
	Role         string             `json:"role"`
	Reviews      []UserReviewRecord `json:"reviews"`
	CreatedAt    time.Time          `json:"created_at"`
}

// HasHistory reports whether the user has authored at least one review.
func (u *UserProfile) HasHistory() bool {
	return u != nil && len(u.Reviews) > 0
}
