// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package store

import "github.com/tomtom215/tourbuddy/internal/models"

// Collection names. Each is the key prefix of its documents.
const (
	DestinationsCollection = "destinations"
	UsersCollection        = "users"
)

// Destinations returns the destination collection, keyed by destination_id.
func Destinations(db *DB) *Collection[models.Destination] {
	return NewCollection[models.Destination](db, DestinationsCollection)
}

// Users returns the user profile collection, keyed by email.
func Users(db *DB) *Collection[models.UserProfile] {
	return NewCollection[models.UserProfile](db, UsersCollection)
}
