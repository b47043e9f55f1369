// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

/*
Package models defines the documents and derived records shared across Tourbuddy.

Key Components:

  - Destination: a travel destination document with its embedded review list
  - Review: an immutable review appended to a destination
  - UserProfile: an account document keyed by email, carrying a denormalized
    history of the reviews the user authored
  - UserReviewRecord: one entry of that history, used as the ranking feature source
  - RankedDestination: a destination snapshot annotated with either a distance
    or a prediction score; never persisted

JSON field names follow the original document layout (destination_id, lat, lon,
average_rating, rating_count, reviewer_name, createdAt, photoUrl, url_maps) so
existing clients keep working.
*/
package models
