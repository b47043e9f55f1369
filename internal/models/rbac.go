// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package models

// Role constants align with the Casbin policy in internal/authz/policy.csv.
const (
	// RoleTraveler is the default role assigned at signup.
	RoleTraveler = "traveler"

	// RoleAdmin may run maintenance operations such as the destination import.
	RoleAdmin = "admin"
)

// IsValidRole reports whether role is one a token may carry.
func IsValidRole(role string) bool {
	switch role {
	case RoleTraveler, RoleAdmin:
		return true
	}
	return false
}
