// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

/*
Package auth issues and verifies the bearer tokens used by the API.

Tokens are HS256 JWTs carrying the user's id, display name, email and role.
The email is the profile key in the document store.

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	mw := auth.NewMiddleware(jwtManager)

	r.Get("/api/v1/nearby-destinations", mw.Authenticate(h.NearbyDestinations))
	r.Post("/api/v1/addreview", mw.OptionalAuthenticate(h.AddReview))

Handlers read the caller with ClaimsFromContext. Authenticate answers 401 when
the token is missing or invalid; OptionalAuthenticate only answers 401 when a
token is present and invalid.
*/
package auth
