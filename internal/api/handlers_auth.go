// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package api

import (
	"net/http"

	"github.com/tomtom215/tourbuddy/internal/account"
)

// Signup registers a new traveler account.
//
// @Summary Create an account
// @Description Registers a user keyed by email and returns a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body account.SignupRequest true "Signup details"
// @Success 201 {object} APIResponse{data=account.SignupResult}
// @Failure 400 {object} APIResponse "Validation failed"
// @Failure 409 {object} APIResponse "Email already registered"
// @Router /auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req account.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.deps.Accounts.Signup(r.Context(), req, clientIP(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(result)
}

// Login exchanges credentials for a session token.
//
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body account.LoginRequest true "Credentials"
// @Success 200 {object} APIResponse{data=account.LoginResult}
// @Failure 401 {object} APIResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req account.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.deps.Accounts.Login(r.Context(), req, clientIP(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(result)
}
