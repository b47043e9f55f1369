// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package authz

import (
	"net/http"

	"github.com/tomtom215/tourbuddy/internal/auth"
	"github.com/tomtom215/tourbuddy/internal/logging"
	"github.com/tomtom215/tourbuddy/internal/models"
)

// Middleware provides authorization middleware using Casbin.
type Middleware struct {
	enforcer *Enforcer
	security *logging.SecurityLogger
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{
		enforcer: enforcer,
		security: logging.NewSecurityLogger(),
	}
}

// Authorize allows the request only if the caller's role may perform action
// on object. It must run after auth.Middleware.Authenticate.
func (m *Middleware) Authorize(object, action string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, http.StatusForbidden, "FORBIDDEN", "no authentication context")
			return
		}

		if !models.IsValidRole(claims.Role) {
			m.security.LogAccessDenied(claims.UserID, object, action)
			auth.WriteError(w, r, http.StatusForbidden, "FORBIDDEN", "unknown role")
			return
		}

		allowed, err := m.enforcer.Enforce(claims.Role, object, action)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			auth.WriteError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization check failed")
			return
		}

		if !allowed {
			m.security.LogAccessDenied(claims.UserID, object, action)
			auth.WriteError(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
			return
		}

		next(w, r)
	}
}
