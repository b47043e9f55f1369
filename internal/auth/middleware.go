// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tourbuddy/internal/logging"
)

type contextKey string

// ClaimsContextKey stores the validated *Claims in the request context.
const ClaimsContextKey contextKey = "claims"

var (
	errMissingToken  = errors.New("missing token")
	errInvalidHeader = errors.New("invalid authorization header")
)

// Middleware provides bearer token authentication.
type Middleware struct {
	jwtManager *JWTManager
	security   *logging.SecurityLogger
}

// NewMiddleware creates authentication middleware backed by jwtManager.
func NewMiddleware(jwtManager *JWTManager) *Middleware {
	return &Middleware{
		jwtManager: jwtManager,
		security:   logging.NewSecurityLogger(),
	}
}

// Authenticate rejects requests without a valid bearer token.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if err != nil {
			writeUnauthorized(w, r, "authentication required")
			return
		}
		m.serveWithToken(w, r, next, token)
	}
}

// OptionalAuthenticate lets anonymous requests through without claims, but
// rejects a token that is present and invalid.
func (m *Middleware) OptionalAuthenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if errors.Is(err, errMissingToken) {
			next(w, r)
			return
		}
		if err != nil {
			writeUnauthorized(w, r, "invalid authorization header")
			return
		}
		m.serveWithToken(w, r, next, token)
	}
}

func (m *Middleware) serveWithToken(w http.ResponseWriter, r *http.Request, next http.HandlerFunc, token string) {
	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
		m.security.LogAccessDenied("", r.URL.Path, "invalid_token")
		writeUnauthorized(w, r, "invalid or expired token")
		return
	}

	next(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
}

// extractBearerToken reads the token from "Authorization: Bearer <token>".
func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errInvalidHeader
	}
	return strings.TrimSpace(parts[1]), nil
}

// ContextWithClaims stores claims in ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// writeUnauthorized writes a 401 with a Bearer challenge.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="tourbuddy"`)
	WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// WriteError writes an error in the API's response envelope. It is used by
// middleware that runs before the API handlers.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := logging.RequestIDFromContext(r.Context())
	body := map[string]any{
		"success": false,
		"error": map[string]any{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
		"meta": map[string]any{
			"request_id": requestID,
			"timestamp":  time.Now().UTC(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode error response")
	}
}
