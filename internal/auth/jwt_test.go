// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/tourbuddy/internal/config"
)

const testSecret = "test-secret-with-at-least-32-characters!"

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, SessionTimeout: time.Hour})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManager_EmptySecret(t *testing.T) {
	t.Parallel()

	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	token, err := m.GenerateToken("u-1", "Ayu", "ayu@example.com", "traveler")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != "u-1" || claims.Name != "Ayu" || claims.Email != "ayu@example.com" || claims.Role != "traveler" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestJWTManager_RejectsBadTokens(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	valid, _ := m.GenerateToken("u-1", "Ayu", "ayu@example.com", "traveler")

	expired := newTestManager(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _ := expired.GenerateToken("u-1", "Ayu", "ayu@example.com", "traveler")

	other, _ := NewJWTManager(&config.SecurityConfig{JWTSecret: strings.Repeat("x", 40), SessionTimeout: time.Hour})
	foreignToken, _ := other.GenerateToken("u-1", "Ayu", "ayu@example.com", "traveler")

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Email:            "ayu@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"tampered", valid[:len(valid)-2] + "xx"},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
		{"alg none", noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := m.ValidateToken(tt.token); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
