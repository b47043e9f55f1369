// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/auth"
	"github.com/tomtom215/tourbuddy/internal/config"
	"github.com/tomtom215/tourbuddy/internal/models"
	"github.com/tomtom215/tourbuddy/internal/store"
	"github.com/tomtom215/tourbuddy/internal/validation"
)

func setupService(t *testing.T) (*Service, *auth.JWTManager) {
	t.Helper()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	sec := config.SecurityConfig{
		JWTSecret:      "test-secret-with-at-least-32-characters!",
		SessionTimeout: time.Hour,
		BcryptCost:     bcrypt.MinCost,
		AdminEmails:    []string{"Admin@Example.com"},
	}
	tokens, err := auth.NewJWTManager(&sec)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return NewService(db, tokens, sec), tokens
}

func TestSignupAndLogin(t *testing.T) {
	t.Parallel()

	svc, tokens := setupService(t)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, SignupRequest{Username: "Ayu", Email: " Ayu@Example.com ", Password: "Secret123"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if signup.ID == "" || signup.Username != "Ayu" || signup.Token == "" {
		t.Errorf("signup result = %+v", signup)
	}

	profile, err := svc.Profile(ctx, "ayu@example.com")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.Role != models.RoleTraveler {
		t.Errorf("Role = %q, want traveler", profile.Role)
	}
	if profile.PasswordHash == "Secret123" {
		t.Error("password stored in plaintext")
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "AYU@example.com", Password: "Secret123"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.UserID != signup.ID || login.Name != "Ayu" {
		t.Errorf("login result = %+v", login)
	}

	claims, err := tokens.ValidateToken(login.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Email != "ayu@example.com" || claims.UserID != signup.ID {
		t.Errorf("claims = %+v", claims)
	}
}

func TestSignup_AdminEmailAndConflict(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t)
	ctx := context.Background()
	req := SignupRequest{Username: "Root", Email: "admin@example.com", Password: "Secret123"}

	if _, err := svc.Signup(ctx, req, ""); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	profile, _ := svc.Profile(ctx, "admin@example.com")
	if profile.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want admin", profile.Role)
	}

	if _, err := svc.Signup(ctx, req, ""); !errors.Is(err, apperr.Conflict) {
		t.Errorf("duplicate Signup() error = %v, want conflict", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _ := setupService(t)
	ctx := context.Background()
	if _, err := svc.Signup(ctx, SignupRequest{Username: "Ayu", Email: "ayu@example.com", Password: "Secret123"}, ""); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"unknown email", LoginRequest{Email: "nobody@example.com", Password: "Secret123"}},
		{"wrong password", LoginRequest{Email: "ayu@example.com", Password: "Wrong1234"}},
	}

	for _, tt := range tests {
		_, err := svc.Login(ctx, tt.req, "")
		if !errors.Is(err, apperr.Unauthorized) {
			t.Errorf("%s: error = %v, want unauthorized", tt.name, err)
		}
		if msg := apperr.Message(err, ""); msg != "invalid credentials" {
			t.Errorf("%s: message = %q", tt.name, msg)
		}
	}
}

func TestSignupRequest_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     SignupRequest
		wantErr bool
	}{
		{"valid", SignupRequest{Username: "Ayu", Email: "ayu@example.com", Password: "Secret123"}, false},
		{"one character username", SignupRequest{Username: "A", Email: "ayu@example.com", Password: "Secret123"}, false},
		{"empty username", SignupRequest{Username: "", Email: "ayu@example.com", Password: "Secret123"}, true},
		{"missing username", SignupRequest{Email: "ayu@example.com", Password: "Secret123"}, true},
		{"bad email", SignupRequest{Username: "Ayu", Email: "ayu", Password: "Secret123"}, true},
		{"short password", SignupRequest{Username: "Ayu", Email: "ayu@example.com", Password: "Se1"}, true},
		{"no uppercase", SignupRequest{Username: "Ayu", Email: "ayu@example.com", Password: "secret123"}, true},
		{"no digit", SignupRequest{Username: "Ayu", Email: "ayu@example.com", Password: "SecretPass"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validation.ValidateStruct(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
