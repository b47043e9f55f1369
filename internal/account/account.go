// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package account implements signup and login against the user collection.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/auth"
	"github.com/tomtom215/tourbuddy/internal/config"
	"github.com/tomtom215/tourbuddy/internal/logging"
	"github.com/tomtom215/tourbuddy/internal/models"
	"github.com/tomtom215/tourbuddy/internal/store"
)

// errInvalidCredentials is shared by unknown email and wrong password.
var errInvalidCredentials = apperr.New(apperr.KindUnauthorized, "account.Login", "invalid credentials")

// SignupRequest is the signup body.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72,password_strength"`
}

// SignupResult is returned after a successful signup.
type SignupResult struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// Service creates and authenticates user accounts.
type Service struct {
	users      *store.Collection[models.UserProfile]
	tokens     *auth.JWTManager
	security   config.SecurityConfig
	bcryptCost int
	audit      *logging.SecurityLogger
	dummyHash  []byte
	now        func() time.Time
}

// NewService creates an account service.
func NewService(db *store.DB, tokens *auth.JWTManager, security config.SecurityConfig) *Service {
	cost := security.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	// Unknown emails are checked against this hash so both failure paths cost
	// one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to generate dummy password hash")
	}

	return &Service{
		users:      store.Users(db),
		tokens:     tokens,
		security:   security,
		bcryptCost: cost,
		audit:      logging.NewSecurityLogger(),
		dummyHash:  dummy,
		now:        time.Now,
	}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a profile keyed by email and returns a session token.
// The request must already have passed validation.
func (s *Service) Signup(ctx context.Context, req SignupRequest, ip string) (SignupResult, error) {
	const op = "account.Signup"

	email := NormalizeEmail(req.Email)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return SignupResult{}, apperr.Wrap(apperr.KindValidation, op, "password cannot be used", err)
	}

	role := models.RoleTraveler
	if s.security.IsAdminEmail(email) {
		role = models.RoleAdmin
	}

	profile := models.UserProfile{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Reviews:      []models.UserReviewRecord{},
		CreatedAt:    s.now().UTC(),
	}

	err = s.users.Create(ctx, email, profile)
	if errors.Is(err, store.ErrExists) {
		s.audit.LogEvent(&logging.SecurityEvent{Event: "signup", Email: email, IPAddress: ip, Reason: "email_taken"})
		return SignupResult{}, apperr.New(apperr.KindConflict, op, "email is already registered")
	}
	if err != nil {
		return SignupResult{}, apperr.Wrap(apperr.KindUpstream, op, "failed to create account", err)
	}

	token, err := s.tokens.GenerateToken(profile.ID, profile.Username, profile.Email, profile.Role)
	if err != nil {
		return SignupResult{}, err
	}

	s.audit.LogSignup(profile.ID, email, ip)
	return SignupResult{ID: profile.ID, Username: profile.Username, Token: token}, nil
}

// Login verifies credentials and returns a session token.
func (s *Service) Login(ctx context.Context, req LoginRequest, ip string) (LoginResult, error) {
	const op = "account.Login"

	email := NormalizeEmail(req.Email)
	profile, err := s.users.Get(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		s.audit.LogLoginFailure(email, ip, "unknown_email")
		return LoginResult{}, errInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, apperr.Wrap(apperr.KindUpstream, op, "failed to load account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		s.audit.LogLoginFailure(email, ip, "wrong_password")
		return LoginResult{}, errInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(profile.ID, profile.Username, profile.Email, profile.Role)
	if err != nil {
		return LoginResult{}, err
	}

	s.audit.LogLoginSuccess(profile.ID, email, ip)
	return LoginResult{UserID: profile.ID, Name: profile.Username, Token: token}, nil
}

// Profile returns the stored profile for email.
func (s *Service) Profile(ctx context.Context, email string) (models.UserProfile, error) {
	profile, err := s.users.Get(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return models.UserProfile{}, apperr.NotFoundf("account.Profile", "user not found")
	}
	if err != nil {
		return models.UserProfile{}, apperr.Wrap(apperr.KindUpstream, "account.Profile", "failed to load user", err)
	}
	return profile, nil
}
