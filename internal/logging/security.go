// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent represents a security-relevant event for audit logging.
type SecurityEvent struct {
	// Event is the type of event (e.g., "signup", "login_success", "access_denied").
	Event     string
	UserID    string
	Email     string
	IPAddress string
	Success   bool
	// Reason is a short machine-readable failure reason.
	Reason string
}

// SecurityLogger logs account and authorization events with sensitive values masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a new security logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("auth")}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogEvent logs a security event with automatic sanitization.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info()
	if !event.Success {
		e = l.logger.Warn()
	}
	e = e.Str("event", event.Event)

	if event.Success {
		e = e.Str("status", "success")
	} else {
		e = e.Str("status", "failed")
	}
	if event.UserID != "" {
		e = e.Str("user_id", sanitizeUserID(event.UserID))
	}
	if event.Email != "" {
		e = e.Str("email", SanitizeEmail(event.Email))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Reason != "" {
		e = e.Str("reason", event.Reason)
	}

	e.Msg("")
}

// LogSignup logs an account creation.
func (l *SecurityLogger) LogSignup(userID, email, ip string) {
	l.LogEvent(&SecurityEvent{Event: "signup", UserID: userID, Email: email, IPAddress: ip, Success: true})
}

// LogLoginSuccess logs a successful login.
func (l *SecurityLogger) LogLoginSuccess(userID, email, ip string) {
	l.LogEvent(&SecurityEvent{Event: "login_success", UserID: userID, Email: email, IPAddress: ip, Success: true})
}

// LogLoginFailure logs a failed login. reason is never sent to the client.
func (l *SecurityLogger) LogLoginFailure(email, ip, reason string) {
	l.LogEvent(&SecurityEvent{Event: "login_failure", Email: email, IPAddress: ip, Reason: reason})
}

// LogAccessDenied logs an authorization failure.
func (l *SecurityLogger) LogAccessDenied(userID, resource, action string) {
	l.LogEvent(&SecurityEvent{Event: "access_denied", UserID: userID, Reason: action + " " + resource})
}

// sanitizeUserID masks a user ID for privacy.
// Example: "3f2a9c1e-..." -> "3f2a...9c1e"
func sanitizeUserID(userID string) string {
	if userID == "" {
		return ""
	}
	if len(userID) <= 8 {
		return "***"
	}
	return userID[:4] + "..." + userID[len(userID)-4:]
}

// SanitizeEmail masks an email address.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}

	atIndex := strings.Index(email, "@")
	if atIndex <= 0 {
		return "***"
	}

	localPart := email[:atIndex]
	domain := email[atIndex:]

	if len(localPart) <= 2 {
		return "***" + domain
	}
	return localPart[:2] + "***" + domain
}
