// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	minJWTSecretLength   = 32
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

var validLogFormats = map[string]bool{"json": true, "console": true}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateDatabase,
		c.validatePrediction,
		c.validateImporter,
		c.validateEvents,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters for security", minJWTSecretLength)
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateCORS rejects wildcard origins in production.
func (c *Config) validateCORS() error {
	if !c.IsProduction() {
		return nil
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; " +
				"set specific origins such as CORS_ORIGINS=https://app.example.com")
		}
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("BADGER_PATH is required unless BADGER_IN_MEMORY=true")
	}
	if c.Database.ConflictRetries < 1 {
		return fmt.Errorf("STORE_CONFLICT_RETRIES must be at least 1")
	}
	return nil
}

func (c *Config) validatePrediction() error {
	p := c.Prediction
	if p.EndpointURL != "" {
		if err := validateEndpointURL(p.EndpointURL, "ENDPOINT_URL"); err != nil {
			return err
		}
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("PREDICTION_TIMEOUT must be positive")
	}
	if p.RateLimitRPS < 0 {
		return fmt.Errorf("PREDICTION_RATE_LIMIT_RPS must not be negative")
	}
	if p.BreakerFailureRatio <= 0 || p.BreakerFailureRatio > 1 {
		return fmt.Errorf("PREDICTION_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateImporter() error {
	if c.Importer.PhotoBaseURL == "" {
		return fmt.Errorf("PHOTO_BASE_URL is required")
	}
	return validateEndpointURL(c.Importer.PhotoBaseURL, "PHOTO_BASE_URL")
}

func (c *Config) validateEvents() error {
	if c.Events.EmbeddedNATS && (c.Events.NATSPort < 1 || c.Events.NATSPort > 65535) {
		return fmt.Errorf("NATS_PORT must be between 1 and 65535")
	}
	if c.Events.NATSURL != "" {
		u, err := url.Parse(c.Events.NATSURL)
		if err != nil || u.Scheme != "nats" || u.Host == "" {
			return fmt.Errorf("NATS_URL must look like nats://host:port, got %q", c.Events.NATSURL)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateEndpointURL checks for an absolute http(s) URL with a host. Paths are allowed.
func validateEndpointURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	return nil
}

// containsPlaceholder detects values copied verbatim from example configs.
func containsPlaceholder(v string) bool {
	lower := strings.ToLower(v)
	for _, p := range []string{"changeme", "change_me", "replace_with", "your_secret", "example"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
