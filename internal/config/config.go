// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package config loads Tourbuddy configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (CONFIG_PATH or config.yaml)
//  3. Environment Variables: mapped names such as JWT_SECRET or ENDPOINT_URL
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Database   DatabaseConfig   `koanf:"database"`
	Prediction PredictionConfig `koanf:"prediction"`
	Importer   ImporterConfig   `koanf:"importer"`
	Events     EventsConfig     `koanf:"events"`
	Cache      CacheConfig      `koanf:"cache"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds authentication, authorization and rate limit settings.
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`
	BcryptCost     int           `koanf:"bcrypt_cost"`

	// AdminEmails receive the admin role at signup.
	AdminEmails []string `koanf:"admin_emails"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// IsAdminEmail reports whether email is listed in AdminEmails (case-insensitive).
func (s SecurityConfig) IsAdminEmail(email string) bool {
	for _, e := range s.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

// DatabaseConfig holds BadgerDB document store settings.
type DatabaseConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// ConflictRetries bounds optimistic transaction retries on write conflicts.
	ConflictRetries int `koanf:"conflict_retries"`
}

// PredictionConfig holds settings for the external recommendation model endpoint.
type PredictionConfig struct {
	// EndpointURL, when set, is used verbatim. Otherwise the URL is derived
	// from Project, Location and EndpointID.
	EndpointURL string `koanf:"endpoint_url"`
	Project     string `koanf:"project"`
	Location    string `koanf:"location"`
	EndpointID  string `koanf:"endpoint_id"`
	AccessToken string `koanf:"access_token"`

	Timeout        time.Duration `koanf:"timeout"`
	RateLimitRPS   float64       `koanf:"rate_limit_rps"`
	RateLimitBurst int           `koanf:"rate_limit_burst"`

	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// Enabled reports whether a prediction endpoint is configured.
func (p PredictionConfig) Enabled() bool {
	return p.URL() != ""
}

// URL returns the predict endpoint URL.
func (p PredictionConfig) URL() string {
	if p.EndpointURL != "" {
		return p.EndpointURL
	}
	if p.Project == "" || p.Location == "" || p.EndpointID == "" {
		return ""
	}
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/endpoints/%s:predict",
		p.Location, p.Project, p.Location, p.EndpointID)
}

// ImporterConfig holds destination import and backfill settings.
type ImporterConfig struct {
	// DatasetPath is an optional CSV file of destinations read through DuckDB.
	DatasetPath  string        `koanf:"dataset_path"`
	PhotoBaseURL string        `koanf:"photo_base_url"`
	RunOnStartup bool          `koanf:"run_on_startup"`
	Timeout      time.Duration `koanf:"timeout"`
}

// EventsConfig holds domain event transport settings.
type EventsConfig struct {
	// NATSURL selects NATS transport. Empty means in-process Go channels.
	NATSURL          string        `koanf:"nats_url"`
	EmbeddedNATS     bool          `koanf:"embedded_nats"`
	NATSPort         int           `koanf:"nats_port"`
	SubscribersCount int           `koanf:"subscribers_count"`
	RetryCount       int           `koanf:"retry_count"`
	RetryInterval    time.Duration `koanf:"retry_interval"`
	CloseTimeout     time.Duration `koanf:"close_timeout"`
}

// CacheConfig holds in-memory cache settings.
type CacheConfig struct {
	DestinationsTTL time.Duration `koanf:"destinations_ttl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
