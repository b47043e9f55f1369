// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Security.JWTSecret != "" {
		t.Errorf("Security.JWTSecret should be empty by default, got %q", cfg.Security.JWTSecret)
	}
	if cfg.Security.SessionTimeout != 24*time.Hour {
		t.Errorf("Security.SessionTimeout = %v, want 24h", cfg.Security.SessionTimeout)
	}
	if cfg.Database.ConflictRetries != 5 {
		t.Errorf("Database.ConflictRetries = %d, want 5", cfg.Database.ConflictRetries)
	}
	if cfg.Importer.PhotoBaseURL != DefaultPhotoBaseURL {
		t.Errorf("Importer.PhotoBaseURL = %q", cfg.Importer.PhotoBaseURL)
	}
	if cfg.Cache.DestinationsTTL != 5*time.Minute {
		t.Errorf("Cache.DestinationsTTL = %v, want 5m", cfg.Cache.DestinationsTTL)
	}
	if cfg.Prediction.Enabled() {
		t.Error("Prediction should be disabled by default")
	}
	if cfg.Events.NATSURL != "" {
		t.Errorf("Events.NATSURL = %q, want empty (in-process transport)", cfg.Events.NATSURL)
	}
}

func TestLoadWithKoanf_Environment(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "8080")
	t.Setenv("ADMIN_EMAILS", "ops@example.org, root@example.org")
	t.Setenv("CORS_ORIGINS", "https://a.example.org,https://b.example.org")
	t.Setenv("ENDPOINT_ID", "1234")
	t.Setenv("FIRESTORE_PROJECT_ID", "tourbuddy-prod")
	t.Setenv("LOCATION", "asia-southeast2")
	t.Setenv("BADGER_IN_MEMORY", "true")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if len(cfg.Security.AdminEmails) != 2 || cfg.Security.AdminEmails[1] != "root@example.org" {
		t.Errorf("AdminEmails = %v", cfg.Security.AdminEmails)
	}
	if len(cfg.Security.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if !cfg.Database.InMemory {
		t.Error("Database.InMemory = false, want true")
	}
	want := "https://asia-southeast2-aiplatform.googleapis.com/v1/projects/tourbuddy-prod/locations/asia-southeast2/endpoints/1234:predict"
	if got := cfg.Prediction.URL(); got != want {
		t.Errorf("Prediction.URL() = %q, want %q", got, want)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
security:
  jwt_secret: ` + testSecret + `
  admin_emails: [admin@example.org]
prediction:
  endpoint_url: http://localhost:8501/v1/models/tourbuddy:predict
  timeout: 3s
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Prediction.Timeout != 3*time.Second {
		t.Errorf("Prediction.Timeout = %v, want 3s", cfg.Prediction.Timeout)
	}
	if !cfg.Security.IsAdminEmail("ADMIN@example.org") {
		t.Error("IsAdminEmail should be case-insensitive")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want env override warn", cfg.Logging.Level)
	}
	if cfg.Prediction.URL() != "http://localhost:8501/v1/models/tourbuddy:predict" {
		t.Errorf("explicit endpoint_url not used: %q", cfg.Prediction.URL())
	}
}

func TestLoadWithKoanf_MissingSecret(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("JWT_SECRET", "")

	_, err := LoadWithKoanf()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("LoadWithKoanf() error = %v, want JWT_SECRET error", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"short secret", func(c *Config) { c.Security.JWTSecret = "short" }, "at least 32"},
		{"placeholder secret", func(c *Config) { c.Security.JWTSecret = "changeme-changeme-changeme-changeme" }, "placeholder"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"rate limit out of range", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"missing badger path", func(c *Config) { c.Database.Path = "" }, "BADGER_PATH"},
		{"in-memory needs no path", func(c *Config) {
			c.Database.Path = ""
			c.Database.InMemory = true
		}, ""},
		{"bad endpoint scheme", func(c *Config) { c.Prediction.EndpointURL = "ftp://model" }, "ENDPOINT_URL"},
		{"bad nats url", func(c *Config) { c.Events.NATSURL = "http://nats:4222" }, "NATS_URL"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPredictionConfig_URL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  PredictionConfig
		want string
	}{
		{"unconfigured", PredictionConfig{Location: "us-central1"}, ""},
		{"partial", PredictionConfig{Project: "p", Location: "us-central1"}, ""},
		{"explicit wins", PredictionConfig{EndpointURL: "http://m/predict", Project: "p", Location: "l", EndpointID: "e"}, "http://m/predict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cfg.URL(); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
			if got := tt.cfg.Enabled(); got != (tt.want != "") {
				t.Errorf("Enabled() = %v", got)
			}
		})
	}
}
