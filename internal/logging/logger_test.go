// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

// Tests below mutate the global logger and must not run in parallel.

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Debug().Str("destination_id", "42").Msg("lookup")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "debug" || entry["message"] != "lookup" || entry["destination_id"] != "42" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; ok {
		t.Error("timestamp emitted although Timestamp=false")
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("level filtering failed: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if ValidLevel("bogus") || !ValidLevel("WARN") {
		t.Error("ValidLevel mismatch")
	}
}

func TestCtx_AddsRequestFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithNewCorrelationID(ctx)

	Ctx(ctx).Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", entry["request_id"])
	}
	if cid, _ := entry["correlation_id"].(string); len(cid) != 8 {
		t.Errorf("correlation_id = %q, want 8 characters", cid)
	}
}

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	if id := GenerateRequestID(); len(id) != 36 {
		t.Errorf("GenerateRequestID() length = %d, want 36", len(id))
	}
	if a, b := GenerateCorrelationID(), GenerateCorrelationID(); a == b {
		t.Error("correlation IDs should be unique")
	}
}

func TestSlogHandler_GroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.WithGroup("router").With("handler", "cache_invalidator").
		Warn("retrying", slog.Group("msg", slog.String("uuid", "m1")), slog.Int("attempt", 2))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	want := map[string]any{
		"level":           "warn",
		"message":         "retrying",
		"router.handler":  "cache_invalidator",
		"router.msg.uuid": "m1",
		"router.attempt":  float64(2),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
}

func TestSanitizeEmail(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                     "",
		"john.doe@example.com": "jo***@example.com",
		"ab@example.com":       "***@example.com",
		"not-an-email":         "***",
	}
	for in, want := range tests {
		if got := SanitizeEmail(in); got != want {
			t.Errorf("SanitizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSecurityLogger_MasksEmail(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sl := NewSecurityLoggerWithLogger(NewTestLogger(&buf))
	sl.LogLoginFailure("jane.roe@example.com", "10.0.0.1", "bad_password")

	out := buf.String()
	if strings.Contains(out, "jane.roe") {
		t.Errorf("email not masked: %s", out)
	}
	for _, want := range []string{`"event":"login_failure"`, `"status":"failed"`, `"reason":"bad_password"`, `"component":"auth"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSecurityLogger_MasksUserID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sl := NewSecurityLoggerWithLogger(NewTestLogger(&buf))
	sl.LogAccessDenied("3f2a9c1e-77d0-4b1a-9f3e-0c5d2b8a9c1e", "destinations", "import")

	out := buf.String()
	if strings.Contains(out, "77d0-4b1a") {
		t.Errorf("user id not masked: %s", out)
	}
	if !strings.Contains(out, `"user_id":"3f2a...9c1e"`) {
		t.Errorf("output missing masked user id: %s", out)
	}

	if got := sanitizeUserID("short"); got != "***" {
		t.Errorf("sanitizeUserID(short) = %q, want ***", got)
	}
}

func TestCtx_FallsBackToGlobalLogger(t *testing.T) {
	t.Parallel()

	if got, want := loggerFromContext(context.Background()).GetLevel(), Logger().GetLevel(); got != want {
		t.Errorf("level = %v, want global %v", got, want)
	}
}
