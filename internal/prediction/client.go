// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package prediction calls the hosted recommendation model that scores
// candidate destinations for personalized ranking.
//
// Wire format:
//
//	POST {endpoint}
//	{"instances": [{"destinationId": "..", "rating": 4, "category": ".."}],
//	 "parameters": {"candidates": ["id1", "id2"]}}
//
//	200 OK
//	{"predictions": [0.91, 0.12]}
//
// Each prediction may also be a single-element array ([[0.91], [0.12]]), the
// shape returned by models with a one-unit output layer.
package prediction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/config"
	"github.com/tomtom215/tourbuddy/internal/metrics"
	"github.com/tomtom215/tourbuddy/internal/ranking"
)

// maxErrorBodySize limits how much of an error response body is read.
const maxErrorBodySize = 64 * 1024

type predictRequest struct {
	Instances  []ranking.Instance `json:"instances"`
	Parameters predictParameters  `json:"parameters"`
}

type predictParameters struct {
	Candidates []string `json:"candidates"`
}

type predictResponse struct {
	Predictions []Score `json:"predictions"`
}

// Score decodes either a bare number or a single-element number array.
// null, in either form, is rejected.
type Score float64

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(data []byte) error {
	var f *float64
	if err := json.Unmarshal(data, &f); err == nil {
		if f == nil {
			return fmt.Errorf("prediction is null")
		}
		*s = Score(*f)
		return nil
	}
	var arr []*float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("prediction must be a number or [number]: %s", data)
	}
	if len(arr) != 1 {
		return fmt.Errorf("prediction array must have exactly one element, got %d", len(arr))
	}
	if arr[0] == nil {
		return fmt.Errorf("prediction is [null]")
	}
	*s = Score(*arr[0])
	return nil
}

// Client is an HTTP client for the prediction endpoint.
type Client struct {
	url     string
	token   string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a prediction client. cfg.URL() must be non-empty.
func NewClient(cfg config.PredictionConfig) *Client {
	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}
	burst := cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		url:     cfg.URL(),
		token:   cfg.AccessToken,
		timeout: cfg.Timeout,
		client:  &http.Client{Timeout: cfg.Timeout + time.Second},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Predict scores req.CandidateIDs. It does not check the response length;
// the ranker enforces one score per candidate.
func (c *Client) Predict(ctx context.Context, req ranking.PredictionRequest) ([]float64, error) {
	const op = "prediction.Predict"

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, op, "prediction request throttled", err)
	}

	body, err := json.Marshal(predictRequest{
		Instances:  req.Instances,
		Parameters: predictParameters{Candidates: req.CandidateIDs},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	metrics.RecordPrediction(time.Since(start))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, op, "prediction service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Wrap(apperr.KindUpstream, op, "prediction service failed",
			fmt.Errorf("status %d: %s", resp.StatusCode, readBodyForError(resp.Body)))
	}

	var decoded predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, op, "malformed prediction response", err)
	}
	if decoded.Predictions == nil {
		return nil, apperr.New(apperr.KindUpstream, op, "prediction response has no predictions field")
	}

	scores := make([]float64, len(decoded.Predictions))
	for i, s := range decoded.Predictions {
		if !ranking.ValidScore(float64(s)) {
			return nil, apperr.New(apperr.KindUpstream, op,
				fmt.Sprintf("malformed prediction response: score %v at index %d is outside [0,1]", float64(s), i))
		}
		scores[i] = float64(s)
	}
	return scores, nil
}

// readBodyForError reads the response body for error reporting (max 64KB).
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// NewFromConfig returns the breaker-wrapped prediction client, or nil when no
// endpoint is configured.
func NewFromConfig(cfg config.PredictionConfig) *BreakerPredictor {
	if !cfg.Enabled() {
		return nil
	}
	return NewBreakerPredictor(NewClient(cfg), cfg)
}
