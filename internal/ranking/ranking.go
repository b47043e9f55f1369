// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package ranking selects and orders candidate destinations for a user.
//
// A request is ranked in one of two modes:
//
//   - personalized: the user has review history; an external Predictor scores
//     every candidate and those above ScoreThreshold are returned by score
//   - geo: no history; candidates within RadiusKm of the user are returned by
//     average rating, then by distance
//
// The mode is decided solely by whether history is present. A prediction failure
// fails the request; there is no fallback to geo mode. The Ranker holds no
// per-request state and is safe for concurrent use.
package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/geo"
	"github.com/tomtom215/tourbuddy/internal/metrics"
	"github.com/tomtom215/tourbuddy/internal/models"
)

const (
	// RadiusKm is the geo-mode search radius, inclusive.
	RadiusKm = 30.0

	// ScoreThreshold is the exclusive lower bound for personalized results.
	ScoreThreshold = 0.5
)

// Mode identifies the ranking strategy applied to a request.
type Mode string

const (
	ModeGeo          Mode = "geo"
	ModePersonalized Mode = "personalized"
)

// Instance is one history-derived feature row sent to the prediction service.
type Instance struct {
	DestinationID string `json:"destinationId"`
	Rating        int    `json:"rating"`
	Category      string `json:"category"`
}

// PredictionRequest carries the user's history and the candidates to score.
type PredictionRequest struct {
	Instances    []Instance
	CandidateIDs []string
}

// Predictor scores candidates. Implementations must return exactly one score
// per entry of CandidateIDs, in the same order.
type Predictor interface {
	Predict(ctx context.Context, req PredictionRequest) ([]float64, error)
}

// Request describes who is asking and from where.
type Request struct {
	UserID   string
	Location geo.Coordinate
	History  []models.UserReviewRecord
}

// Result is an ordered list of ranked destinations.
type Result struct {
	Mode         Mode
	Destinations []models.RankedDestination
}

// Ranker ranks candidate destinations.
type Ranker struct {
	predictor Predictor
	radiusKm  float64
	threshold float64
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithRadius overrides the geo-mode radius in kilometers.
func WithRadius(km float64) Option {
	return func(r *Ranker) { r.radiusKm = km }
}

// WithThreshold overrides the personalized score threshold.
func WithThreshold(t float64) Option {
	return func(r *Ranker) { r.threshold = t }
}

// NewRanker creates a Ranker. predictor may be nil when personalized ranking is
// not configured; personalized requests then fail with an upstream error.
func NewRanker(predictor Predictor, opts ...Option) *Ranker {
	r := &Ranker{
		predictor: predictor,
		radiusKm:  RadiusKm,
		threshold: ScoreThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SelectMode returns the strategy used for a request.
func SelectMode(req Request) Mode {
	if len(req.History) > 0 {
		return ModePersonalized
	}
	return ModeGeo
}

// Rank orders candidates for req. The candidates slice is not modified.
func (r *Ranker) Rank(ctx context.Context, req Request, candidates []models.Destination) (Result, error) {
	mode := SelectMode(req)

	var (
		ranked []models.RankedDestination
		err    error
	)
	switch mode {
	case ModePersonalized:
		ranked, err = r.rankPersonalized(ctx, req, candidates)
	default:
		ranked, err = r.rankGeo(req, candidates)
	}

	metrics.RecordRanking(string(mode), len(ranked), err)
	if err != nil {
		return Result{Mode: mode}, err
	}
	return Result{Mode: mode, Destinations: ranked}, nil
}

func (r *Ranker) rankPersonalized(ctx context.Context, req Request, candidates []models.Destination) ([]models.RankedDestination, error) {
	const op = "ranking.Personalized"

	if len(candidates) == 0 {
		return []models.RankedDestination{}, nil
	}
	if r.predictor == nil {
		return nil, apperr.New(apperr.KindUpstream, op, "prediction service is not configured")
	}

	ids := make([]string, len(candidates))
	for i := range candidates {
		ids[i] = candidates[i].ID
	}

	scores, err := r.predictor.Predict(ctx, PredictionRequest{
		Instances:    BuildInstances(req.History),
		CandidateIDs: ids,
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return nil, apperr.Wrap(apperr.KindUpstream, op, "prediction service failed", err)
		}
		return nil, err
	}
	if len(scores) != len(candidates) {
		return nil, apperr.New(apperr.KindUpstream, op,
			fmt.Sprintf("prediction service returned %d scores for %d candidates", len(scores), len(candidates)))
	}

	out := make([]models.RankedDestination, 0, len(candidates))
	for i, score := range scores {
		if !ValidScore(score) {
			return nil, apperr.New(apperr.KindUpstream, op,
				fmt.Sprintf("prediction service returned score %v at index %d, want a finite value in [0,1]", score, i))
		}
		if score <= r.threshold {
			continue
		}
		s := score
		out = append(out, models.RankedDestination{
			Destination:     candidates[i].Clone(),
			PredictionScore: &s,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].PredictionScore > *out[j].PredictionScore
	})
	return out, nil
}

func (r *Ranker) rankGeo(req Request, candidates []models.Destination) ([]models.RankedDestination, error) {
	if err := req.Location.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "ranking.Geo", "invalid user location", err)
	}

	out := make([]models.RankedDestination, 0, len(candidates))
	for i := range candidates {
		c := candidates[i].Coordinate()
		if c.Validate() != nil {
			continue
		}
		d := geo.DistanceKm(req.Location, c)
		if d > r.radiusKm {
			continue
		}
		out = append(out, models.RankedDestination{
			Destination: candidates[i].Clone(),
			Distance:    &d,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].AverageRating, out[j].AverageRating
		switch {
		case ai != nil && aj == nil:
			return true
		case ai == nil && aj != nil:
			return false
		case ai != nil && *ai != *aj:
			return *ai > *aj
		}
		return *out[i].Distance < *out[j].Distance
	})
	return out, nil
}

// ValidScore reports whether a prediction score is a finite value in [0,1].
func ValidScore(score float64) bool {
	return !math.IsNaN(score) && score >= 0 && score <= 1
}

// BuildInstances converts review history into prediction feature rows.
func BuildInstances(history []models.UserReviewRecord) []Instance {
	out := make([]Instance, len(history))
	for i, h := range history {
		out[i] = Instance{
			DestinationID: h.DestinationID,
			Rating:        h.Rating,
			Category:      h.Category,
		}
	}
	return out
}
