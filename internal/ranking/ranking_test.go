// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package ranking

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/geo"
	"github.com/tomtom215/tourbuddy/internal/models"
)

// kmPerDegreeLat approximates the distance of one degree of latitude.
const kmPerDegreeLat = 111.195

type stubPredictor struct {
	scores []float64
	err    error
	calls  int
	got    PredictionRequest
}

func (s *stubPredictor) Predict(_ context.Context, req PredictionRequest) ([]float64, error) {
	s.calls++
	s.got = req
	return s.scores, s.err
}

func rated(v float64) *float64 { return &v }

func destinationAt(id string, km float64, avg *float64) models.Destination {
	return models.Destination{
		ID:            id,
		Category:      "Taman",
		Lat:           km / kmPerDegreeLat,
		Lon:           0,
		AverageRating: avg,
	}
}

func ids(ranked []models.RankedDestination) []string {
	out := make([]string, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].ID
	}
	return out
}

var origin = geo.Coordinate{Lat: 0, Lon: 0}

func TestRank_GeoFiltersByRadiusAndSortsByRating(t *testing.T) {
	t.Parallel()

	candidates := []models.Destination{
		destinationAt("a", 10, rated(3)),
		destinationAt("b", 40, rated(5)),
		destinationAt("c", 5, rated(4)),
	}

	pred := &stubPredictor{}
	res, err := NewRanker(pred).Rank(context.Background(), Request{UserID: "u1", Location: origin}, candidates)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if res.Mode != ModeGeo {
		t.Errorf("Mode = %q, want geo", res.Mode)
	}
	if diff := cmp.Diff([]string{"c", "a"}, ids(res.Destinations)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if pred.calls != 0 {
		t.Errorf("predictor called %d times in geo mode", pred.calls)
	}
	for _, d := range res.Destinations {
		if d.Distance == nil || d.PredictionScore != nil {
			t.Errorf("%s: want distance only, got distance=%v score=%v", d.ID, d.Distance, d.PredictionScore)
		}
	}
	if got := *res.Destinations[0].Distance; math.Abs(got-5) > 0.01 {
		t.Errorf("distance of c = %v, want ~5", got)
	}
}

func TestRank_GeoTieBreaksAndUnrated(t *testing.T) {
	t.Parallel()

	candidates := []models.Destination{
		destinationAt("unrated-near", 1, nil),
		destinationAt("four-far", 20, rated(4)),
		destinationAt("four-near", 2, rated(4)),
		destinationAt("boundary", RadiusKm-0.001, rated(2)),
		destinationAt("outside", RadiusKm+0.5, rated(5)),
	}

	res, err := NewRanker(nil).Rank(context.Background(), Request{Location: origin}, candidates)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	want := []string{"four-near", "four-far", "boundary", "unrated-near"}
	if diff := cmp.Diff(want, ids(res.Destinations)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRank_GeoInvalidLocation(t *testing.T) {
	t.Parallel()

	_, err := NewRanker(nil).Rank(context.Background(),
		Request{Location: geo.Coordinate{Lat: 120}},
		[]models.Destination{destinationAt("a", 1, nil)})
	if !errors.Is(err, apperr.Validation) {
		t.Errorf("Rank() error = %v, want validation error", err)
	}
}

func TestRank_PersonalizedFiltersAndSortsByScore(t *testing.T) {
	t.Parallel()

	candidates := []models.Destination{
		destinationAt("x", 500, rated(1)),
		destinationAt("y", 1, rated(5)),
		destinationAt("z", 900, nil),
	}
	history := []models.UserReviewRecord{
		{DestinationID: "h1", Rating: 5, Category: "Bahari"},
		{DestinationID: "h2", Rating: 2, Category: "Budaya"},
	}

	pred := &stubPredictor{scores: []float64{0.9, 0.3, 0.6}}
	res, err := NewRanker(pred).Rank(context.Background(),
		Request{UserID: "u1", Location: origin, History: history}, candidates)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if res.Mode != ModePersonalized {
		t.Errorf("Mode = %q, want personalized", res.Mode)
	}
	if diff := cmp.Diff([]string{"x", "z"}, ids(res.Destinations)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got := *res.Destinations[0].PredictionScore; got != 0.9 {
		t.Errorf("top score = %v, want 0.9", got)
	}
	if res.Destinations[0].Distance != nil {
		t.Error("personalized result must not carry a distance")
	}

	wantReq := PredictionRequest{
		Instances: []Instance{
			{DestinationID: "h1", Rating: 5, Category: "Bahari"},
			{DestinationID: "h2", Rating: 2, Category: "Budaya"},
		},
		CandidateIDs: []string{"x", "y", "z"},
	}
	if diff := cmp.Diff(wantReq, pred.got); diff != "" {
		t.Errorf("prediction request mismatch (-want +got):\n%s", diff)
	}
}

func TestRank_PersonalizedStableOnTies(t *testing.T) {
	t.Parallel()

	candidates := []models.Destination{
		destinationAt("first", 1, nil),
		destinationAt("second", 1, nil),
		destinationAt("third", 1, nil),
	}
	history := []models.UserReviewRecord{{DestinationID: "h", Rating: 4}}

	pred := &stubPredictor{scores: []float64{0.7, 0.8, 0.7}}
	res, err := NewRanker(pred).Rank(context.Background(), Request{History: history}, candidates)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if diff := cmp.Diff([]string{"second", "first", "third"}, ids(res.Destinations)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRank_PersonalizedThresholdIsExclusive(t *testing.T) {
	t.Parallel()

	candidates := []models.Destination{destinationAt("edge", 1, nil)}
	history := []models.UserReviewRecord{{DestinationID: "h", Rating: 4}}

	res, err := NewRanker(&stubPredictor{scores: []float64{0.5}}).
		Rank(context.Background(), Request{History: history}, candidates)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(res.Destinations) != 0 {
		t.Errorf("got %v, want no destinations at exactly the threshold", ids(res.Destinations))
	}
}

func TestRank_PersonalizedUpstreamFailures(t *testing.T) {
	t.Parallel()

	candidates := []models.Destination{
		destinationAt("a", 1, rated(5)),
		destinationAt("b", 2, rated(4)),
	}
	history := []models.UserReviewRecord{{DestinationID: "h", Rating: 4}}

	tests := []struct {
		name string
		pred Predictor
	}{
		{"length mismatch", &stubPredictor{scores: []float64{0.9}}},
		{"too many scores", &stubPredictor{scores: []float64{0.9, 0.8, 0.7}}},
		{"non-finite score", &stubPredictor{scores: []float64{0.9, math.NaN()}}},
		{"infinite score", &stubPredictor{scores: []float64{math.Inf(1), 0.9}}},
		{"score above one", &stubPredictor{scores: []float64{1.7, 0.9}}},
		{"negative score", &stubPredictor{scores: []float64{0.9, -3}}},
		{"transport error", &stubPredictor{err: errors.New("connection refused")}},
		{"not configured", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := NewRanker(tt.pred).Rank(context.Background(), Request{Location: origin, History: history}, candidates)
			if !errors.Is(err, apperr.Upstream) {
				t.Fatalf("Rank() error = %v, want upstream error", err)
			}
			if len(res.Destinations) != 0 {
				t.Errorf("got %d destinations on failure, want none (no geo fallback)", len(res.Destinations))
			}
		})
	}
}

func TestRank_EmptyCandidates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		history []models.UserReviewRecord
	}{
		{"geo", nil},
		{"personalized", []models.UserReviewRecord{{DestinationID: "h", Rating: 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pred := &stubPredictor{err: errors.New("must not be called")}
			res, err := NewRanker(pred).Rank(context.Background(),
				Request{Location: origin, History: tt.history}, nil)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if res.Destinations == nil || len(res.Destinations) != 0 {
				t.Errorf("Destinations = %v, want empty non-nil slice", res.Destinations)
			}
			if pred.calls != 0 {
				t.Errorf("predictor called %d times", pred.calls)
			}
		})
	}
}

func TestRank_DoesNotMutateCandidates(t *testing.T) {
	t.Parallel()

	candidates := []models.Destination{
		destinationAt("a", 10, rated(3)),
		destinationAt("c", 5, rated(4)),
	}
	candidates[0].Reviews = []models.Review{{Rating: 3}}

	res, err := NewRanker(nil).Rank(context.Background(), Request{Location: origin}, candidates)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	*res.Destinations[1].AverageRating = 1
	res.Destinations[1].Reviews[0].Rating = 1

	if *candidates[0].AverageRating != 3 || candidates[0].Reviews[0].Rating != 3 {
		t.Error("ranking result aliases candidate storage")
	}
	if candidates[0].ID != "a" || candidates[1].ID != "c" {
		t.Error("candidate order was modified")
	}
}

func TestRanker_Options(t *testing.T) {
	t.Parallel()

	candidates := []models.Destination{
		destinationAt("near", 5, rated(3)),
		destinationAt("mid", 15, rated(4)),
	}

	res, err := NewRanker(nil, WithRadius(10)).Rank(context.Background(), Request{Location: origin}, candidates)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if diff := cmp.Diff([]string{"near"}, ids(res.Destinations)); diff != "" {
		t.Errorf("WithRadius mismatch (-want +got):\n%s", diff)
	}

	history := []models.UserReviewRecord{{DestinationID: "h", Rating: 4}}
	res, err = NewRanker(&stubPredictor{scores: []float64{0.3, 0.2}}, WithThreshold(0.25)).
		Rank(context.Background(), Request{History: history}, candidates)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if diff := cmp.Diff([]string{"near"}, ids(res.Destinations)); diff != "" {
		t.Errorf("WithThreshold mismatch (-want +got):\n%s", diff)
	}
}
