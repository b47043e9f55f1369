// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_CoincidentPoints(t *testing.T) {
	t.Parallel()

	points := []Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: -6.1754, Lon: 106.8272},
		{Lat: 89.9, Lon: -179.9},
	}

	for _, p := range points {
		if d := DistanceKm(p, p); d != 0 {
			t.Errorf("DistanceKm(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	t.Parallel()

	pairs := [][2]Coordinate{
		{{Lat: -6.1754, Lon: 106.8272}, {Lat: -7.7956, Lon: 110.3695}},
		{{Lat: 51.5074, Lon: -0.1278}, {Lat: 40.7128, Lon: -74.0060}},
		{{Lat: 0, Lon: 179.5}, {Lat: 0, Lon: -179.5}},
	}

	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1])
		ba := DistanceKm(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("DistanceKm not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKm_KnownFixtures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		a, b      Coordinate
		want      float64
		tolerance float64
	}{
		{
			name:      "one degree of latitude",
			a:         Coordinate{Lat: 0, Lon: 0},
			b:         Coordinate{Lat: 1, Lon: 0},
			want:      111.19,
			tolerance: 0.1,
		},
		{
			name:      "antimeridian crossing",
			a:         Coordinate{Lat: 0, Lon: 179.5},
			b:         Coordinate{Lat: 0, Lon: -179.5},
			want:      111.19,
			tolerance: 0.1,
		},
		{
			name:      "jakarta to yogyakarta",
			a:         Coordinate{Lat: -6.1754, Lon: 106.8272},
			b:         Coordinate{Lat: -7.7956, Lon: 110.3695},
			want:      431,
			tolerance: 5,
		},
		{
			name:      "antipodal points",
			a:         Coordinate{Lat: 0, Lon: 0},
			b:         Coordinate{Lat: 0, Lon: 180},
			want:      math.Pi * EarthRadiusKm,
			tolerance: 0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceKm() = %.3f, want %.3f ± %.3f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestCoordinate_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		c       Coordinate
		wantErr bool
	}{
		{"origin", Coordinate{0, 0}, false},
		{"bounds", Coordinate{90, -180}, false},
		{"lat too high", Coordinate{90.1, 0}, true},
		{"lon too low", Coordinate{0, -180.5}, true},
		{"nan lat", Coordinate{math.NaN(), 0}, true},
		{"inf lon", Coordinate{0, math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
