// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package api

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tourbuddy/internal/apperr"
	"github.com/tomtom215/tourbuddy/internal/geo"
	"github.com/tomtom215/tourbuddy/internal/validation"
)

// maxRequestBodySize bounds JSON request bodies.
const maxRequestBodySize = 64 << 10

// AddReviewRequest is the addreview body.
type AddReviewRequest struct {
	DestinationID string `json:"destination_id" validate:"required,max=64"`
	Review        string `json:"review" validate:"max=4000"`
	Rating        Rating `json:"rating" validate:"required,min=1,max=5"`
}

// Rating is a review score that only decodes from a JSON integer literal.
type Rating int

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rating) UnmarshalJSON(data []byte) error {
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return &fieldTypeError{field: "rating", want: "an integer"}
	}
	*r = Rating(n)
	return nil
}

// fieldTypeError reports a body field holding a JSON value of the wrong type.
type fieldTypeError struct {
	field string
	want  string
}

func (e *fieldTypeError) Error() string {
	return e.field + " must be " + e.want
}

// decodeJSON decodes and validates a request body. On failure it writes the
// 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		var fieldErr *fieldTypeError
		switch {
		case errors.As(err, &fieldErr):
			NewResponseWriter(w, r).ValidationError(fieldErr.Error(),
				map[string]interface{}{"field": fieldErr.field, "tag": "type"})
		case errors.As(err, &typeErr):
			field := typeErr.Field
			if field == "" {
				field = "request field"
			}
			NewResponseWriter(w, r).ValidationError(fmt.Sprintf("%s must be %s", field, typeName(typeErr)),
				map[string]interface{}{"field": field, "tag": "type"})
		case errors.As(err, &maxErr):
			NewResponseWriter(w, r).Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "request body too large")
		case errors.Is(err, io.EOF):
			NewResponseWriter(w, r).BadRequest("request body is required")
		default:
			NewResponseWriter(w, r).BadRequest("invalid JSON request body")
		}
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// typeName describes the Go type a JSON value failed to decode into.
func typeName(e *json.UnmarshalTypeError) string {
	if e.Type == nil {
		return "of a different type"
	}
	switch e.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	default:
		return "a " + e.Type.String()
	}
}

// coordinateQuery applies the latitude and longitude rules to parsed query values.
type coordinateQuery struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

// parseCoordinates reads and validates the lat and lon query parameters.
func parseCoordinates(r *http.Request) (geo.Coordinate, error) {
	const op = "api.parseCoordinates"

	q := r.URL.Query()
	lat, err := parseFloatParam(q.Get("lat"), "lat")
	if err != nil {
		return geo.Coordinate{}, apperr.Wrap(apperr.KindValidation, op, err.Error(), err)
	}
	lon, err := parseFloatParam(q.Get("lon"), "lon")
	if err != nil {
		return geo.Coordinate{}, apperr.Wrap(apperr.KindValidation, op, err.Error(), err)
	}

	if verr := validation.ValidateStruct(coordinateQuery{Lat: lat, Lon: lon}); verr != nil {
		return geo.Coordinate{}, apperr.Wrap(apperr.KindValidation, op, verr.ToAPIError().Message, verr)
	}

	c := geo.Coordinate{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return geo.Coordinate{}, apperr.Wrap(apperr.KindValidation, op, err.Error(), err)
	}
	return c, nil
}

func parseFloatParam(raw, name string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

// clientIP returns the request's remote host, as rewritten by chi's RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
