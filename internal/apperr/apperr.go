// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package apperr defines the domain error taxonomy shared by services and handlers.
//
// Services return *Error values tagged with a Kind; the API layer maps each Kind to
// an HTTP status and error code. Wrapped causes stay reachable via errors.Is/As.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error.
type Kind int

const (
	// KindInternal is an unclassified failure.
	KindInternal Kind = iota
	// KindValidation is malformed or out-of-range input.
	KindValidation
	// KindNotFound is a missing destination, user or review list.
	KindNotFound
	// KindUpstream is a store or prediction service failure, including malformed responses.
	KindUpstream
	// KindConflict is a write that collides with existing state.
	KindConflict
	// KindUnauthorized is a credential failure.
	KindUnauthorized
	// KindForbidden is an authenticated caller lacking permission.
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a classified domain error.
type Error struct {
	Kind Kind
	// Op names the failing operation, e.g. "review.Submit".
	Op string
	// Msg is safe to return to clients.
	Msg string
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Op != "":
		return e.Op + ": " + e.Msg
	case e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	default:
		return e.Msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind when the target carries no message,
// so errors.Is(err, apperr.NotFound) works as a kind check.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Msg == "" && t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for kind checks with errors.Is.
var (
	Validation   = &Error{Kind: KindValidation}
	NotFound     = &Error{Kind: KindNotFound}
	Upstream     = &Error{Kind: KindUpstream}
	Conflict     = &Error{Kind: KindConflict}
	Unauthorized = &Error{Kind: KindUnauthorized}
	Forbidden    = &Error{Kind: KindForbidden}
)

// New creates a classified error.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap creates a classified error around a cause.
func Wrap(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// Validationf is shorthand for a KindValidation error with a formatted message.
func Validationf(op, format string, args ...any) *Error {
	return New(KindValidation, op, fmt.Sprintf(format, args...))
}

// NotFoundf is shorthand for a KindNotFound error with a formatted message.
func NotFoundf(op, format string, args ...any) *Error {
	return New(KindNotFound, op, fmt.Sprintf(format, args...))
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-safe message of err, or fallback when err is unclassified.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return fallback
}
