// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package apperr

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError_KindMatching(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("handler: %w", NotFoundf("review.List", "destination %q not found", "d1"))

	if !errors.Is(err, NotFound) {
		t.Error("errors.Is(err, NotFound) = false, want true")
	}
	if errors.Is(err, Validation) {
		t.Error("errors.Is(err, Validation) = true, want false")
	}
	if got := KindOf(err); got != KindNotFound {
		t.Errorf("KindOf() = %v, want %v", got, KindNotFound)
	}
	if got := Message(err, "fallback"); got != `destination "d1" not found` {
		t.Errorf("Message() = %q", got)
	}
}

func TestError_UnwrapsCause(t *testing.T) {
	t.Parallel()

	err := Wrap(KindUpstream, "prediction.Predict", "prediction service failed", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if !errors.Is(err, Upstream) {
		t.Error("errors.Is(err, Upstream) = false, want true")
	}
	want := "prediction.Predict: prediction service failed: unexpected EOF"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestKindOf_Unclassified(t *testing.T) {
	t.Parallel()

	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Errorf("KindOf() = %v, want internal", got)
	}
	if got := Message(errors.New("boom"), "fallback"); got != "fallback" {
		t.Errorf("Message() = %q, want fallback", got)
	}
}
