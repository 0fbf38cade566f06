// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"errors"
	"net/http"
)

// Error kinds surfaced by all renderd components. Callers test the
// kind with errors.Is; components add context with fmt.Errorf("...: %w").
var (
	// ErrInvalidKey marks malformed caller input: a base key without a
	// known asset extension, a non-positive width, or a bad cursor.
	// Not retryable.
	ErrInvalidKey = errors.New("invalid key format")

	// ErrNotFound marks a terminal miss: unknown content id or missing
	// base asset. Distinguished from ErrUnavailable so an outage is
	// never misread as a cache miss.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks a transient infrastructure fault in a store
	// or lookup backend. Retryable by the caller; renderd itself does
	// not retry.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrGeneration marks a failed rendition: undecodable source bytes
	// or an unsupported variant. Not retryable with the same input.
	ErrGeneration = errors.New("generation failed")
)

// HTTPStatus maps an error kind to the status served at the boundary.
// Unrecognized errors are treated as internal failures.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
