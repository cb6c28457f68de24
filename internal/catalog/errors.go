package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrUnavailable indicates the catalog could not be reached or answered
	// with a non-success status. Callers degrade to an informational reply
	// instead of failing the turn.
	ErrUnavailable = errors.New("catalog unavailable")

	// ErrNotFound indicates a single-record lookup matched nothing.
	// List-shaped operations return empty slices instead.
	ErrNotFound = errors.New("not found in catalog")
)

// wrapUnavailable tags transport-level failures with ErrUnavailable so the
// engine can tell a dead catalog from an empty result.
func wrapUnavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
