/*
errors.go - Centralized error types for the tracking engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is/errors.As; the API layer maps these onto
  HTTP statuses via the helpers at the bottom.

ERROR CATEGORIES:
  1. Business-rule violations - duplicate same-day trace, NIT reuse
  2. Missing references - cylinder or NIT not found
  3. Validation errors - malformed input, unknown action kind
  4. Aggregation errors - daily/monthly report update failures

SEE ALSO:
  - recorder.go: Raises DuplicateActionError and AggregationError
  - registry.go: Raises not-found and validation errors
*/
package tracking

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateAction is returned when a cylinder already has a TRACED
	// trace on the current calendar day. Tracing is at most once per day.
	ErrDuplicateAction = errors.New("action already recorded today")

	// ErrCylinderNotFound is returned when a referenced cylinder doesn't exist.
	ErrCylinderNotFound = errors.New("cylinder not found")

	// ErrNitNotFound is returned when a referenced NIT doesn't exist.
	ErrNitNotFound = errors.New("nit not found")

	// ErrDuplicateNit is returned when creating a NIT whose code is taken.
	ErrDuplicateNit = errors.New("nit code already exists")

	// ErrNitAssigned is returned when a NIT is already bound to a cylinder.
	// The NIT-cylinder relation is strictly 1:1.
	ErrNitAssigned = errors.New("nit already assigned to a cylinder")

	// ErrValidation is returned for malformed input (blank code, unknown
	// action kind). Raised before any mutation; state is left untouched.
	ErrValidation = errors.New("invalid input")

	// ErrAggregation is returned when a daily report update fails after the
	// trace was already persisted. The trace exists; the aggregate may be
	// stale and requires manual reconciliation, not a blind retry.
	ErrAggregation = errors.New("report aggregation failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateActionError reports a same-day repeat of a once-per-day action.
type DuplicateActionError struct {
	CylinderID string
	Action     ActionKind
	Date       Date
}

func (e *DuplicateActionError) Error() string {
	return fmt.Sprintf("cylinder %s already has a %s trace on %s",
		e.CylinderID, e.Action, e.Date)
}

func (e *DuplicateActionError) Unwrap() error {
	return ErrDuplicateAction
}

// AggregationError reports a daily-report update failure for a trace that
// was already durably saved.
type AggregationError struct {
	TraceID string
	Err     error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("trace %s persisted but report update failed: %v", e.TraceID, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return ErrAggregation
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// or a business-rule violation.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateAction) ||
		errors.Is(err, ErrDuplicateNit) ||
		errors.Is(err, ErrNitAssigned) ||
		errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing reference.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCylinderNotFound) ||
		errors.Is(err, ErrNitNotFound)
}
