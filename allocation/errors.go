/*
errors.go - Centralized error types for the allocation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (API layer, export) branch on these with errors.Is/errors.As.

ERROR CATEGORIES:
  1. Empty-input errors - Precondition violations (defensive backstop)
  2. Date validation errors - At least one unparseable date in a table

Anomalies (bills with zero person-days) are NOT errors. They are
collected on the Result and never abort a run.

SEE ALSO:
  - engine.go: Returns these errors
  - rocdate/rocdate.go: Underlying parse failures
*/
package allocation

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoBills is returned when the bill table has zero rows.
	// Callers are expected to pre-check; this is the engine's backstop.
	ErrNoBills = errors.New("no bills provided")

	// ErrNoResidents is returned when the residency table has zero rows.
	ErrNoResidents = errors.New("no residency records provided")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// Table identifies which input table an error refers to.
type Table string

const (
	TableBills     Table = "bill"
	TableResidents Table = "resident"
)

// FieldFailure records one unparseable date field. Row is the zero-based
// index into the source table.
type FieldFailure struct {
	Row   int
	Field string
	Value string
	Err   error
}

// DateValidationError aggregates every date parse failure found in one
// input table. The user-facing message stays table-level; the per-field
// detail rides along for callers that want it.
type DateValidationError struct {
	Table    Table
	Failures []FieldFailure
}

func (e *DateValidationError) Error() string {
	return fmt.Sprintf("unrecognized date format in %s data, expected Minguo dates like 112/09/01", e.Table)
}

func (e *DateValidationError) Unwrap() error {
	if len(e.Failures) > 0 {
		return e.Failures[0].Err
	}
	return nil
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsEmptyInput returns true if the error is a missing-table precondition.
func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrNoBills) || errors.Is(err, ErrNoResidents)
}

// IsClientError returns true if the error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	var validation *DateValidationError
	return IsEmptyInput(err) || errors.As(err, &validation)
}
