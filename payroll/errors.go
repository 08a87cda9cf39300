/*
errors.go - Error types for the detection core

PURPOSE:
  All core error types in one place. Collaborators (loader, API) wrap
  these with their own context.

ERROR CATEGORIES:
  1. Input errors    - Invalid reference periods, malformed records
  2. Notice values   - Indeterminate evaluations are NOT errors; they are
                       values on the Result (see types.go), because a single
                       degenerate record must never abort a whole run.

USAGE:
  if errors.Is(err, payroll.ErrInvalidPeriod) { ... }
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPeriod is returned when a reference period is malformed
	// (month outside [1, 12]).
	ErrInvalidPeriod = errors.New("invalid period: month out of range")

	// ErrInvalidRecord is returned when a record is structurally invalid
	// (missing employee, empty code, unknown rubric type, bad period).
	// The loader is expected to reject such rows before the core sees
	// them; the core still refuses to run over them.
	ErrInvalidRecord = errors.New("invalid payroll record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RecordError pinpoints which record failed structural validation.
type RecordError struct {
	Index  int // position in the input slice
	Field  string
	Detail string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %s %s", e.Index, e.Field, e.Detail)
}

func (e *RecordError) Unwrap() error { return ErrInvalidRecord }

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) || errors.Is(err, ErrInvalidRecord)
}
