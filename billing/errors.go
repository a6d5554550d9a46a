/*
errors.go - Centralized error types for the billing engine

PURPOSE:
  All engine error types in one place. The engine deliberately performs
  almost no validation: malformed dates and out-of-range policy days
  are caller contract violations handled at the boundary (see the
  cards package), not recoverable errors here. The single enforced
  condition is the installment count.

USAGE:
  Callers match with errors.Is:

    if errors.Is(err, billing.ErrInvalidInstallmentCount) { ... }

  or extract details with errors.As:

    var icErr *billing.InvalidInstallmentCountError
    errors.As(err, &icErr)

SEE ALSO:
  - installment.go: The only producer of these errors
  - cards/errors.go: Boundary validation and not-found errors
*/
package billing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInstallmentCount is returned when an installment plan
	// is requested with fewer than one installment. Never retried or
	// defaulted; surfaced straight to the caller.
	ErrInvalidInstallmentCount = errors.New("invalid installment count")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInstallmentCountError reports the rejected count.
type InvalidInstallmentCountError struct {
	Count int
}

func (e *InvalidInstallmentCountError) Error() string {
	return fmt.Sprintf("invalid installment count %d: must be at least 1", e.Count)
}

func (e *InvalidInstallmentCountError) Unwrap() error {
	return ErrInvalidInstallmentCount
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInstallmentCount)
}
