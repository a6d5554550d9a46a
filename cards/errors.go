/*
errors.go - Boundary validation and lookup errors for the cards domain

PURPOSE:
  The billing core performs no defensive validation, so every rule
  about what callers may pass lives here, alongside the not-found
  sentinels the store and API layers translate to HTTP statuses.
*/
package cards

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// Validation errors (client input).
	ErrMissingName          = errors.New("card name is required")
	ErrInvalidClosingDay    = errors.New("closing day must be between 1 and 31")
	ErrInvalidDueDay        = errors.New("due day must be between 1 and 31")
	ErrMissingCardID        = errors.New("card id is required")
	ErrMissingDate          = errors.New("date is required")
	ErrNegativeAmount       = errors.New("amount must not be negative")
	ErrMissingDescription   = errors.New("description is required")
	ErrInvalidRecurrenceDay = errors.New("recurrence day must be between 1 and 31")

	// Lookup errors.
	ErrCardNotFound      = errors.New("card not found")
	ErrPurchaseNotFound  = errors.New("purchase not found")
	ErrRecurringNotFound = errors.New("recurring transaction not found")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrPurchaseNotFound) ||
		errors.Is(err, ErrRecurringNotFound)
}

// IsValidation returns true if the error is due to invalid client input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrInvalidClosingDay) ||
		errors.Is(err, ErrInvalidDueDay) ||
		errors.Is(err, ErrMissingCardID) ||
		errors.Is(err, ErrMissingDate) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrMissingDescription) ||
		errors.Is(err, ErrInvalidRecurrenceDay)
}
