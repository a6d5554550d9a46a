/*
Package cards implements the credit-card domain on top of the billing engine.

PURPOSE:
  Models cards, purchases, and recurring transactions, and performs the
  boundary validation the billing core deliberately omits: the core is
  total over valid inputs and trusts its callers, so day-of-month
  ranges and required fields are enforced here before anything reaches
  the arithmetic.

SEE ALSO:
  - billing: The pure calculation core
  - store/sqlite: Persistence for these types
*/
package cards

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/billing-engine/billing"
)

// =============================================================================
// CARD
// =============================================================================

// Card is a credit card with its statement policy. ClosingDay and
// DueDay are calendar days in 1..31, independent of month lengths.
type Card struct {
	ID         string
	Name       string
	ClosingDay int
	DueDay     int
	Limit      decimal.Decimal
	CreatedAt  time.Time
}

// Policy returns the card's billing cycle policy.
func (c Card) Policy() billing.CyclePolicy {
	return billing.CyclePolicy{ClosingDay: c.ClosingDay, DueDay: c.DueDay}
}

// Validate enforces the caller contract the billing core relies on.
func (c Card) Validate() error {
	if c.Name == "" {
		return ErrMissingName
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return ErrInvalidClosingDay
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return ErrInvalidDueDay
	}
	return nil
}

// =============================================================================
// PURCHASE
// =============================================================================

// Purchase is a card purchase, possibly split into installments.
// Amount is in major currency units.
type Purchase struct {
	ID           string
	CardID       string
	Description  string
	Date         billing.CalendarDate
	Amount       decimal.Decimal
	Installments int
	CreatedAt    time.Time
}

// Validate checks the purchase against the billing core's caller
// contract. Installment count itself is enforced by the core.
func (p Purchase) Validate() error {
	if p.CardID == "" {
		return ErrMissingCardID
	}
	if p.Date.IsZero() {
		return ErrMissingDate
	}
	if p.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Plan derives the purchase's installment plan against a card's
// policy. Plans are never stored; they are re-derived on demand from
// the purchase inputs, which is safe because generation is
// deterministic.
func (p Purchase) Plan(card Card) ([]billing.Installment, error) {
	return billing.Plan(p.Date, p.Amount, p.Installments, card.Policy())
}

// =============================================================================
// RECURRING TRANSACTION
// =============================================================================

// RecurringTransaction is a scheduled transaction that repeats weekly,
// monthly, or yearly. RecurrenceDay pins the day-of-month for
// monthly/yearly patterns; 0 keeps the current date's day.
type RecurringTransaction struct {
	ID            string
	Description   string
	Amount        decimal.Decimal
	Pattern       billing.RecurrencePattern
	RecurrenceDay int
	NextDate      billing.CalendarDate
	CreatedAt     time.Time
}

// Validate checks the recurrence configuration. An unrecognized
// pattern is accepted (the core treats it as monthly); only the
// pinned day's range is enforced here.
func (r RecurringTransaction) Validate() error {
	if r.Description == "" {
		return ErrMissingDescription
	}
	if r.NextDate.IsZero() {
		return ErrMissingDate
	}
	if r.RecurrenceDay < 0 || r.RecurrenceDay > 31 {
		return ErrInvalidRecurrenceDay
	}
	return nil
}

// Advance steps NextDate forward by one period.
func (r *RecurringTransaction) Advance() {
	r.NextDate = billing.NextOccurrence(r.NextDate, r.Pattern, r.RecurrenceDay)
}
