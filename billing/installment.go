/*
installment.go - Installment plan generation

PURPOSE:
  Splits a purchase across N consecutive monthly statements. Each
  installment lands on the first statement cycle advanced by its
  (1-based) index minus one, with the due date computed per cycle so
  clamping is applied independently (a plan can span Feb 28 and Mar 31).

AMOUNT DISTRIBUTION:
  The total is converted to integer minor units (cents), divided by the
  installment count truncating, and the entire remainder is added to
  the FIRST installment. This keeps every amount a valid currency value
  and makes the plan sum to the original total exactly — no
  floating-point drift, same output on every call.

INSTALLMENT IDS:
  "{purchaseDate}-i{index}", e.g. "2025-06-01-i1". Derived only from
  the purchase date and index so plans can be re-derived idempotently
  for display and duplicate detection.

SEE ALSO:
  - cycle.go: CycleFor/DueDateFor/Next
  - errors.go: ErrInvalidInstallmentCount
*/
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MustParseDecimal parses a decimal string, returning zero on failure.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// INSTALLMENT - One per-cycle allocation of a purchase
// =============================================================================

// Installment is one allocation of a purchase to a statement cycle.
// StatementMonth is 0-based.
type Installment struct {
	Index          int
	Amount         decimal.Decimal
	StatementMonth int
	StatementYear  int
	DueDate        CalendarDate
	ID             string
}

// =============================================================================
// PLAN GENERATION
// =============================================================================

// Plan generates the ordered installment list for a purchase. The
// total is in major currency units; distribution happens at cent
// granularity. Fails only when count < 1.
func Plan(purchase CalendarDate, total decimal.Decimal, count int, policy CyclePolicy) ([]Installment, error) {
	if count < 1 {
		return nil, &InvalidInstallmentCountError{Count: count}
	}

	// Shift to integer cents; sub-cent input precision truncates.
	totalCents := total.Shift(2).IntPart()
	share := totalCents / int64(count)
	remainder := totalCents - share*int64(count)

	cycle := policy.CycleFor(purchase)
	plan := make([]Installment, count)
	for k := 1; k <= count; k++ {
		cents := share
		if k == 1 {
			cents += remainder
		}
		plan[k-1] = Installment{
			Index:          k,
			Amount:         decimal.New(cents, -2),
			StatementMonth: cycle.Month,
			StatementYear:  cycle.Year,
			DueDate:        policy.DueDateFor(cycle),
			ID:             fmt.Sprintf("%s-i%d", purchase, k),
		}
		cycle = cycle.Next()
	}
	return plan, nil
}

// PlanTotal sums a plan's amounts. Equals the original purchase total
// for any plan produced by Plan.
func PlanTotal(plan []Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range plan {
		total = total.Add(inst.Amount)
	}
	return total
}
