package cards_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/billing-engine/billing"
	"github.com/warp/billing-engine/cards"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func testCard() cards.Card {
	return cards.Card{
		ID:         "card-1",
		Name:       "Platinum",
		ClosingDay: 10,
		DueDay:     15,
		Limit:      decimal.NewFromInt(5000),
	}
}

// =============================================================================
// CARD VALIDATION TESTS
// =============================================================================

func TestCard_Validate(t *testing.T) {
	if err := testCard().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	card := testCard()
	card.Name = ""
	if err := card.Validate(); !errors.Is(err, cards.ErrMissingName) {
		t.Errorf("expected ErrMissingName, got %v", err)
	}

	card = testCard()
	card.ClosingDay = 0
	if err := card.Validate(); !errors.Is(err, cards.ErrInvalidClosingDay) {
		t.Errorf("expected ErrInvalidClosingDay, got %v", err)
	}

	card = testCard()
	card.DueDay = 32
	if err := card.Validate(); !errors.Is(err, cards.ErrInvalidDueDay) {
		t.Errorf("expected ErrInvalidDueDay, got %v", err)
	}
}

func TestCard_Policy(t *testing.T) {
	policy := testCard().Policy()
	if policy.ClosingDay != 10 || policy.DueDay != 15 {
		t.Errorf("expected policy {10 15}, got %+v", policy)
	}
}

// =============================================================================
// PURCHASE TESTS
// =============================================================================

func TestPurchase_Plan_UsesCardPolicy(t *testing.T) {
	// GIVEN: A purchase on the card's closing day
	// WHEN: Deriving the installment plan
	// THEN: The first statement rolls to the next month

	purchase := cards.Purchase{
		ID:           "pur-1",
		CardID:       "card-1",
		Date:         billing.MustDate("2025-01-10"),
		Amount:       decimal.RequireFromString("90"),
		Installments: 3,
	}

	plan, err := purchase.Plan(testCard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan[0].StatementMonth != 1 || plan[0].StatementYear != 2025 {
		t.Errorf("expected first statement Feb 2025, got month %d year %d",
			plan[0].StatementMonth, plan[0].StatementYear)
	}
}

func TestPurchase_Plan_PropagatesCountError(t *testing.T) {
	purchase := cards.Purchase{
		ID:     "pur-1",
		CardID: "card-1",
		Date:   billing.MustDate("2025-01-10"),
		Amount: decimal.RequireFromString("90"),
	}

	_, err := purchase.Plan(testCard())
	if !errors.Is(err, billing.ErrInvalidInstallmentCount) {
		t.Errorf("expected ErrInvalidInstallmentCount, got %v", err)
	}
}

func TestPurchase_Validate(t *testing.T) {
	purchase := cards.Purchase{
		CardID: "card-1",
		Date:   billing.MustDate("2025-01-10"),
		Amount: decimal.RequireFromString("-1"),
	}
	if err := purchase.Validate(); !errors.Is(err, cards.ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
}

// =============================================================================
// RECURRING TRANSACTION TESTS
// =============================================================================

func TestRecurring_Advance_MonthlyClamp(t *testing.T) {
	// GIVEN: A monthly subscription pinned to day 31 sitting on Jan 31
	// WHEN: Advancing twice
	// THEN: Feb clamps to 28, March springs back to 31

	sub := cards.RecurringTransaction{
		ID:            "rec-1",
		Description:   "gym",
		Amount:        decimal.RequireFromString("49.90"),
		Pattern:       billing.RecurMonthly,
		RecurrenceDay: 31,
		NextDate:      billing.MustDate("2025-01-31"),
	}

	sub.Advance()
	if got := sub.NextDate.String(); got != "2025-02-28" {
		t.Errorf("expected 2025-02-28, got %s", got)
	}

	sub.Advance()
	if got := sub.NextDate.String(); got != "2025-03-31" {
		t.Errorf("expected 2025-03-31, got %s", got)
	}
}

func TestRecurring_Validate(t *testing.T) {
	sub := cards.RecurringTransaction{
		Description: "rent",
		NextDate:    billing.MustDate("2025-01-01"),
	}
	if err := sub.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sub.RecurrenceDay = 40
	if err := sub.Validate(); !errors.Is(err, cards.ErrInvalidRecurrenceDay) {
		t.Errorf("expected ErrInvalidRecurrenceDay, got %v", err)
	}
}
