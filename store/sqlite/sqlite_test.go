package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/billing-engine/billing"
	"github.com/warp/billing-engine/cards"
	"github.com/warp/billing-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testCard(id string) cards.Card {
	return cards.Card{
		ID:         id,
		Name:       "Platinum " + id,
		ClosingDay: 10,
		DueDay:     15,
		Limit:      decimal.RequireFromString("5000"),
	}
}

// =============================================================================
// CARD ROUND-TRIP TESTS
// =============================================================================

func TestStore_Card_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCard(ctx, testCard("card-1")))

	got, err := store.GetCard(ctx, "card-1")
	require.NoError(t, err)
	assert.Equal(t, "card-1", got.ID)
	assert.Equal(t, 10, got.ClosingDay)
	assert.Equal(t, 15, got.DueDay)
	assert.True(t, got.Limit.Equal(decimal.RequireFromString("5000")), "limit should survive the TEXT round-trip")
}

func TestStore_Card_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetCard(context.Background(), "missing")
	assert.ErrorIs(t, err, cards.ErrCardNotFound)

	err = store.DeleteCard(context.Background(), "missing")
	assert.ErrorIs(t, err, cards.ErrCardNotFound)
}

func TestStore_Card_ListAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCard(ctx, testCard("card-1")))
	require.NoError(t, store.SaveCard(ctx, testCard("card-2")))

	list, err := store.ListCards(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, store.DeleteCard(ctx, "card-1"))
	list, err = store.ListCards(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// =============================================================================
// PURCHASE TESTS
// =============================================================================

func TestStore_Purchase_RoundTripAndReplan(t *testing.T) {
	// GIVEN: A persisted purchase
	// WHEN: Loading it back and re-deriving its plan
	// THEN: The plan is identical to the one computed before saving

	store := newTestStore(t)
	ctx := context.Background()
	card := testCard("card-1")
	require.NoError(t, store.SaveCard(ctx, card))

	purchase := cards.Purchase{
		ID:           "pur-1",
		CardID:       "card-1",
		Description:  "fridge",
		Date:         billing.MustDate("2025-01-05"),
		Amount:       decimal.RequireFromString("100"),
		Installments: 3,
	}
	before, err := purchase.Plan(card)
	require.NoError(t, err)

	require.NoError(t, store.SavePurchase(ctx, purchase))
	loaded, err := store.GetPurchase(ctx, "pur-1")
	require.NoError(t, err)

	after, err := loaded.Plan(card)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.True(t, before[i].Amount.Equal(after[i].Amount))
		assert.Equal(t, before[i].DueDate, after[i].DueDate)
	}
}

func TestStore_Purchase_ListByCard(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveCard(ctx, testCard("card-1")))

	for i, date := range []string{"2025-02-01", "2025-01-01"} {
		require.NoError(t, store.SavePurchase(ctx, cards.Purchase{
			ID:           []string{"pur-a", "pur-b"}[i],
			CardID:       "card-1",
			Date:         billing.MustDate(date),
			Amount:       decimal.RequireFromString("10"),
			Installments: 1,
		}))
	}

	list, err := store.ListPurchases(ctx, "card-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "pur-b", list[0].ID, "purchases should come back in date order")
}

// =============================================================================
// RECURRING TESTS
// =============================================================================

func TestStore_Recurring_RoundTripAndAdvance(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sub := cards.RecurringTransaction{
		ID:            "rec-1",
		Description:   "streaming",
		Amount:        decimal.RequireFromString("19.90"),
		Pattern:       billing.RecurMonthly,
		RecurrenceDay: 31,
		NextDate:      billing.MustDate("2025-01-31"),
	}
	require.NoError(t, store.SaveRecurring(ctx, sub))

	loaded, err := store.GetRecurring(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, billing.RecurMonthly, loaded.Pattern)

	loaded.Advance()
	require.NoError(t, store.UpdateRecurringNextDate(ctx, "rec-1", loaded.NextDate))

	again, err := store.GetRecurring(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", again.NextDate.String())
}

func TestStore_Recurring_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRecurring(context.Background(), "missing")
	assert.ErrorIs(t, err, cards.ErrRecurringNotFound)

	err = store.UpdateRecurringNextDate(context.Background(), "missing", billing.MustDate("2025-01-01"))
	assert.ErrorIs(t, err, cards.ErrRecurringNotFound)
}
