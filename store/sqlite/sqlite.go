/*
Package sqlite provides the SQLite-backed store for the billing engine.

PURPOSE:
  Persists cards, purchases, and recurring transactions. Installment
  plans are deliberately NOT persisted: plan generation is
  deterministic from the purchase inputs, so plans are re-derived on
  read instead of stored and kept in sync.

KEY TABLES:
  cards:                  Card records with closing/due day policy
  purchases:              Purchase inputs (date, amount, count)
  recurring_transactions: Recurring schedules and their next date

DATA ENCODING:
  Money is stored as decimal TEXT (never REAL - float drift).
  Calendar dates are stored as their canonical YYYY-MM-DD strings,
  which are zone-less by construction.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/billing.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - cards: Domain types persisted here
  - api: Handlers consuming this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/billing-engine/billing"
	"github.com/warp/billing-engine/cards"
)

// Store persists the cards domain using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Cards
	CREATE TABLE IF NOT EXISTS cards (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		closing_day INTEGER NOT NULL,
		due_day INTEGER NOT NULL,
		credit_limit TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	-- Purchases (installment plans are re-derived, never stored)
	CREATE TABLE IF NOT EXISTS purchases (
		id TEXT PRIMARY KEY,
		card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
		description TEXT,
		purchase_date TEXT NOT NULL,
		amount TEXT NOT NULL,
		installments INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_purchases_card
		ON purchases(card_id);
	CREATE INDEX IF NOT EXISTS idx_purchases_date
		ON purchases(purchase_date);

	-- Recurring transactions
	CREATE TABLE IF NOT EXISTS recurring_transactions (
		id TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		amount TEXT NOT NULL,
		pattern TEXT NOT NULL DEFAULT 'monthly',
		recurrence_day INTEGER NOT NULL DEFAULT 0,
		next_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_recurring_next_date
		ON recurring_transactions(next_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CARDS
// =============================================================================

// SaveCard inserts or replaces a card.
func (s *Store) SaveCard(ctx context.Context, card cards.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := card.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT OR REPLACE INTO cards (id, name, closing_day, due_day, credit_limit, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		card.ID,
		card.Name,
		card.ClosingDay,
		card.DueDay,
		card.Limit.String(),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	return nil
}

// GetCard returns a card by ID, or cards.ErrCardNotFound.
func (s *Store) GetCard(ctx context.Context, id string) (cards.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, closing_day, due_day, credit_limit, created_at
		FROM cards WHERE id = ?
	`, id)
	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return cards.Card{}, cards.ErrCardNotFound
	}
	if err != nil {
		return cards.Card{}, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// ListCards returns all cards ordered by name.
func (s *Store) ListCards(ctx context.Context) ([]cards.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, closing_day, due_day, credit_limit, created_at
		FROM cards ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var out []cards.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

// DeleteCard removes a card and, via cascade, its purchases.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return cards.ErrCardNotFound
	}
	return nil
}

// =============================================================================
// PURCHASES
// =============================================================================

// SavePurchase inserts or replaces a purchase.
func (s *Store) SavePurchase(ctx context.Context, p cards.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT OR REPLACE INTO purchases
		(id, card_id, description, purchase_date, amount, installments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.CardID,
		p.Description,
		p.Date.String(),
		p.Amount.String(),
		p.Installments,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save purchase: %w", err)
	}
	return nil
}

// GetPurchase returns a purchase by ID, or cards.ErrPurchaseNotFound.
func (s *Store) GetPurchase(ctx context.Context, id string) (cards.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, card_id, description, purchase_date, amount, installments, created_at
		FROM purchases WHERE id = ?
	`, id)
	p, err := scanPurchase(row)
	if err == sql.ErrNoRows {
		return cards.Purchase{}, cards.ErrPurchaseNotFound
	}
	if err != nil {
		return cards.Purchase{}, fmt.Errorf("failed to get purchase: %w", err)
	}
	return p, nil
}

// ListPurchases returns a card's purchases ordered by purchase date.
func (s *Store) ListPurchases(ctx context.Context, cardID string) ([]cards.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, card_id, description, purchase_date, amount, installments, created_at
		FROM purchases WHERE card_id = ? ORDER BY purchase_date, id
	`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	var out []cards.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// RECURRING TRANSACTIONS
// =============================================================================

// SaveRecurring inserts or replaces a recurring transaction.
func (s *Store) SaveRecurring(ctx context.Context, r cards.RecurringTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT OR REPLACE INTO recurring_transactions
		(id, description, amount, pattern, recurrence_day, next_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.Description,
		r.Amount.String(),
		string(r.Pattern),
		r.RecurrenceDay,
		r.NextDate.String(),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save recurring transaction: %w", err)
	}
	return nil
}

// GetRecurring returns a recurring transaction by ID, or
// cards.ErrRecurringNotFound.
func (s *Store) GetRecurring(ctx context.Context, id string) (cards.RecurringTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, description, amount, pattern, recurrence_day, next_date, created_at
		FROM recurring_transactions WHERE id = ?
	`, id)
	r, err := scanRecurring(row)
	if err == sql.ErrNoRows {
		return cards.RecurringTransaction{}, cards.ErrRecurringNotFound
	}
	if err != nil {
		return cards.RecurringTransaction{}, fmt.Errorf("failed to get recurring transaction: %w", err)
	}
	return r, nil
}

// ListRecurring returns all recurring transactions ordered by next date.
func (s *Store) ListRecurring(ctx context.Context) ([]cards.RecurringTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount, pattern, recurrence_day, next_date, created_at
		FROM recurring_transactions ORDER BY next_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring transactions: %w", err)
	}
	defer rows.Close()

	var out []cards.RecurringTransaction
	for rows.Next() {
		r, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring transaction: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateRecurringNextDate persists an advanced next-occurrence date.
func (s *Store) UpdateRecurringNextDate(ctx context.Context, id string, next billing.CalendarDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE recurring_transactions SET next_date = ? WHERE id = ?
	`, next.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update next date: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return cards.ErrRecurringNotFound
	}
	return nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (cards.Card, error) {
	var (
		card       cards.Card
		limitStr   string
		createdStr string
	)
	if err := row.Scan(&card.ID, &card.Name, &card.ClosingDay, &card.DueDay, &limitStr, &createdStr); err != nil {
		return cards.Card{}, err
	}
	card.Limit = mustDecimal(limitStr)
	card.CreatedAt = mustTime(createdStr)
	return card, nil
}

func scanPurchase(row rowScanner) (cards.Purchase, error) {
	var (
		p          cards.Purchase
		dateStr    string
		amountStr  string
		createdStr string
	)
	if err := row.Scan(&p.ID, &p.CardID, &p.Description, &dateStr, &amountStr, &p.Installments, &createdStr); err != nil {
		return cards.Purchase{}, err
	}
	p.Date = billing.MustDate(dateStr)
	p.Amount = mustDecimal(amountStr)
	p.CreatedAt = mustTime(createdStr)
	return p, nil
}

func scanRecurring(row rowScanner) (cards.RecurringTransaction, error) {
	var (
		r          cards.RecurringTransaction
		pattern    string
		dateStr    string
		amountStr  string
		createdStr string
	)
	if err := row.Scan(&r.ID, &r.Description, &amountStr, &pattern, &r.RecurrenceDay, &dateStr, &createdStr); err != nil {
		return cards.RecurringTransaction{}, err
	}
	r.Pattern = billing.RecurrencePattern(pattern)
	r.Amount = mustDecimal(amountStr)
	r.NextDate = billing.MustDate(dateStr)
	r.CreatedAt = mustTime(createdStr)
	return r, nil
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func mustTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
