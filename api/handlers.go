/*
handlers.go - HTTP API handlers for the billing engine

PURPOSE:
  Exposes the billing engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the billing
  core and cards domain.

ENDPOINTS:
  Cards:
    GET    /api/cards                     List all cards
    POST   /api/cards                     Create card
    GET    /api/cards/{id}                Get card
    DELETE /api/cards/{id}                Delete card
    GET    /api/cards/{id}/cycle?date=    Resolve a purchase date's statement

  Purchases:
    GET    /api/cards/{id}/purchases      List purchases with derived plans
    POST   /api/cards/{id}/purchases      Record purchase, return its plan
    POST   /api/installments/preview      Stateless plan computation

  Recurring:
    GET    /api/recurring                 List recurring transactions
    POST   /api/recurring                 Create recurring transaction
    POST   /api/recurring/{id}/advance    Step and persist the next date
    POST   /api/recurring/next-date       Stateless next-date computation

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (dates, day ranges - the core trusts its callers)
  3. Call billing core / store
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, installment count < 1
  - 404: Card/purchase/recurring not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/billing-engine/billing"
	"github.com/warp/billing-engine/cards"
	"github.com/warp/billing-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// CARD HANDLERS
// =============================================================================

// ListCards returns all cards.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListCards(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list cards", err)
		return
	}

	dtos := make([]CardDTO, len(list))
	for i, c := range list {
		dtos[i] = toCardDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCard returns a single card.
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, ok := h.loadCard(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCardDTO(card))
}

// CreateCard creates a new card.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	card := cards.Card{
		ID:         req.ID,
		Name:       req.Name,
		ClosingDay: req.ClosingDay,
		DueDay:     req.DueDay,
		Limit:      decimal.NewFromFloat(req.Limit),
		CreatedAt:  time.Now().UTC(),
	}
	if card.ID == "" {
		card.ID = newID("card")
	}
	if err := card.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid card", err)
		return
	}

	if err := h.Store.SaveCard(r.Context(), card); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create card", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCardDTO(card))
}

// DeleteCard removes a card and its purchases.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteCard(r.Context(), id); err != nil {
		if cards.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Card not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete card", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResolveCycle maps a purchase date onto the card's billing cycle.
func (h *Handler) ResolveCycle(w http.ResponseWriter, r *http.Request) {
	card, ok := h.loadCard(w, r)
	if !ok {
		return
	}

	purchaseDate, err := billing.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date parameter (use YYYY-MM-DD)", err)
		return
	}

	stmt := card.Policy().Resolve(purchaseDate)
	writeJSON(w, http.StatusOK, toStatementDTO(stmt))
}

// =============================================================================
// PURCHASE HANDLERS
// =============================================================================

// ListPurchases returns a card's purchases with their derived plans.
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	card, ok := h.loadCard(w, r)
	if !ok {
		return
	}

	purchases, err := h.Store.ListPurchases(r.Context(), card.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list purchases", err)
		return
	}

	dtos := make([]PurchaseDTO, 0, len(purchases))
	for _, p := range purchases {
		plan, err := p.Plan(card)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to derive installment plan", err)
			return
		}
		dtos = append(dtos, toPurchaseDTO(p, plan))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePurchase records a purchase and returns its installment plan.
func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	card, ok := h.loadCard(w, r)
	if !ok {
		return
	}

	var req CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	purchaseDate, err := billing.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	purchase := cards.Purchase{
		ID:           req.ID,
		CardID:       card.ID,
		Description:  req.Description,
		Date:         purchaseDate,
		Amount:       decimal.NewFromFloat(req.Amount),
		Installments: req.Installments,
		CreatedAt:    time.Now().UTC(),
	}
	if purchase.ID == "" {
		purchase.ID = newID("pur")
	}
	if err := purchase.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid purchase", err)
		return
	}

	// Plan first: an invalid installment count must fail before anything
	// is persisted.
	plan, err := purchase.Plan(card)
	if err != nil {
		if billing.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Invalid installment count", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to generate installment plan", err)
		return
	}

	if err := h.Store.SavePurchase(r.Context(), purchase); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save purchase", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPurchaseDTO(purchase, plan))
}

// PreviewInstallments computes a plan without touching the store.
func (h *Handler) PreviewInstallments(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	purchaseDate, err := billing.ParseDate(req.PurchaseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid purchase_date (use YYYY-MM-DD)", err)
		return
	}
	if req.ClosingDay < 1 || req.ClosingDay > 31 {
		writeError(w, http.StatusBadRequest, "Invalid closing_day", cards.ErrInvalidClosingDay)
		return
	}
	if req.DueDay < 1 || req.DueDay > 31 {
		writeError(w, http.StatusBadRequest, "Invalid due_day", cards.ErrInvalidDueDay)
		return
	}

	policy := billing.CyclePolicy{ClosingDay: req.ClosingDay, DueDay: req.DueDay}
	plan, err := billing.Plan(purchaseDate, decimal.NewFromFloat(req.Amount), req.InstallmentCount, policy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid installment count", err)
		return
	}
	writeJSON(w, http.StatusOK, toInstallmentDTOs(plan))
}

// =============================================================================
// RECURRING HANDLERS
// =============================================================================

// ListRecurring returns all recurring transactions.
func (h *Handler) ListRecurring(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListRecurring(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list recurring transactions", err)
		return
	}

	dtos := make([]RecurringDTO, len(list))
	for i, rec := range list {
		dtos[i] = toRecurringDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRecurring creates a recurring transaction.
func (h *Handler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req CreateRecurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	nextDate, err := billing.ParseDate(req.NextDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid next_date (use YYYY-MM-DD)", err)
		return
	}

	rec := cards.RecurringTransaction{
		ID:          req.ID,
		Description: req.Description,
		Amount:      decimal.NewFromFloat(req.Amount),
		Pattern:     billing.RecurrencePattern(req.Pattern),
		NextDate:    nextDate,
		CreatedAt:   time.Now().UTC(),
	}
	if req.RecurrenceDay != nil {
		rec.RecurrenceDay = *req.RecurrenceDay
	}
	if rec.ID == "" {
		rec.ID = newID("rec")
	}
	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid recurring transaction", err)
		return
	}

	if err := h.Store.SaveRecurring(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save recurring transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecurringDTO(rec))
}

// AdvanceRecurring steps a recurring transaction's next date and
// persists it.
func (h *Handler) AdvanceRecurring(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetRecurring(r.Context(), id)
	if err != nil {
		if cards.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Recurring transaction not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load recurring transaction", err)
		return
	}

	rec.Advance()
	if err := h.Store.UpdateRecurringNextDate(r.Context(), id, rec.NextDate); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist next date", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringDTO(rec))
}

// NextDate computes a next occurrence without touching the store.
func (h *Handler) NextDate(w http.ResponseWriter, r *http.Request) {
	var req NextDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	current, err := billing.ParseDate(req.CurrentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid current_date (use YYYY-MM-DD)", err)
		return
	}

	recurrenceDay := 0
	if req.RecurrenceDay != nil {
		recurrenceDay = *req.RecurrenceDay
	}
	if recurrenceDay < 0 || recurrenceDay > 31 {
		writeError(w, http.StatusBadRequest, "Invalid recurrence_day", cards.ErrInvalidRecurrenceDay)
		return
	}

	next := billing.NextOccurrence(current, billing.RecurrencePattern(req.Pattern), recurrenceDay)
	writeJSON(w, http.StatusOK, NextDateResponse{NextDate: next.String()})
}

// =============================================================================
// HELPERS
// =============================================================================

// loadCard fetches the card in the URL, writing the error response on
// failure.
func (h *Handler) loadCard(w http.ResponseWriter, r *http.Request) (cards.Card, bool) {
	id := chi.URLParam(r, "id")

	card, err := h.Store.GetCard(r.Context(), id)
	if err != nil {
		if cards.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Card not found", err)
			return cards.Card{}, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to load card", err)
		return cards.Card{}, false
	}
	return card, true
}

func newID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
