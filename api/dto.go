/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONTH CONVENTION:
  Statement months are 0-based in payloads (0=January .. 11=December),
  matching the engine's cycle arithmetic. Clients converting to
  calendar months add 1 explicitly.

VALIDATION:
  Validation is done in handlers and the cards package, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - cards: Domain types behind them
*/
package api

import (
	"time"

	"github.com/warp/billing-engine/billing"
	"github.com/warp/billing-engine/cards"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CardDTO represents a credit card in API responses.
type CardDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ClosingDay int     `json:"closing_day"`
	DueDay     int     `json:"due_day"`
	Limit      float64 `json:"limit"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

// CreateCardRequest is the request to create a card.
type CreateCardRequest struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	ClosingDay int     `json:"closing_day"`
	DueDay     int     `json:"due_day"`
	Limit      float64 `json:"limit,omitempty"`
}

// StatementDTO is a resolved billing cycle. Month is 0-based.
type StatementDTO struct {
	StatementMonth int    `json:"statement_month"`
	StatementYear  int    `json:"statement_year"`
	DueDate        string `json:"due_date"`
}

// InstallmentDTO is one allocation of a purchase to a statement.
type InstallmentDTO struct {
	Index          int     `json:"index"`
	Amount         float64 `json:"amount"`
	StatementMonth int     `json:"statement_month"`
	StatementYear  int     `json:"statement_year"`
	DueDate        string  `json:"due_date"`
	InstallmentID  string  `json:"installment_id"`
}

// PurchaseDTO represents a purchase and its derived installment plan.
type PurchaseDTO struct {
	ID           string           `json:"id"`
	CardID       string           `json:"card_id"`
	Description  string           `json:"description,omitempty"`
	Date         string           `json:"date"`
	Amount       float64          `json:"amount"`
	Installments int              `json:"installments"`
	Plan         []InstallmentDTO `json:"plan"`
	CreatedAt    string           `json:"created_at,omitempty"`
}

// CreatePurchaseRequest is the request to record a purchase.
type CreatePurchaseRequest struct {
	ID           string  `json:"id,omitempty"`
	Description  string  `json:"description,omitempty"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	Installments int     `json:"installments"`
}

// PreviewRequest is the stateless installment-plan request.
type PreviewRequest struct {
	PurchaseDate     string  `json:"purchase_date"`
	Amount           float64 `json:"amount"`
	InstallmentCount int     `json:"installment_count"`
	ClosingDay       int     `json:"closing_day"`
	DueDay           int     `json:"due_day"`
}

// RecurringDTO represents a recurring transaction.
type RecurringDTO struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Pattern       string  `json:"pattern"`
	RecurrenceDay int     `json:"recurrence_day,omitempty"`
	NextDate      string  `json:"next_date"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// CreateRecurringRequest is the request to create a recurring transaction.
type CreateRecurringRequest struct {
	ID            string  `json:"id,omitempty"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Pattern       string  `json:"pattern"`
	RecurrenceDay *int    `json:"recurrence_day,omitempty"`
	NextDate      string  `json:"next_date"`
}

// NextDateRequest is the stateless recurrence-calculator request.
type NextDateRequest struct {
	CurrentDate   string `json:"current_date"`
	Pattern       string `json:"pattern"`
	RecurrenceDay *int   `json:"recurrence_day,omitempty"`
}

// NextDateResponse carries the advanced date.
type NextDateResponse struct {
	NextDate string `json:"next_date"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toCardDTO(c cards.Card) CardDTO {
	limit, _ := c.Limit.Float64()
	return CardDTO{
		ID:         c.ID,
		Name:       c.Name,
		ClosingDay: c.ClosingDay,
		DueDay:     c.DueDay,
		Limit:      limit,
		CreatedAt:  formatTime(c.CreatedAt),
	}
}

func toStatementDTO(stmt billing.Statement) StatementDTO {
	return StatementDTO{
		StatementMonth: stmt.Month,
		StatementYear:  stmt.Year,
		DueDate:        stmt.DueDate.String(),
	}
}

func toInstallmentDTOs(plan []billing.Installment) []InstallmentDTO {
	dtos := make([]InstallmentDTO, len(plan))
	for i, inst := range plan {
		amount, _ := inst.Amount.Float64()
		dtos[i] = InstallmentDTO{
			Index:          inst.Index,
			Amount:         amount,
			StatementMonth: inst.StatementMonth,
			StatementYear:  inst.StatementYear,
			DueDate:        inst.DueDate.String(),
			InstallmentID:  inst.ID,
		}
	}
	return dtos
}

func toPurchaseDTO(p cards.Purchase, plan []billing.Installment) PurchaseDTO {
	amount, _ := p.Amount.Float64()
	return PurchaseDTO{
		ID:           p.ID,
		CardID:       p.CardID,
		Description:  p.Description,
		Date:         p.Date.String(),
		Amount:       amount,
		Installments: p.Installments,
		Plan:         toInstallmentDTOs(plan),
		CreatedAt:    formatTime(p.CreatedAt),
	}
}

func toRecurringDTO(r cards.RecurringTransaction) RecurringDTO {
	amount, _ := r.Amount.Float64()
	return RecurringDTO{
		ID:            r.ID,
		Description:   r.Description,
		Amount:        amount,
		Pattern:       string(r.Pattern),
		RecurrenceDay: r.RecurrenceDay,
		NextDate:      r.NextDate.String(),
		CreatedAt:     formatTime(r.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
