package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayDebtRequest body para POST /api/debts/:id/payments (abono directo).
type PayDebtRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Currency string          `json:"currency,omitempty"`
}

// DebtResponse deuda de cliente en respuestas.
type DebtResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	InvoiceID       string          `json:"invoice_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Warnings        []Warning       `json:"warnings,omitempty"`
}
