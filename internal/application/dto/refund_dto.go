package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessRefundRequest body para POST /api/sales/:id/refunds. Las cantidades
// son cajas (las devoluciones no operan a nivel de partes).
type ProcessRefundRequest struct {
	Items []RefundItemRequest `json:"items" validate:"required,min=1"`
}

// RefundItemRequest línea de devolución sobre un ítem de factura.
type RefundItemRequest struct {
	InvoiceItemID string `json:"invoice_item_id" validate:"required"`
	Quantity      int64  `json:"quantity" validate:"required,min=1"`
}

// RefundResponse resultado de la devolución: cuánto se aplicó a deuda, cuánto
// salió por caja y la deuda total restante del cliente (lectura, no mutación).
type RefundResponse struct {
	ID                    string          `json:"id"`
	InvoiceID             string          `json:"invoice_id"`
	RefundStatus          string          `json:"refund_status"`
	TotalRefundAmount     decimal.Decimal `json:"total_refund_amount"`
	DebtReduction         decimal.Decimal `json:"debt_reduction"`
	CashPayout            decimal.Decimal `json:"cash_payout"`
	InvoiceRefundStatus   string          `json:"invoice_refund_status"`
	InvoicePaymentStatus  string          `json:"invoice_payment_status"`
	CustomerRemainingDebt decimal.Decimal `json:"customer_remaining_debt"`
	StockRestored         bool            `json:"stock_restored"`
	CreatedAt             time.Time       `json:"created_at"`
	Warnings              []Warning       `json:"warnings,omitempty"`
}
