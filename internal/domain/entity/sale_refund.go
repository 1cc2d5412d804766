package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRefund representa un lote de devolución sobre una factura. Un lote nunca
// queda FULLY_REFUNDED: ese estado vive en la factura.
type SaleRefund struct {
	ID            string
	InvoiceID     string
	PharmacyID    string
	RefundStatus  string // NO_REFUND o PARTIALLY_REFUNDED
	TotalAmount   decimal.Decimal
	StockRestored bool
	CreatedAt     time.Time
}

// SaleRefundItem referencia una línea de factura con la cantidad de cajas
// devueltas en este lote.
type SaleRefundItem struct {
	ID            string
	RefundID      string
	InvoiceItemID string
	Quantity      int64
	SubTotal      decimal.Decimal
}
