package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja.
const (
	CashTxSalePayment = "SALE_PAYMENT"
	CashTxRefund      = "REFUND"
	CashTxDebtPayment = "DEBT_PAYMENT"
)

// CashTransaction es un registro del libro de caja. La caja es un espejo
// best-effort de las facturas: la fuente de verdad financiera es el estado
// factura/deuda/stock.
type CashTransaction struct {
	ID         string
	PharmacyID string
	InvoiceID  string
	Type       string
	Amount     decimal.Decimal
	Currency   string
	CreatedAt  time.Time
}
