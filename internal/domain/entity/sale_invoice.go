package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura de venta.
const (
	// InvoiceStatusSold es el único estado de factura: la anulación es un
	// borrado físico, no una transición de estado.
	InvoiceStatusSold = "SOLD"

	PaymentStatusUnpaid        = "UNPAID"
	PaymentStatusPartiallyPaid = "PARTIALLY_PAID"
	PaymentStatusFullyPaid     = "FULLY_PAID"

	RefundStatusNone      = "NO_REFUND"
	RefundStatusPartially = "PARTIALLY_REFUNDED"
	RefundStatusFully     = "FULLY_REFUNDED"

	PaymentTypeCash   = "CASH"
	PaymentTypeCredit = "CREDIT"
)

// Métodos de pago. ON_ACCOUNT marca una venta a crédito sin abono inicial;
// los demás describen cómo se recibió el monto pagado.
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodCard         = "CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodOnAccount    = "ON_ACCOUNT"
)

// SaleInvoice representa la cabecera de una factura de venta. Todos los montos
// se guardan en la moneda base. Invariante: RemainingAmount = max(0,
// TotalAmount - PaidAmount); para facturas CASH RemainingAmount es 0 al crear.
type SaleInvoice struct {
	ID              string
	PharmacyID      string
	CustomerID      string
	Status          string
	PaymentStatus   string
	RefundStatus    string
	PaymentType     string
	PaymentMethod   string
	TotalAmount     decimal.Decimal // total tras descuento
	DiscountAmount  decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	Currency        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SaleInvoiceItem representa una línea de la factura. Quantity son las cajas
// realmente descontadas del lote: en una venta por partes es el número de
// cajas consumidas (0 o 1), no el número de partes vendidas.
type SaleInvoiceItem struct {
	ID               string
	InvoiceID        string
	StockLotID       string
	ProductID        string
	ProductType      string
	Quantity         int64
	PartsSold        int64 // informativo; las devoluciones operan por cajas
	RefundedQuantity int64 // 0 <= RefundedQuantity <= Quantity
	UnitPrice        decimal.Decimal
	SubTotal         decimal.Decimal
}
