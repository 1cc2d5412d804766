package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales. Los montos vienen en Currency
// (vacío = moneda base) y se normalizan a base antes de operar o persistir.
type CreateSaleRequest struct {
	CustomerID    string             `json:"customer_id,omitempty"` // vacío = cliente de mostrador (solo CASH)
	PaymentType   string             `json:"payment_type" validate:"required,oneof=CASH CREDIT"`
	PaymentMethod string             `json:"payment_method" validate:"required"`
	Currency      string             `json:"currency,omitempty"`
	PaidAmount    *decimal.Decimal   `json:"paid_amount,omitempty"` // CASH sin especificar = total
	DiscountType  string             `json:"discount_type,omitempty" validate:"omitempty,oneof=PERCENTAGE FIXED"`
	DiscountValue decimal.Decimal    `json:"discount_value,omitempty"`
	DueDate       *time.Time         `json:"due_date,omitempty"` // vencimiento de la deuda en ventas CREDIT
	Items         []SaleItemRequest  `json:"items" validate:"required,min=1"`
}

// SaleItemRequest línea de venta. Quantity son cajas enteras; Parts > 0 vende
// partes sueltas de un lote divisible (y Quantity se ignora para esa línea).
// UnitPrice nil = precio de venta del catálogo (en moneda base).
type SaleItemRequest struct {
	StockLotID string           `json:"stock_lot_id" validate:"required"`
	Quantity   int64            `json:"quantity,omitempty"`
	Parts      int64            `json:"parts,omitempty"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
}

// SaleResponse factura creada/consultada. Montos en moneda base; si la venta
// entró en otra moneda, TotalInCurrency lleva el total convertido de vuelta.
type SaleResponse struct {
	ID              string             `json:"id"`
	PharmacyID      string             `json:"pharmacy_id"`
	CustomerID      string             `json:"customer_id"`
	Status          string             `json:"status"`
	PaymentStatus   string             `json:"payment_status"`
	RefundStatus    string             `json:"refund_status"`
	PaymentType     string             `json:"payment_type"`
	PaymentMethod   string             `json:"payment_method"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	PaidAmount      decimal.Decimal    `json:"paid_amount"`
	RemainingAmount decimal.Decimal    `json:"remaining_amount"`
	Currency        string             `json:"currency"`
	TotalInCurrency *decimal.Decimal   `json:"total_in_currency,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	Items           []SaleItemResponse `json:"items"`
	Warnings        []Warning          `json:"warnings,omitempty"`
}

// SaleItemResponse línea de factura en la respuesta.
type SaleItemResponse struct {
	ID               string          `json:"id"`
	StockLotID       string          `json:"stock_lot_id"`
	ProductID        string          `json:"product_id"`
	ProductType      string          `json:"product_type"`
	Quantity         int64           `json:"quantity"`
	PartsSold        int64           `json:"parts_sold,omitempty"`
	RefundedQuantity int64           `json:"refunded_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	SubTotal         decimal.Decimal `json:"sub_total"`
}
