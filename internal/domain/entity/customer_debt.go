package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de deuda de cliente.
const (
	DebtStatusActive = "ACTIVE"
	DebtStatusPaid   = "PAID"
)

// CustomerDebt representa una deuda de cliente creada por una venta a crédito.
// Invariante: RemainingAmount = Amount - PaidAmount, monótonamente no
// creciente; pasa a PAID exactamente cuando RemainingAmount llega a 0. Nunca
// se incrementa después de creada.
type CustomerDebt struct {
	ID              string
	PharmacyID      string
	CustomerID      string
	InvoiceID       string // vacío si la deuda no nació de una factura
	Amount          decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	Status          string
	DueDate         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
