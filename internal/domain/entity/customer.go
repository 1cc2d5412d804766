package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la farmacia. IsCashCustomer marca el
// cliente centinela de mostrador (ventas sin cliente nombrado): exento de
// creación de deuda y único por farmacia.
type Customer struct {
	ID             string
	PharmacyID     string
	Name           string
	Phone          string
	IsCashCustomer bool
	DebtLimit      *decimal.Decimal // nil = sin límite de compra a crédito
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
