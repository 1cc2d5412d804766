package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate guarda cuántas unidades de moneda base vale una unidad de la
// moneda dada (ej: USD -> 13000 SYP).
type ExchangeRate struct {
	Currency   string
	RateToBase decimal.Decimal
	UpdatedAt  time.Time
}
