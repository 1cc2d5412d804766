// Package currency normaliza montos entre la moneda base y la moneda de la
// transacción. Todos los campos monetarios persistidos van en moneda base; lo
// que entra se normaliza antes de operar y solo se convierte de vuelta para
// mostrar.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/domain"
)

// RateProvider entrega la tasa de cambio de una moneda hacia la base
// (unidades de base por unidad de la moneda dada).
type RateProvider interface {
	RateToBase(currency string) (decimal.Decimal, error)
}

// Normalizer convierte montos entre la base y otras monedas vía RateProvider.
type Normalizer struct {
	base  string
	rates RateProvider
}

// NewNormalizer construye el normalizador. base es el código de la moneda
// base (ej: SYP).
func NewNormalizer(base string, rates RateProvider) *Normalizer {
	return &Normalizer{base: strings.ToUpper(base), rates: rates}
}

// Base devuelve el código de la moneda base.
func (n *Normalizer) Base() string { return n.base }

// ToBase convierte un monto desde la moneda dada a la base. Identidad si la
// moneda es la base o viene vacía.
func (n *Normalizer) ToBase(amount decimal.Decimal, fromCurrency string) (decimal.Decimal, error) {
	cur := strings.ToUpper(fromCurrency)
	if cur == "" || cur == n.base {
		return amount, nil
	}
	rate, err := n.rates.RateToBase(cur)
	if err != nil {
		return decimal.Zero, fmt.Errorf("tasa de cambio %s: %w", cur, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: tasa de cambio inválida para %s", domain.ErrConflict, cur)
	}
	return amount.Mul(rate), nil
}

// FromBase convierte un monto en base hacia la moneda dada (solo para
// visualización).
func (n *Normalizer) FromBase(amount decimal.Decimal, toCurrency string) (decimal.Decimal, error) {
	cur := strings.ToUpper(toCurrency)
	if cur == "" || cur == n.base {
		return amount, nil
	}
	rate, err := n.rates.RateToBase(cur)
	if err != nil {
		return decimal.Zero, fmt.Errorf("tasa de cambio %s: %w", cur, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: tasa de cambio inválida para %s", domain.ErrConflict, cur)
	}
	return amount.Div(rate), nil
}
