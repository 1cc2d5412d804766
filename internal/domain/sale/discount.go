package sale

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/domain"
)

// Tipos de descuento a nivel de factura.
const (
	DiscountPercentage = "PERCENTAGE"
	DiscountFixed      = "FIXED"
)

var hundred = decimal.NewFromInt(100)

// Discount calcula el monto de descuento para el tipo y valor dados, acotado
// al monto original. Tipo vacío o valor cero significa sin descuento.
func Discount(amount decimal.Decimal, discountType string, value decimal.Decimal) (decimal.Decimal, error) {
	if discountType == "" || value.IsZero() {
		return decimal.Zero, nil
	}
	if value.IsNegative() {
		return decimal.Zero, domain.ErrConflict
	}
	var d decimal.Decimal
	switch discountType {
	case DiscountPercentage:
		d = amount.Mul(value).Div(hundred)
	case DiscountFixed:
		d = value
	default:
		return decimal.Zero, domain.ErrInvalidInput
	}
	if d.GreaterThan(amount) {
		return amount, nil
	}
	return d, nil
}
