package sale

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
)

// ValidatePaymentConfig verifica la compatibilidad tipo de pago / método de
// pago. Una venta CASH no puede quedar "a cuenta"; una venta CREDIT acepta
// cualquier método (describe cómo se recibió el abono inicial).
func ValidatePaymentConfig(paymentType, paymentMethod string) error {
	switch paymentType {
	case entity.PaymentTypeCash:
		switch paymentMethod {
		case entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodBankTransfer:
			return nil
		}
		return fmt.Errorf("%w: método %q incompatible con venta CASH", domain.ErrConflict, paymentMethod)
	case entity.PaymentTypeCredit:
		switch paymentMethod {
		case entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodBankTransfer, entity.PaymentMethodOnAccount:
			return nil
		}
		return fmt.Errorf("%w: método de pago %q desconocido", domain.ErrConflict, paymentMethod)
	}
	return fmt.Errorf("%w: tipo de pago %q desconocido", domain.ErrConflict, paymentType)
}

// SettleAmounts resuelve monto pagado y saldo restante de una venta.
//
// CASH: si paid es nil se asume el total; exige paid >= total y fuerza el
// restante a exactamente 0. CREDIT: acepta cualquier pagado no negativo; el
// restante es max(0, total - pagado).
func SettleAmounts(paymentType string, total decimal.Decimal, paid *decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	var p decimal.Decimal
	if paid != nil {
		p = *paid
	} else if paymentType == entity.PaymentTypeCash {
		p = total
	}
	if p.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: monto pagado negativo", domain.ErrConflict)
	}
	switch paymentType {
	case entity.PaymentTypeCash:
		if p.LessThan(total) {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: pago en efectivo %s menor al total %s",
				domain.ErrConflict, p.StringFixed(2), total.StringFixed(2))
		}
		return p, decimal.Zero, nil
	case entity.PaymentTypeCredit:
		remaining := total.Sub(p)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		return p, remaining, nil
	}
	return decimal.Zero, decimal.Zero, fmt.Errorf("%w: tipo de pago %q desconocido", domain.ErrConflict, paymentType)
}
