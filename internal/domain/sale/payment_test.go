package sale_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/sale"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestValidatePaymentConfig(t *testing.T) {
	t.Run("CASH acepta métodos de cobro inmediato", func(t *testing.T) {
		for _, m := range []string{entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodBankTransfer} {
			assert.NoError(t, sale.ValidatePaymentConfig(entity.PaymentTypeCash, m), m)
		}
	})

	t.Run("CASH rechaza ON_ACCOUNT", func(t *testing.T) {
		err := sale.ValidatePaymentConfig(entity.PaymentTypeCash, entity.PaymentMethodOnAccount)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("CREDIT acepta todos los métodos", func(t *testing.T) {
		for _, m := range []string{entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodBankTransfer, entity.PaymentMethodOnAccount} {
			assert.NoError(t, sale.ValidatePaymentConfig(entity.PaymentTypeCredit, m), m)
		}
	})

	t.Run("tipo o método desconocido es conflicto", func(t *testing.T) {
		assert.ErrorIs(t, sale.ValidatePaymentConfig("LAYAWAY", entity.PaymentMethodCash), domain.ErrConflict)
		assert.ErrorIs(t, sale.ValidatePaymentConfig(entity.PaymentTypeCredit, "CRYPTO"), domain.ErrConflict)
	})
}

func TestSettleAmounts(t *testing.T) {
	total := dec(100)

	t.Run("CASH sin pagado asume el total y salda en cero", func(t *testing.T) {
		paid, remaining, err := sale.SettleAmounts(entity.PaymentTypeCash, total, nil)
		require.NoError(t, err)
		assert.True(t, paid.Equal(total))
		assert.True(t, remaining.IsZero())
	})

	t.Run("CASH con pagado menor al total es conflicto", func(t *testing.T) {
		p := dec(80)
		_, _, err := sale.SettleAmounts(entity.PaymentTypeCash, total, &p)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("CASH con pagado mayor al total fuerza restante cero", func(t *testing.T) {
		p := dec(150)
		paid, remaining, err := sale.SettleAmounts(entity.PaymentTypeCash, total, &p)
		require.NoError(t, err)
		assert.True(t, paid.Equal(p))
		assert.True(t, remaining.IsZero())
	})

	t.Run("CREDIT sin abono queda todo pendiente", func(t *testing.T) {
		paid, remaining, err := sale.SettleAmounts(entity.PaymentTypeCredit, total, nil)
		require.NoError(t, err)
		assert.True(t, paid.IsZero())
		assert.True(t, remaining.Equal(total))
	})

	t.Run("CREDIT con abono parcial", func(t *testing.T) {
		p := dec(40)
		paid, remaining, err := sale.SettleAmounts(entity.PaymentTypeCredit, total, &p)
		require.NoError(t, err)
		assert.True(t, paid.Equal(p))
		assert.True(t, remaining.Equal(dec(60)))
	})

	t.Run("CREDIT con sobrepago no deja restante negativo", func(t *testing.T) {
		p := dec(120)
		_, remaining, err := sale.SettleAmounts(entity.PaymentTypeCredit, total, &p)
		require.NoError(t, err)
		assert.True(t, remaining.IsZero())
	})

	t.Run("pagado negativo es conflicto", func(t *testing.T) {
		p := dec(-1)
		_, _, err := sale.SettleAmounts(entity.PaymentTypeCredit, total, &p)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
