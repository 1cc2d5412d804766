package sale_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/sale"
)

func TestDiscount(t *testing.T) {
	amount := decimal.NewFromInt(200)

	t.Run("porcentaje", func(t *testing.T) {
		d, err := sale.Discount(amount, sale.DiscountPercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.NewFromInt(20)), "10%% de 200 = 20, fue %s", d)
	})

	t.Run("fijo", func(t *testing.T) {
		d, err := sale.Discount(amount, sale.DiscountFixed, decimal.NewFromInt(30))
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.NewFromInt(30)))
	})

	t.Run("sin tipo o valor cero no descuenta", func(t *testing.T) {
		d, err := sale.Discount(amount, "", decimal.NewFromInt(50))
		require.NoError(t, err)
		assert.True(t, d.IsZero())

		d, err = sale.Discount(amount, sale.DiscountFixed, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, d.IsZero())
	})

	t.Run("se acota al monto original", func(t *testing.T) {
		d, err := sale.Discount(amount, sale.DiscountFixed, decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.True(t, d.Equal(amount))

		d, err = sale.Discount(amount, sale.DiscountPercentage, decimal.NewFromInt(150))
		require.NoError(t, err)
		assert.True(t, d.Equal(amount))
	})

	t.Run("valor negativo es conflicto", func(t *testing.T) {
		_, err := sale.Discount(amount, sale.DiscountFixed, decimal.NewFromInt(-5))
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("tipo desconocido es inválido", func(t *testing.T) {
		_, err := sale.Discount(amount, "BOGO", decimal.NewFromInt(5))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
