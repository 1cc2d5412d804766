package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pharma-pos/internal/application/currency"
	"github.com/tu-usuario/pharma-pos/internal/domain"
)

// fakeRates tabla en memoria de tasas hacia la base.
type fakeRates map[string]decimal.Decimal

func (f fakeRates) RateToBase(cur string) (decimal.Decimal, error) {
	r, ok := f[cur]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	return r, nil
}

func TestNormalizer(t *testing.T) {
	rates := fakeRates{
		"USD": decimal.NewFromInt(13000),
		"BAD": decimal.Zero,
	}
	n := currency.NewNormalizer("syp", rates)

	t.Run("la base se normaliza a mayúsculas", func(t *testing.T) {
		assert.Equal(t, "SYP", n.Base())
	})

	t.Run("identidad sobre la base o moneda vacía", func(t *testing.T) {
		amount := decimal.NewFromInt(500)
		got, err := n.ToBase(amount, "SYP")
		require.NoError(t, err)
		assert.True(t, got.Equal(amount))

		got, err = n.ToBase(amount, "")
		require.NoError(t, err)
		assert.True(t, got.Equal(amount))
	})

	t.Run("ToBase multiplica por la tasa", func(t *testing.T) {
		got, err := n.ToBase(decimal.NewFromInt(2), "usd")
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(26000)), "fue %s", got)
	})

	t.Run("FromBase divide por la tasa", func(t *testing.T) {
		got, err := n.FromBase(decimal.NewFromInt(26000), "USD")
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(2)), "fue %s", got)
	})

	t.Run("moneda sin tasa falla", func(t *testing.T) {
		_, err := n.ToBase(decimal.NewFromInt(1), "EUR")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("tasa no positiva es conflicto", func(t *testing.T) {
		_, err := n.ToBase(decimal.NewFromInt(1), "BAD")
		assert.ErrorIs(t, err, domain.ErrConflict)
		_, err = n.FromBase(decimal.NewFromInt(1), "BAD")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
