package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/application/currency"
	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
)

var _ currency.RateProvider = (*ExchangeRateProvider)(nil)

// ExchangeRateProvider lee las tasas de cambio desde PostgreSQL.
type ExchangeRateProvider struct {
	q Querier
}

// NewExchangeRateProvider construye el proveedor. Pasar pool o tx (Querier).
func NewExchangeRateProvider(q Querier) *ExchangeRateProvider {
	return &ExchangeRateProvider{q: q}
}

// RateToBase devuelve cuántas unidades de moneda base vale una unidad de la
// moneda dada. Moneda sin tasa cargada retorna ErrNotFound.
func (p *ExchangeRateProvider) RateToBase(cur string) (decimal.Decimal, error) {
	query := `SELECT rate_to_base FROM exchange_rates WHERE currency = $1`
	var rate decimal.Decimal
	if err := p.q.QueryRow(context.Background(), query, cur).Scan(&rate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("tasa de cambio para %s: %w", cur, domain.ErrNotFound)
		}
		return decimal.Zero, fmt.Errorf("get exchange rate: %w", err)
	}
	return rate, nil
}

// Upsert inserta o actualiza la tasa de una moneda.
func (p *ExchangeRateProvider) Upsert(rate *entity.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (currency, rate_to_base, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (currency)
		DO UPDATE SET rate_to_base = EXCLUDED.rate_to_base, updated_at = now()`
	_, err := p.q.Exec(context.Background(), query, rate.Currency, rate.RateToBase)
	if err != nil {
		return fmt.Errorf("upsert exchange rate: %w", err)
	}
	return nil
}
