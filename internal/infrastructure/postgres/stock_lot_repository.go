package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo implementación de StockLotRepository sobre PostgreSQL (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

const stockLotColumns = `
	id, pharmacy_id, product_id, product_type, quantity, bonus_qty,
	number_of_parts_per_box, remaining_parts, expiry_date,
	actual_purchase_price, created_at, updated_at`

func scanStockLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	err := row.Scan(
		&l.ID, &l.PharmacyID, &l.ProductID, &l.ProductType, &l.Quantity, &l.BonusQty,
		&l.NumberOfPartsPerBox, &l.RemainingParts, &l.ExpiryDate,
		&l.ActualPurchasePrice, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByID obtiene un lote por su id. Retorna nil si no existe.
func (r *StockLotRepo) GetByID(id string) (*entity.StockLot, error) {
	query := `SELECT` + stockLotColumns + ` FROM stock_lots WHERE id = $1`
	lot, err := scanStockLot(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot: %w", err)
	}
	return lot, nil
}

// GetForUpdate obtiene un lote y bloquea la fila (SELECT FOR UPDATE): dos
// ventas concurrentes sobre el mismo lote se serializan aquí.
func (r *StockLotRepo) GetForUpdate(id string) (*entity.StockLot, error) {
	query := `SELECT` + stockLotColumns + ` FROM stock_lots WHERE id = $1 FOR UPDATE`
	lot, err := scanStockLot(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot for update: %w", err)
	}
	return lot, nil
}

// Update persiste cantidad y partes restantes del lote.
func (r *StockLotRepo) Update(lot *entity.StockLot) error {
	query := `
		UPDATE stock_lots
		SET quantity = $2, remaining_parts = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, lot.ID, lot.Quantity, lot.RemainingParts)
	if err != nil {
		return fmt.Errorf("update stock lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock lot %s: fila no encontrada", lot.ID)
	}
	return nil
}
