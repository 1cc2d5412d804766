package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
)

var _ repository.CustomerDebtRepository = (*CustomerDebtRepo)(nil)

// CustomerDebtRepo implementación de CustomerDebtRepository sobre PostgreSQL.
type CustomerDebtRepo struct {
	q Querier
}

// NewCustomerDebtRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerDebtRepository(q Querier) *CustomerDebtRepo {
	return &CustomerDebtRepo{q: q}
}

const customerDebtColumns = `
	id, pharmacy_id, customer_id, invoice_id, amount, paid_amount,
	remaining_amount, status, due_date, created_at, updated_at`

func scanCustomerDebt(row pgx.Row) (*entity.CustomerDebt, error) {
	var d entity.CustomerDebt
	err := row.Scan(
		&d.ID, &d.PharmacyID, &d.CustomerID, &d.InvoiceID, &d.Amount, &d.PaidAmount,
		&d.RemainingAmount, &d.Status, &d.DueDate, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserta una deuda.
func (r *CustomerDebtRepo) Create(debt *entity.CustomerDebt) error {
	query := `
		INSERT INTO customer_debts (
			id, pharmacy_id, customer_id, invoice_id, amount, paid_amount,
			remaining_amount, status, due_date, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.q.Exec(context.Background(), query,
		debt.ID, debt.PharmacyID, debt.CustomerID, debt.InvoiceID, debt.Amount, debt.PaidAmount,
		debt.RemainingAmount, debt.Status, debt.DueDate, debt.CreatedAt, debt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create customer debt: %w", err)
	}
	return nil
}

// Update persiste montos y estado de la deuda.
func (r *CustomerDebtRepo) Update(debt *entity.CustomerDebt) error {
	query := `
		UPDATE customer_debts
		SET paid_amount = $2, remaining_amount = $3, status = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		debt.ID, debt.PaidAmount, debt.RemainingAmount, debt.Status,
	)
	if err != nil {
		return fmt.Errorf("update customer debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update customer debt %s: fila no encontrada", debt.ID)
	}
	return nil
}

// GetByID obtiene una deuda por id. Retorna nil si no existe.
func (r *CustomerDebtRepo) GetByID(id string) (*entity.CustomerDebt, error) {
	query := `SELECT` + customerDebtColumns + ` FROM customer_debts WHERE id = $1`
	d, err := scanCustomerDebt(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer debt: %w", err)
	}
	return d, nil
}

// GetByIDForUpdate obtiene una deuda y bloquea la fila para el abono.
func (r *CustomerDebtRepo) GetByIDForUpdate(id string) (*entity.CustomerDebt, error) {
	query := `SELECT` + customerDebtColumns + ` FROM customer_debts WHERE id = $1 FOR UPDATE`
	d, err := scanCustomerDebt(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer debt for update: %w", err)
	}
	return d, nil
}

// ListActiveByCustomerForUpdate devuelve las deudas ACTIVE del cliente de la
// más reciente a la más antigua, con las filas bloqueadas (la reducción ataca
// primero la deuda activa más reciente).
func (r *CustomerDebtRepo) ListActiveByCustomerForUpdate(customerID string) ([]*entity.CustomerDebt, error) {
	query := `SELECT` + customerDebtColumns + `
		FROM customer_debts
		WHERE customer_id = $1 AND status = 'ACTIVE'
		ORDER BY created_at DESC
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list active debts for update: %w", err)
	}
	defer rows.Close()
	return collectDebts(rows)
}

// GetActiveByInvoice devuelve la deuda activa nacida de una factura, o nil.
func (r *CustomerDebtRepo) GetActiveByInvoice(invoiceID string) (*entity.CustomerDebt, error) {
	query := `SELECT` + customerDebtColumns + `
		FROM customer_debts
		WHERE invoice_id = $1 AND status = 'ACTIVE'
		FOR UPDATE`
	d, err := scanCustomerDebt(r.q.QueryRow(context.Background(), query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active debt by invoice: %w", err)
	}
	return d, nil
}

// ListByCustomer lista todas las deudas del cliente (activas y pagadas) con
// paginación, de la más reciente a la más antigua.
func (r *CustomerDebtRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.CustomerDebt, error) {
	query := `SELECT` + customerDebtColumns + `
		FROM customer_debts
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customer debts: %w", err)
	}
	defer rows.Close()
	return collectDebts(rows)
}

// SumActiveByCustomer devuelve la suma de RemainingAmount de las deudas
// activas del cliente.
func (r *CustomerDebtRepo) SumActiveByCustomer(customerID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(remaining_amount), 0)
		FROM customer_debts
		WHERE customer_id = $1 AND status = 'ACTIVE'`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, customerID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum active debts: %w", err)
	}
	return sum, nil
}

func collectDebts(rows pgx.Rows) ([]*entity.CustomerDebt, error) {
	var debts []*entity.CustomerDebt
	for rows.Next() {
		var d entity.CustomerDebt
		if err := rows.Scan(
			&d.ID, &d.PharmacyID, &d.CustomerID, &d.InvoiceID, &d.Amount, &d.PaidAmount,
			&d.RemainingAmount, &d.Status, &d.DueDate, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer debt: %w", err)
		}
		debts = append(debts, &d)
	}
	return debts, rows.Err()
}
