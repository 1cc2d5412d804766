package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `
	id, pharmacy_id, name, phone, is_cash_customer, debt_limit, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.PharmacyID, &c.Name, &c.Phone, &c.IsCashCustomer, &c.DebtLimit,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta un cliente.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, pharmacy_id, name, phone, is_cash_customer, debt_limit, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.PharmacyID, customer.Name, customer.Phone,
		customer.IsCashCustomer, customer.DebtLimit, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por id. Retorna nil si no existe.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// ListByPharmacy lista clientes de la farmacia con paginación.
func (r *CustomerRepo) ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT` + customerColumns + `
		FROM customers
		WHERE pharmacy_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, pharmacyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(
			&c.ID, &c.PharmacyID, &c.Name, &c.Phone, &c.IsCashCustomer, &c.DebtLimit,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

// GetOrCreateCashCustomer devuelve el cliente centinela de mostrador de la
// farmacia, creándolo si no existe. El índice único parcial sobre
// (pharmacy_id) WHERE is_cash_customer hace idempotente la creación bajo
// primeras ventas concurrentes: ON CONFLICT DO NOTHING y relectura.
func (r *CustomerRepo) GetOrCreateCashCustomer(pharmacyID string) (*entity.Customer, error) {
	get := `SELECT` + customerColumns + `
		FROM customers WHERE pharmacy_id = $1 AND is_cash_customer`
	c, err := scanCustomer(r.q.QueryRow(context.Background(), get, pharmacyID))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get cash customer: %w", err)
	}

	insert := `
		INSERT INTO customers (id, pharmacy_id, name, phone, is_cash_customer, created_at, updated_at)
		VALUES ($1, $2, 'Cliente de mostrador', '', TRUE, now(), now())
		ON CONFLICT DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, uuid.New().String(), pharmacyID); err != nil {
		return nil, fmt.Errorf("create cash customer: %w", err)
	}
	c, err = scanCustomer(r.q.QueryRow(context.Background(), get, pharmacyID))
	if err != nil {
		return nil, fmt.Errorf("get cash customer tras insert: %w", err)
	}
	return c, nil
}
