package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
)

var _ repository.PharmacyRepository = (*PharmacyRepo)(nil)

// PharmacyRepo implementación de PharmacyRepository sobre PostgreSQL.
type PharmacyRepo struct {
	q Querier
}

// NewPharmacyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPharmacyRepository(q Querier) *PharmacyRepo {
	return &PharmacyRepo{q: q}
}

// Create inserta una farmacia.
func (r *PharmacyRepo) Create(pharmacy *entity.Pharmacy) error {
	query := `
		INSERT INTO pharmacies (id, name, address, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.q.Exec(context.Background(), query,
		pharmacy.ID, pharmacy.Name, pharmacy.Address, pharmacy.Phone,
		pharmacy.CreatedAt, pharmacy.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create pharmacy: %w", err)
	}
	return nil
}

// GetByID obtiene una farmacia por id. Retorna nil si no existe.
func (r *PharmacyRepo) GetByID(id string) (*entity.Pharmacy, error) {
	query := `
		SELECT id, name, address, phone, created_at, updated_at
		FROM pharmacies WHERE id = $1`
	var p entity.Pharmacy
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Address, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pharmacy: %w", err)
	}
	return &p, nil
}
