package repository

import "github.com/tu-usuario/pharma-pos/internal/domain/entity"

// PharmacyRepository define el puerto de persistencia para farmacias.
type PharmacyRepository interface {
	Create(pharmacy *entity.Pharmacy) error
	GetByID(id string) (*entity.Pharmacy, error)
}
