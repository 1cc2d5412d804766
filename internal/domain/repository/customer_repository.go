package repository

import "github.com/tu-usuario/pharma-pos/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.Customer, error)
	// GetOrCreateCashCustomer devuelve el cliente centinela de mostrador de la
	// farmacia, creándolo de forma idempotente si no existe (constraint único
	// en storage contra duplicados bajo primeras ventas concurrentes).
	GetOrCreateCashCustomer(pharmacyID string) (*entity.Customer, error)
}
