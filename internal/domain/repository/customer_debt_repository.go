package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
)

// CustomerDebtRepository define el puerto de persistencia para deudas de
// cliente.
type CustomerDebtRepository interface {
	Create(debt *entity.CustomerDebt) error
	Update(debt *entity.CustomerDebt) error
	GetByID(id string) (*entity.CustomerDebt, error)
	GetByIDForUpdate(id string) (*entity.CustomerDebt, error)
	// ListActiveByCustomerForUpdate devuelve las deudas ACTIVE del cliente
	// ordenadas de la más reciente a la más antigua, con las filas bloqueadas
	// (la reducción siempre ataca primero la deuda activa más reciente).
	ListActiveByCustomerForUpdate(customerID string) ([]*entity.CustomerDebt, error)
	// GetActiveByInvoice devuelve la deuda activa nacida de una factura, o nil.
	GetActiveByInvoice(invoiceID string) (*entity.CustomerDebt, error)
	ListByCustomer(customerID string, limit, offset int) ([]*entity.CustomerDebt, error)
	SumActiveByCustomer(customerID string) (decimal.Decimal, error)
}
