package repository

import "github.com/tu-usuario/pharma-pos/internal/domain/entity"

// StockLotRepository define el puerto de persistencia para lotes de stock.
// Usado dentro de transacciones para garantizar consistencia.
type StockLotRepository interface {
	GetByID(id string) (*entity.StockLot, error)
	// GetForUpdate bloquea la fila del lote para update (SELECT FOR UPDATE);
	// dos ventas concurrentes sobre el mismo lote se serializan aquí.
	GetForUpdate(id string) (*entity.StockLot, error)
	Update(lot *entity.StockLot) error
}
