package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto: dos catálogos comparten el subsistema de ventas y se
// distinguen solo por este tag.
const (
	ProductTypeMedicine = "MEDICINE"
	ProductTypeSupply   = "SUPPLY"
)

// StockLot representa un lote comprado de un producto: cantidad en cajas,
// bonificación, vencimiento y precio real de compra (en moneda base).
//
// Cuando NumberOfPartsPerBox > 1 el producto puede venderse por unidades
// sueltas (ej: tabletas de un blíster); RemainingParts lleva las unidades que
// quedan en la caja actualmente abierta. RemainingParts nil con cajas en stock
// significa caja sin abrir (se trata como llena).
type StockLot struct {
	ID                  string
	PharmacyID          string
	ProductID           string
	ProductType         string
	Quantity            int64 // cajas enteras en stock, siempre >= 0
	BonusQty            int64
	NumberOfPartsPerBox *int64 // nil o 1 = no divisible
	RemainingParts      *int64 // solo significativo si NumberOfPartsPerBox > 1
	ExpiryDate          time.Time
	ActualPurchasePrice decimal.Decimal
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Divisible indica si el lote se puede vender por partes.
func (l *StockLot) Divisible() bool {
	return l.NumberOfPartsPerBox != nil && *l.NumberOfPartsPerBox > 1
}

// Expired indica si el lote está vencido respecto a la fecha dada.
func (l *StockLot) Expired(today time.Time) bool {
	return l.ExpiryDate.Before(today)
}
