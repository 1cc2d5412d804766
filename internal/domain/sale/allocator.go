// Package sale contiene los servicios de dominio puros del motor de ventas:
// asignación de stock (cajas y partes), descuentos, validación de pagos y
// derivación de estados de factura. Sin dependencias de infraestructura.
package sale

import (
	"fmt"

	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
)

// Deduction resume el resultado de un descuento de stock: cajas realmente
// consumidas (lo que se registra en la línea de factura) y partes vendidas.
type Deduction struct {
	BoxesConsumed int64
	PartsSold     int64
}

// AvailableParts calcula las partes vendibles de un lote divisible: las que
// quedan en la caja abierta más las de las cajas cerradas.
func AvailableParts(lot *entity.StockLot) int64 {
	if !lot.Divisible() || lot.Quantity <= 0 {
		return 0
	}
	ppb := *lot.NumberOfPartsPerBox
	current := ppb
	if lot.RemainingParts != nil {
		current = *lot.RemainingParts
	}
	return current + (lot.Quantity-1)*ppb
}

// DeductForSale descuenta del lote una venta de cajas enteras o de partes
// sueltas. No muta el lote si la validación falla.
//
// Modo caja entera (parts == 0 o lote no divisible): requiere Quantity >=
// boxes. Si el lote es divisible y quedan cajas, RemainingParts se reinicia a
// la caja llena; si el stock llega a 0 se limpia.
//
// Modo parcial (lote divisible, 0 < parts <= partes por caja): se descuentan
// partes de la caja abierta. Si la caja se agota, se consume una caja entera y
// el déficit se arrastra a la caja recién abierta; si no, solo cambia
// RemainingParts y no se consume ninguna caja.
func DeductForSale(lot *entity.StockLot, boxes, parts int64) (Deduction, error) {
	if boxes < 0 || parts < 0 {
		return Deduction{}, domain.ErrInvalidInput
	}
	if parts == 0 || !lot.Divisible() {
		return deductWholeBoxes(lot, boxes)
	}
	return deductParts(lot, parts)
}

func deductWholeBoxes(lot *entity.StockLot, boxes int64) (Deduction, error) {
	if boxes == 0 {
		return Deduction{}, domain.ErrInvalidInput
	}
	if lot.Quantity < boxes {
		return Deduction{}, fmt.Errorf("%w: disponibles %d cajas, solicitadas %d",
			domain.ErrInsufficientStock, lot.Quantity, boxes)
	}
	lot.Quantity -= boxes
	if lot.Divisible() {
		if lot.Quantity > 0 {
			full := *lot.NumberOfPartsPerBox
			lot.RemainingParts = &full
		} else {
			lot.RemainingParts = nil
		}
	}
	return Deduction{BoxesConsumed: boxes}, nil
}

func deductParts(lot *entity.StockLot, parts int64) (Deduction, error) {
	ppb := *lot.NumberOfPartsPerBox
	if parts > ppb {
		// Más de una caja en partes se vende como cajas + partes.
		return Deduction{}, fmt.Errorf("%w: %d partes exceden la caja de %d",
			domain.ErrInvalidInput, parts, ppb)
	}
	available := AvailableParts(lot)
	if parts > available {
		return Deduction{}, fmt.Errorf("%w: disponibles %d partes, solicitadas %d",
			domain.ErrInsufficientStock, available, parts)
	}
	current := ppb
	if lot.RemainingParts != nil {
		current = *lot.RemainingParts
	}
	next := current - parts
	if next > 0 {
		lot.RemainingParts = &next
		return Deduction{BoxesConsumed: 0, PartsSold: parts}, nil
	}
	// La caja abierta se agotó: se consume una caja y el déficit se arrastra.
	lot.Quantity--
	if lot.Quantity > 0 {
		carried := ppb + next
		lot.RemainingParts = &carried
	} else {
		lot.RemainingParts = nil
	}
	return Deduction{BoxesConsumed: 1, PartsSold: parts}, nil
}

// RestoreForRefund devuelve cajas al lote. Las devoluciones operan a nivel de
// caja: no se intenta reconstruir RemainingParts previo.
func RestoreForRefund(lot *entity.StockLot, boxes int64) {
	if boxes <= 0 {
		return
	}
	lot.Quantity += boxes
}
