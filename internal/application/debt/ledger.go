// Package debt implementa el libro de deudas de clientes: creación por venta
// a crédito, reducción por devolución o abono directo, y transición a PAID.
package debt

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
)

// Reduction resume una reducción aplicada sobre el libro de deudas.
type Reduction struct {
	Applied decimal.Decimal
	// PaidOff deudas que llegaron a 0 y pasaron a PAID (el caller emite la
	// notificación "deuda pagada" después del commit).
	PaidOff []*entity.CustomerDebt
	// ByInvoice monto aplicado por factura de origen, para que el caller
	// espeje la reducción en SaleInvoice.RemainingAmount.
	ByInvoice map[string]decimal.Decimal
}

// CreateDebt crea una deuda ACTIVE usando el repositorio del caller (misma
// transacción). Las deudas nunca se incrementan después de creadas.
func CreateDebt(
	repo repository.CustomerDebtRepository,
	pharmacyID, customerID, invoiceID string,
	amount decimal.Decimal,
	dueDate *time.Time,
	now time.Time,
) (*entity.CustomerDebt, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: monto de deuda no positivo", domain.ErrConflict)
	}
	d := &entity.CustomerDebt{
		ID:              uuid.New().String(),
		PharmacyID:      pharmacyID,
		CustomerID:      customerID,
		InvoiceID:       invoiceID,
		Amount:          amount,
		PaidAmount:      decimal.Zero,
		RemainingAmount: amount,
		Status:          entity.DebtStatusActive,
		DueDate:         dueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repo.Create(d); err != nil {
		return nil, err
	}
	return d, nil
}

// ReduceDebt reduce una deuda específica en min(amount, restante) y la marca
// PAID si el restante llega a 0. Devuelve el monto realmente aplicado.
func ReduceDebt(
	repo repository.CustomerDebtRepository,
	d *entity.CustomerDebt,
	amount decimal.Decimal,
	now time.Time,
) (decimal.Decimal, error) {
	if d.Status != entity.DebtStatusActive || !amount.IsPositive() {
		return decimal.Zero, nil
	}
	applied := decimal.Min(amount, d.RemainingAmount)
	d.RemainingAmount = d.RemainingAmount.Sub(applied)
	d.PaidAmount = d.PaidAmount.Add(applied)
	if d.RemainingAmount.IsZero() {
		d.Status = entity.DebtStatusPaid
	}
	d.UpdatedAt = now
	if err := repo.Update(d); err != nil {
		return decimal.Zero, err
	}
	return applied, nil
}

// ReduceMostRecentFirst reparte amount sobre las deudas ACTIVE del cliente,
// atacando siempre primero la creada más recientemente. Bloquea las filas vía
// el repositorio del caller (misma transacción).
func ReduceMostRecentFirst(
	repo repository.CustomerDebtRepository,
	customerID string,
	amount decimal.Decimal,
	skipInvoiceID string,
	now time.Time,
) (Reduction, error) {
	red := Reduction{Applied: decimal.Zero, ByInvoice: map[string]decimal.Decimal{}}
	if !amount.IsPositive() {
		return red, nil
	}
	debts, err := repo.ListActiveByCustomerForUpdate(customerID)
	if err != nil {
		return red, err
	}
	left := amount
	for _, d := range debts {
		if left.IsZero() {
			break
		}
		if skipInvoiceID != "" && d.InvoiceID == skipInvoiceID {
			continue
		}
		applied, err := ReduceDebt(repo, d, left, now)
		if err != nil {
			return red, err
		}
		if applied.IsZero() {
			continue
		}
		left = left.Sub(applied)
		red.Applied = red.Applied.Add(applied)
		if d.InvoiceID != "" {
			red.ByInvoice[d.InvoiceID] = red.ByInvoice[d.InvoiceID].Add(applied)
		}
		if d.Status == entity.DebtStatusPaid {
			red.PaidOff = append(red.PaidOff, d)
		}
	}
	return red, nil
}
