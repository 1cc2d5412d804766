// Package refund implementa el motor de conciliación de devoluciones:
// restaura stock, reparte el valor devuelto entre deuda de la factura, otras
// deudas activas del cliente y pago en efectivo (en ese orden estricto), y
// recalcula los estados de la factura.
package refund

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/application/currency"
	"github.com/tu-usuario/pharma-pos/internal/application/debt"
	"github.com/tu-usuario/pharma-pos/internal/application/dto"
	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
	domainsale "github.com/tu-usuario/pharma-pos/internal/domain/sale"
	"github.com/tu-usuario/pharma-pos/pkg/logger"
)

// TxRunner ejecuta una función dentro de una transacción con los repos que
// muta una devolución.
type TxRunner interface {
	RunRefund(ctx context.Context, fn func(
		lotRepo repository.StockLotRepository,
		invoiceRepo repository.SaleInvoiceRepository,
		refundRepo repository.SaleRefundRepository,
		debtRepo repository.CustomerDebtRepository,
	) error) error
}

// CashLedger registra la salida de caja de una devolución (best-effort).
type CashLedger interface {
	RecordRefund(ctx context.Context, pharmacyID, invoiceID string, amount decimal.Decimal, currency string) error
}

// NotificationSink envía notificaciones push (best-effort).
type NotificationSink interface {
	Send(ctx context.Context, userID, title, body, notifType string, data map[string]string) error
}

// Engine orquesta el procesamiento de devoluciones.
type Engine struct {
	txRunner TxRunner
	rates    *currency.Normalizer
	cash     CashLedger
	notifier NotificationSink
	log      *logger.Logger
}

// NewEngine construye el motor de devoluciones.
func NewEngine(txRunner TxRunner, rates *currency.Normalizer, cash CashLedger, notifier NotificationSink, log *logger.Logger) *Engine {
	return &Engine{txRunner: txRunner, rates: rates, cash: cash, notifier: notifier, log: log}
}

// ProcessRefund procesa un lote de devolución sobre una factura.
//
// El valor devuelto se reparte en orden estricto: primero contra el saldo de
// la propia factura, luego contra las demás deudas activas del cliente (la
// más reciente primero) y solo el resto sale por caja. La salida de caja es
// best-effort: su fallo se loguea y se devuelve como warning, nunca revierte
// la devolución.
func (e *Engine) ProcessRefund(ctx context.Context, pharmacyID, userID, invoiceID string, in dto.ProcessRefundRequest) (*dto.RefundResponse, error) {
	if pharmacyID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var (
		inv           *entity.SaleInvoice
		refund        *entity.SaleRefund
		cashPayout    decimal.Decimal
		debtReduction decimal.Decimal
		remainingDebt decimal.Decimal
		paidOff       []*entity.CustomerDebt
	)

	err := e.txRunner.RunRefund(ctx, func(
		lotRepo repository.StockLotRepository,
		invoiceRepo repository.SaleInvoiceRepository,
		refundRepo repository.SaleRefundRepository,
		debtRepo repository.CustomerDebtRepository,
	) error {
		var err error
		inv, err = invoiceRepo.GetForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.PharmacyID != pharmacyID {
			return domain.ErrUnauthorized
		}
		// 1) Una factura totalmente devuelta no admite más devoluciones.
		if inv.RefundStatus == entity.RefundStatusFully {
			return domain.ErrAlreadyRefunded
		}
		items, err := invoiceRepo.GetItemsByInvoiceID(invoiceID)
		if err != nil {
			return err
		}
		itemsByID := make(map[string]*entity.SaleInvoiceItem, len(items))
		for _, it := range items {
			itemsByID[it.ID] = it
		}

		// 2) Validar cantidades devolvibles y acumular el total. Como
		// RefundedQuantity se incrementa línea a línea, un ítem repetido en
		// el mismo lote no puede contarse doble.
		refund = &entity.SaleRefund{
			ID:         uuid.New().String(),
			InvoiceID:  invoiceID,
			PharmacyID: pharmacyID,
			CreatedAt:  now,
		}
		var refundItems []*entity.SaleRefundItem
		total := decimal.Zero
		for _, line := range in.Items {
			item, ok := itemsByID[line.InvoiceItemID]
			if !ok {
				return fmt.Errorf("%w: ítem de factura %s", domain.ErrNotFound, line.InvoiceItemID)
			}
			if line.Quantity <= 0 {
				return domain.ErrInvalidInput
			}
			refundable := item.Quantity - item.RefundedQuantity
			if line.Quantity > refundable {
				return fmt.Errorf("%w: devolvibles %d cajas del ítem %s, solicitadas %d",
					domain.ErrInvalidInput, refundable, item.ID, line.Quantity)
			}
			item.RefundedQuantity += line.Quantity
			subTotal := item.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
			total = total.Add(subTotal)
			refundItems = append(refundItems, &entity.SaleRefundItem{
				ID:            uuid.New().String(),
				RefundID:      refund.ID,
				InvoiceItemID: item.ID,
				Quantity:      line.Quantity,
				SubTotal:      subTotal,
			})
		}
		refund.TotalAmount = total
		refund.RefundStatus = entity.RefundStatusNone
		if total.IsPositive() {
			refund.RefundStatus = entity.RefundStatusPartially
		}

		// 3) Persistir el lote de devolución y sus líneas.
		if err := refundRepo.Create(refund); err != nil {
			return err
		}
		for _, ri := range refundItems {
			if err := refundRepo.CreateItem(ri); err != nil {
				return err
			}
		}
		for _, line := range in.Items {
			if err := invoiceRepo.UpdateItem(itemsByID[line.InvoiceItemID]); err != nil {
				return err
			}
		}

		// 4) Restaurar stock (por cajas) y marcar el lote como restaurado.
		for _, line := range in.Items {
			item := itemsByID[line.InvoiceItemID]
			if line.Quantity == 0 {
				continue
			}
			lot, err := lotRepo.GetForUpdate(item.StockLotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return fmt.Errorf("%w: lote %s", domain.ErrNotFound, item.StockLotID)
			}
			domainsale.RestoreForRefund(lot, line.Quantity)
			if err := lotRepo.Update(lot); err != nil {
				return err
			}
		}
		refund.StockRestored = true
		if err := refundRepo.Update(refund); err != nil {
			return err
		}

		// 5) Repartir el valor devuelto: deuda de la factura, otras deudas,
		// efectivo — en ese orden.
		cashPayout, debtReduction, paidOff, err = e.allocateRefundValue(invoiceRepo, debtRepo, inv, total, now)
		if err != nil {
			return err
		}

		// 6) Rederivar estados de la factura tras la mutación.
		inv.PaymentStatus, inv.RefundStatus = domainsale.DeriveStatuses(inv, items)
		inv.UpdatedAt = now
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}

		// 7) Deuda total restante del cliente (lectura para la respuesta).
		remainingDebt, err = debtRepo.SumActiveByCustomer(inv.CustomerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.RefundResponse{
		ID:                    refund.ID,
		InvoiceID:             inv.ID,
		RefundStatus:          refund.RefundStatus,
		TotalRefundAmount:     refund.TotalAmount,
		DebtReduction:         debtReduction,
		CashPayout:            cashPayout,
		InvoiceRefundStatus:   inv.RefundStatus,
		InvoicePaymentStatus:  inv.PaymentStatus,
		CustomerRemainingDebt: remainingDebt,
		StockRestored:         refund.StockRestored,
		CreatedAt:             refund.CreatedAt,
	}

	// Efectos secundarios post-commit, best-effort.
	if cashPayout.IsPositive() {
		if err := e.cash.RecordRefund(ctx, pharmacyID, inv.ID, cashPayout, inv.Currency); err != nil {
			e.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("registro de devolución en caja falló")
			resp.Warnings = append(resp.Warnings, dto.Warning{Code: dto.WarnCashLedger, Message: "salida de caja no registrada"})
		}
	}
	for _, d := range paidOff {
		if err := e.notifier.Send(ctx, userID, "Deuda saldada",
			fmt.Sprintf("La deuda por %s quedó saldada con una devolución", d.Amount.StringFixed(2)),
			debt.NotifTypeDebtPaid, map[string]string{"debt_id": d.ID, "invoice_id": inv.ID}); err != nil {
			e.log.Warn().Err(err).Str("debt_id", d.ID).Msg("notificación de deuda saldada falló")
			resp.Warnings = append(resp.Warnings, dto.Warning{Code: dto.WarnNotification, Message: "notificación no enviada"})
		}
	}

	e.log.Info().
		Str("invoice_id", inv.ID).
		Str("refund_id", refund.ID).
		Str("total", refund.TotalAmount.StringFixed(2)).
		Str("cash_payout", cashPayout.StringFixed(2)).
		Msg("devolución procesada")
	return resp, nil
}

// allocateRefundValue aplica el invariante de orden del reparto según tipo de
// pago y saldos actuales. Devuelve (efectivo, reducción de deuda, deudas que
// quedaron saldadas).
func (e *Engine) allocateRefundValue(
	invoiceRepo repository.SaleInvoiceRepository,
	debtRepo repository.CustomerDebtRepository,
	inv *entity.SaleInvoice,
	total decimal.Decimal,
	now time.Time,
) (decimal.Decimal, decimal.Decimal, []*entity.CustomerDebt, error) {
	if !total.IsPositive() {
		return decimal.Zero, decimal.Zero, nil, nil
	}

	// CASH (pagada o con saldo raro): sale por caja hasta lo efectivamente
	// pagado.
	if inv.PaymentType == entity.PaymentTypeCash {
		return decimal.Min(total, inv.PaidAmount), decimal.Zero, nil, nil
	}

	// CREDIT sin abono: todo contra el libro de deudas, la más reciente
	// primero; lo aplicado a la deuda de esta factura se espeja en su saldo.
	if !inv.PaidAmount.IsPositive() {
		red, err := debt.ReduceMostRecentFirst(debtRepo, inv.CustomerID, total, "", now)
		if err != nil {
			return decimal.Zero, decimal.Zero, nil, err
		}
		if mirrored, ok := red.ByInvoice[inv.ID]; ok {
			inv.RemainingAmount = inv.RemainingAmount.Sub(mirrored)
			if inv.RemainingAmount.IsNegative() {
				inv.RemainingAmount = decimal.Zero
			}
		}
		return total.Sub(red.Applied), red.Applied, red.PaidOff, nil
	}

	// CREDIT con abono: primero el saldo de esta factura, luego las demás
	// deudas activas, y el resto en efectivo.
	invoiceDebt := inv.RemainingAmount
	if invoiceDebt.IsNegative() {
		invoiceDebt = decimal.Zero
	}
	invoiceReduction := decimal.Min(total, invoiceDebt)
	var paidOff []*entity.CustomerDebt
	if invoiceReduction.IsPositive() {
		inv.RemainingAmount = inv.RemainingAmount.Sub(invoiceReduction)
		if d, err := debtRepo.GetActiveByInvoice(inv.ID); err != nil {
			return decimal.Zero, decimal.Zero, nil, err
		} else if d != nil {
			if _, err := debt.ReduceDebt(debtRepo, d, invoiceReduction, now); err != nil {
				return decimal.Zero, decimal.Zero, nil, err
			}
			if d.Status == entity.DebtStatusPaid {
				paidOff = append(paidOff, d)
			}
		}
	}
	rest := total.Sub(invoiceReduction)
	red, err := debt.ReduceMostRecentFirst(debtRepo, inv.CustomerID, rest, inv.ID, now)
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, err
	}
	paidOff = append(paidOff, red.PaidOff...)
	debtReduction := invoiceReduction.Add(red.Applied)
	return total.Sub(debtReduction), debtReduction, paidOff, nil
}
