package debt

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/application/currency"
	"github.com/tu-usuario/pharma-pos/internal/application/dto"
	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
	"github.com/tu-usuario/pharma-pos/internal/domain/sale"
	"github.com/tu-usuario/pharma-pos/pkg/logger"
)

// Tipo de evento de notificación emitido cuando una deuda queda saldada.
const NotifTypeDebtPaid = "DEBT_PAID"

// TxRunner ejecuta una función dentro de una transacción con los repos de
// deudas y facturas.
type TxRunner interface {
	RunDebt(ctx context.Context, fn func(
		debtRepo repository.CustomerDebtRepository,
		invoiceRepo repository.SaleInvoiceRepository,
	) error) error
}

// CashLedger registra abonos en el libro de caja (espejo best-effort).
type CashLedger interface {
	RecordDebtPayment(ctx context.Context, pharmacyID, invoiceID string, amount decimal.Decimal, currency string) error
}

// NotificationSink envía notificaciones push (best-effort).
type NotificationSink interface {
	Send(ctx context.Context, userID, title, body, notifType string, data map[string]string) error
}

// UseCase abonos directos sobre deudas y consulta del libro por cliente.
type UseCase struct {
	txRunner TxRunner
	debtRepo repository.CustomerDebtRepository
	rates    *currency.Normalizer
	cash     CashLedger
	notifier NotificationSink
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	debtRepo repository.CustomerDebtRepository,
	rates *currency.Normalizer,
	cash CashLedger,
	notifier NotificationSink,
	log *logger.Logger,
) *UseCase {
	return &UseCase{txRunner: txRunner, debtRepo: debtRepo, rates: rates, cash: cash, notifier: notifier, log: log}
}

// PayDebt aplica un abono directo a una deuda: reduce el restante, espeja la
// reducción en la factura de origen (si existe) y registra el abono en caja.
// El registro de caja y la notificación son best-effort: su fallo se reporta
// como warning, nunca revierte el abono.
func (uc *UseCase) PayDebt(ctx context.Context, pharmacyID, userID, debtID string, in dto.PayDebtRequest) (*dto.DebtResponse, error) {
	if pharmacyID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: monto de abono no positivo", domain.ErrConflict)
	}
	amount, err := uc.rates.ToBase(in.Amount, in.Currency)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var paid *entity.CustomerDebt
	var applied decimal.Decimal
	err = uc.txRunner.RunDebt(ctx, func(
		debtRepo repository.CustomerDebtRepository,
		invoiceRepo repository.SaleInvoiceRepository,
	) error {
		d, err := debtRepo.GetByIDForUpdate(debtID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.PharmacyID != pharmacyID {
			return domain.ErrUnauthorized
		}
		if d.Status != entity.DebtStatusActive {
			return fmt.Errorf("%w: la deuda ya está saldada", domain.ErrConflict)
		}
		applied, err = ReduceDebt(debtRepo, d, amount, now)
		if err != nil {
			return err
		}
		if d.InvoiceID != "" {
			if err := mirrorPaymentOnInvoice(invoiceRepo, d.InvoiceID, applied, now); err != nil {
				return err
			}
		}
		paid = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toDebtResponse(paid)
	if err := uc.cash.RecordDebtPayment(ctx, pharmacyID, paid.InvoiceID, applied, uc.rates.Base()); err != nil {
		uc.log.Warn().Err(err).Str("debt_id", paid.ID).Msg("registro de abono en caja falló")
		resp.Warnings = append(resp.Warnings, dto.Warning{Code: dto.WarnCashLedger, Message: "abono no registrado en caja"})
	}
	if paid.Status == entity.DebtStatusPaid {
		if err := uc.notifier.Send(ctx, userID, "Deuda saldada",
			fmt.Sprintf("La deuda por %s quedó saldada", paid.Amount.StringFixed(2)),
			NotifTypeDebtPaid, map[string]string{"debt_id": paid.ID}); err != nil {
			uc.log.Warn().Err(err).Str("debt_id", paid.ID).Msg("notificación de deuda saldada falló")
			resp.Warnings = append(resp.Warnings, dto.Warning{Code: dto.WarnNotification, Message: "notificación no enviada"})
		}
	}
	return resp, nil
}

// ListCustomerDebts devuelve las deudas del cliente (todas, activas y pagas).
func (uc *UseCase) ListCustomerDebts(ctx context.Context, pharmacyID, customerID string, page dto.PageRequest) ([]dto.DebtResponse, error) {
	if pharmacyID == "" {
		return nil, domain.ErrUnauthorized
	}
	page.DefaultPage()
	debts, err := uc.debtRepo.ListByCustomer(customerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DebtResponse, 0, len(debts))
	for _, d := range debts {
		if d.PharmacyID != pharmacyID {
			return nil, domain.ErrUnauthorized
		}
		out = append(out, *toDebtResponse(d))
	}
	return out, nil
}

// mirrorPaymentOnInvoice refleja el abono en la factura de origen: sube el
// pagado, baja el restante y rederiva estados.
func mirrorPaymentOnInvoice(invoiceRepo repository.SaleInvoiceRepository, invoiceID string, applied decimal.Decimal, now time.Time) error {
	inv, err := invoiceRepo.GetForUpdate(invoiceID)
	if err != nil {
		return err
	}
	if inv == nil {
		return nil // deuda huérfana: el abono vale igual
	}
	inv.PaidAmount = inv.PaidAmount.Add(applied)
	inv.RemainingAmount = inv.RemainingAmount.Sub(applied)
	if inv.RemainingAmount.IsNegative() {
		inv.RemainingAmount = decimal.Zero
	}
	items, err := invoiceRepo.GetItemsByInvoiceID(invoiceID)
	if err != nil {
		return err
	}
	inv.PaymentStatus, inv.RefundStatus = sale.DeriveStatuses(inv, items)
	inv.UpdatedAt = now
	return invoiceRepo.Update(inv)
}

func toDebtResponse(d *entity.CustomerDebt) *dto.DebtResponse {
	return &dto.DebtResponse{
		ID:              d.ID,
		CustomerID:      d.CustomerID,
		InvoiceID:       d.InvoiceID,
		Amount:          d.Amount,
		PaidAmount:      d.PaidAmount,
		RemainingAmount: d.RemainingAmount,
		Status:          d.Status,
		DueDate:         d.DueDate,
		CreatedAt:       d.CreatedAt,
	}
}
