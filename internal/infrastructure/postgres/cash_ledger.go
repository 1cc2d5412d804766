package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/application/debt"
	"github.com/tu-usuario/pharma-pos/internal/application/refund"
	"github.com/tu-usuario/pharma-pos/internal/application/sale"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
)

var _ sale.CashLedger = (*CashLedger)(nil)
var _ refund.CashLedger = (*CashLedger)(nil)
var _ debt.CashLedger = (*CashLedger)(nil)

// CashLedger persiste el libro de caja en PostgreSQL. Es un espejo
// best-effort de las facturas: los callers loguean el error y continúan.
type CashLedger struct {
	q Querier
}

// NewCashLedger construye el libro de caja. Pasar pool o tx (Querier).
func NewCashLedger(q Querier) *CashLedger {
	return &CashLedger{q: q}
}

// RecordPayment registra un ingreso de caja por pago de venta.
func (l *CashLedger) RecordPayment(ctx context.Context, pharmacyID, invoiceID string, amount decimal.Decimal, currency string) error {
	return l.record(ctx, pharmacyID, invoiceID, entity.CashTxSalePayment, amount, currency)
}

// RecordRefund registra una salida de caja por devolución.
func (l *CashLedger) RecordRefund(ctx context.Context, pharmacyID, invoiceID string, amount decimal.Decimal, currency string) error {
	return l.record(ctx, pharmacyID, invoiceID, entity.CashTxRefund, amount, currency)
}

// RecordDebtPayment registra un ingreso de caja por abono directo de deuda.
func (l *CashLedger) RecordDebtPayment(ctx context.Context, pharmacyID, invoiceID string, amount decimal.Decimal, currency string) error {
	return l.record(ctx, pharmacyID, invoiceID, entity.CashTxDebtPayment, amount, currency)
}

func (l *CashLedger) record(ctx context.Context, pharmacyID, invoiceID, txType string, amount decimal.Decimal, currency string) error {
	query := `
		INSERT INTO cash_transactions (id, pharmacy_id, invoice_id, type, amount, currency, created_at)
		VALUES ($1,$2,$3,$4,$5,$6, now())`
	_, err := l.q.Exec(ctx, query, uuid.New().String(), pharmacyID, invoiceID, txType, amount, currency)
	if err != nil {
		return fmt.Errorf("record cash transaction %s: %w", txType, err)
	}
	return nil
}

// ListByPharmacy lista los movimientos de caja de la farmacia, del más
// reciente al más antiguo.
func (l *CashLedger) ListByPharmacy(ctx context.Context, pharmacyID string, limit, offset int) ([]*entity.CashTransaction, error) {
	query := `
		SELECT id, pharmacy_id, invoice_id, type, amount, currency, created_at
		FROM cash_transactions
		WHERE pharmacy_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := l.q.Query(ctx, query, pharmacyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash transactions: %w", err)
	}
	defer rows.Close()

	var txs []*entity.CashTransaction
	for rows.Next() {
		var t entity.CashTransaction
		if err := rows.Scan(&t.ID, &t.PharmacyID, &t.InvoiceID, &t.Type, &t.Amount, &t.Currency, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash transaction: %w", err)
		}
		txs = append(txs, &t)
	}
	return txs, rows.Err()
}
