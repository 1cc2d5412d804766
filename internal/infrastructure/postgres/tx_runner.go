package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/pharma-pos/internal/application/debt"
	"github.com/tu-usuario/pharma-pos/internal/application/refund"
	"github.com/tu-usuario/pharma-pos/internal/application/sale"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
)

// Ensure TxRunner implements los runners de venta, devolución y deuda.
var _ sale.TxRunner = (*TxRunner)(nil)
var _ refund.TxRunner = (*TxRunner)(nil)
var _ debt.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSale inicia una transacción con los repos que muta una venta y hace
// Commit o Rollback.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	lotRepo repository.StockLotRepository,
	invoiceRepo repository.SaleInvoiceRepository,
	customerRepo repository.CustomerRepository,
	debtRepo repository.CustomerDebtRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lotRepo := NewStockLotRepository(tx)
	invoiceRepo := NewSaleInvoiceRepository(tx)
	customerRepo := NewCustomerRepository(tx)
	debtRepo := NewCustomerDebtRepository(tx)

	if err := fn(lotRepo, invoiceRepo, customerRepo, debtRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunRefund inicia una transacción con los repos que muta una devolución.
func (r *TxRunner) RunRefund(ctx context.Context, fn func(
	lotRepo repository.StockLotRepository,
	invoiceRepo repository.SaleInvoiceRepository,
	refundRepo repository.SaleRefundRepository,
	debtRepo repository.CustomerDebtRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lotRepo := NewStockLotRepository(tx)
	invoiceRepo := NewSaleInvoiceRepository(tx)
	refundRepo := NewSaleRefundRepository(tx)
	debtRepo := NewCustomerDebtRepository(tx)

	if err := fn(lotRepo, invoiceRepo, refundRepo, debtRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunDebt inicia una transacción con los repos que muta un abono directo.
func (r *TxRunner) RunDebt(ctx context.Context, fn func(
	debtRepo repository.CustomerDebtRepository,
	invoiceRepo repository.SaleInvoiceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	debtRepo := NewCustomerDebtRepository(tx)
	invoiceRepo := NewSaleInvoiceRepository(tx)

	if err := fn(debtRepo, invoiceRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
