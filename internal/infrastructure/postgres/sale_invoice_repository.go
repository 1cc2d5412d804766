package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
)

var _ repository.SaleInvoiceRepository = (*SaleInvoiceRepo)(nil)

// SaleInvoiceRepo implementación de SaleInvoiceRepository sobre PostgreSQL.
type SaleInvoiceRepo struct {
	q Querier
}

// NewSaleInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleInvoiceRepository(q Querier) *SaleInvoiceRepo {
	return &SaleInvoiceRepo{q: q}
}

const saleInvoiceColumns = `
	id, pharmacy_id, customer_id, status, payment_status, refund_status,
	payment_type, payment_method, total_amount, discount_amount,
	paid_amount, remaining_amount, currency, created_at, updated_at`

func scanSaleInvoice(row pgx.Row) (*entity.SaleInvoice, error) {
	var inv entity.SaleInvoice
	err := row.Scan(
		&inv.ID, &inv.PharmacyID, &inv.CustomerID, &inv.Status, &inv.PaymentStatus, &inv.RefundStatus,
		&inv.PaymentType, &inv.PaymentMethod, &inv.TotalAmount, &inv.DiscountAmount,
		&inv.PaidAmount, &inv.RemainingAmount, &inv.Currency, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create inserta la cabecera de la factura.
func (r *SaleInvoiceRepo) Create(invoice *entity.SaleInvoice) error {
	query := `
		INSERT INTO sale_invoices (
			id, pharmacy_id, customer_id, status, payment_status, refund_status,
			payment_type, payment_method, total_amount, discount_amount,
			paid_amount, remaining_amount, currency, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.PharmacyID, invoice.CustomerID, invoice.Status, invoice.PaymentStatus, invoice.RefundStatus,
		invoice.PaymentType, invoice.PaymentMethod, invoice.TotalAmount, invoice.DiscountAmount,
		invoice.PaidAmount, invoice.RemainingAmount, invoice.Currency, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sale invoice: %w", err)
	}
	return nil
}

// CreateItem inserta una línea de la factura.
func (r *SaleInvoiceRepo) CreateItem(item *entity.SaleInvoiceItem) error {
	query := `
		INSERT INTO sale_invoice_items (
			id, invoice_id, stock_lot_id, product_id, product_type,
			quantity, parts_sold, refunded_quantity, unit_price, sub_total
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.StockLotID, item.ProductID, item.ProductType,
		item.Quantity, item.PartsSold, item.RefundedQuantity, item.UnitPrice, item.SubTotal,
	)
	if err != nil {
		return fmt.Errorf("create sale invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por id. Retorna nil si no existe.
func (r *SaleInvoiceRepo) GetByID(id string) (*entity.SaleInvoice, error) {
	query := `SELECT` + saleInvoiceColumns + ` FROM sale_invoices WHERE id = $1`
	inv, err := scanSaleInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale invoice: %w", err)
	}
	return inv, nil
}

// GetForUpdate obtiene la cabecera y bloquea la fila durante una devolución.
func (r *SaleInvoiceRepo) GetForUpdate(id string) (*entity.SaleInvoice, error) {
	query := `SELECT` + saleInvoiceColumns + ` FROM sale_invoices WHERE id = $1 FOR UPDATE`
	inv, err := scanSaleInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale invoice for update: %w", err)
	}
	return inv, nil
}

// GetItemsByInvoiceID lista las líneas de la factura en orden de inserción.
func (r *SaleInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.SaleInvoiceItem, error) {
	query := `
		SELECT id, invoice_id, stock_lot_id, product_id, product_type,
		       quantity, parts_sold, refunded_quantity, unit_price, sub_total
		FROM sale_invoice_items
		WHERE invoice_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list sale invoice items: %w", err)
	}
	defer rows.Close()

	var items []*entity.SaleInvoiceItem
	for rows.Next() {
		var it entity.SaleInvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.StockLotID, &it.ProductID, &it.ProductType,
			&it.Quantity, &it.PartsSold, &it.RefundedQuantity, &it.UnitPrice, &it.SubTotal,
		); err != nil {
			return nil, fmt.Errorf("scan sale invoice item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// Update persiste montos y estados derivados de la cabecera.
func (r *SaleInvoiceRepo) Update(invoice *entity.SaleInvoice) error {
	query := `
		UPDATE sale_invoices
		SET payment_status = $2, refund_status = $3, paid_amount = $4,
		    remaining_amount = $5, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.PaymentStatus, invoice.RefundStatus,
		invoice.PaidAmount, invoice.RemainingAmount,
	)
	if err != nil {
		return fmt.Errorf("update sale invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sale invoice %s: fila no encontrada", invoice.ID)
	}
	return nil
}

// UpdateItem persiste la cantidad devuelta acumulada de la línea.
func (r *SaleInvoiceRepo) UpdateItem(item *entity.SaleInvoiceItem) error {
	query := `UPDATE sale_invoice_items SET refunded_quantity = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, item.ID, item.RefundedQuantity)
	if err != nil {
		return fmt.Errorf("update sale invoice item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sale invoice item %s: fila no encontrada", item.ID)
	}
	return nil
}
