package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
)

var _ repository.SaleRefundRepository = (*SaleRefundRepo)(nil)

// SaleRefundRepo implementación de SaleRefundRepository sobre PostgreSQL.
type SaleRefundRepo struct {
	q Querier
}

// NewSaleRefundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRefundRepository(q Querier) *SaleRefundRepo {
	return &SaleRefundRepo{q: q}
}

// Create inserta la cabecera del lote de devolución.
func (r *SaleRefundRepo) Create(refund *entity.SaleRefund) error {
	query := `
		INSERT INTO sale_refunds (
			id, invoice_id, pharmacy_id, refund_status, total_amount,
			stock_restored, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.q.Exec(context.Background(), query,
		refund.ID, refund.InvoiceID, refund.PharmacyID, refund.RefundStatus,
		refund.TotalAmount, refund.StockRestored, refund.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sale refund: %w", err)
	}
	return nil
}

// CreateItem inserta una línea del lote de devolución.
func (r *SaleRefundRepo) CreateItem(item *entity.SaleRefundItem) error {
	query := `
		INSERT INTO sale_refund_items (id, refund_id, invoice_item_id, quantity, sub_total)
		VALUES ($1,$2,$3,$4,$5)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.RefundID, item.InvoiceItemID, item.Quantity, item.SubTotal,
	)
	if err != nil {
		return fmt.Errorf("create sale refund item: %w", err)
	}
	return nil
}

// Update persiste estado y flag de stock restaurado del lote.
func (r *SaleRefundRepo) Update(refund *entity.SaleRefund) error {
	query := `
		UPDATE sale_refunds
		SET refund_status = $2, total_amount = $3, stock_restored = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		refund.ID, refund.RefundStatus, refund.TotalAmount, refund.StockRestored,
	)
	if err != nil {
		return fmt.Errorf("update sale refund: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sale refund %s: fila no encontrada", refund.ID)
	}
	return nil
}

// GetByID obtiene un lote de devolución por id. Retorna nil si no existe.
func (r *SaleRefundRepo) GetByID(id string) (*entity.SaleRefund, error) {
	query := `
		SELECT id, invoice_id, pharmacy_id, refund_status, total_amount,
		       stock_restored, created_at
		FROM sale_refunds WHERE id = $1`
	var ref entity.SaleRefund
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&ref.ID, &ref.InvoiceID, &ref.PharmacyID, &ref.RefundStatus, &ref.TotalAmount,
		&ref.StockRestored, &ref.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale refund: %w", err)
	}
	return &ref, nil
}

// ListByInvoiceID lista los lotes de devolución de una factura, del más
// antiguo al más reciente.
func (r *SaleRefundRepo) ListByInvoiceID(invoiceID string) ([]*entity.SaleRefund, error) {
	query := `
		SELECT id, invoice_id, pharmacy_id, refund_status, total_amount,
		       stock_restored, created_at
		FROM sale_refunds
		WHERE invoice_id = $1
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list sale refunds: %w", err)
	}
	defer rows.Close()

	var refunds []*entity.SaleRefund
	for rows.Next() {
		var ref entity.SaleRefund
		if err := rows.Scan(
			&ref.ID, &ref.InvoiceID, &ref.PharmacyID, &ref.RefundStatus, &ref.TotalAmount,
			&ref.StockRestored, &ref.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale refund: %w", err)
		}
		refunds = append(refunds, &ref)
	}
	return refunds, rows.Err()
}
