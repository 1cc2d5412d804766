package repository

import "github.com/tu-usuario/pharma-pos/internal/domain/entity"

// SaleRefundRepository define el puerto de persistencia para lotes de
// devolución y sus líneas.
type SaleRefundRepository interface {
	Create(refund *entity.SaleRefund) error
	CreateItem(item *entity.SaleRefundItem) error
	Update(refund *entity.SaleRefund) error
	GetByID(id string) (*entity.SaleRefund, error)
	ListByInvoiceID(invoiceID string) ([]*entity.SaleRefund, error)
}
