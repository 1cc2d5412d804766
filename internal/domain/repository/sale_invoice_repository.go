package repository

import "github.com/tu-usuario/pharma-pos/internal/domain/entity"

// SaleInvoiceRepository define el puerto de persistencia para facturas de
// venta y sus líneas.
type SaleInvoiceRepository interface {
	Create(invoice *entity.SaleInvoice) error
	CreateItem(item *entity.SaleInvoiceItem) error
	GetByID(id string) (*entity.SaleInvoice, error)
	// GetForUpdate bloquea la cabecera durante una devolución.
	GetForUpdate(id string) (*entity.SaleInvoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.SaleInvoiceItem, error)
	Update(invoice *entity.SaleInvoice) error
	UpdateItem(item *entity.SaleInvoiceItem) error
}
