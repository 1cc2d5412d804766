// Package receipt genera el comprobante imprimible (PDF) de una factura de
// venta.
package receipt

import (
	"context"
	"fmt"

	"github.com/tu-usuario/pharma-pos/internal/application/sale"
	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
)

// PDFGenerator genera los bytes del comprobante.
type PDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		invoice *entity.SaleInvoice,
		items []*entity.SaleInvoiceItem,
		pharmacy *entity.Pharmacy,
		customer *entity.Customer,
		productNames map[string]string,
	) ([]byte, error)
}

// UseCase arma los datos del comprobante y delega la generación.
type UseCase struct {
	invoiceRepo  repository.SaleInvoiceRepository
	pharmacyRepo repository.PharmacyRepository
	customerRepo repository.CustomerRepository
	catalog      sale.CatalogLookup
	generator    PDFGenerator
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
func NewUseCase(
	invoiceRepo repository.SaleInvoiceRepository,
	pharmacyRepo repository.PharmacyRepository,
	customerRepo repository.CustomerRepository,
	catalog sale.CatalogLookup,
	generator PDFGenerator,
) *UseCase {
	return &UseCase{
		invoiceRepo:  invoiceRepo,
		pharmacyRepo: pharmacyRepo,
		customerRepo: customerRepo,
		catalog:      catalog,
		generator:    generator,
	}
}

// DownloadReceiptPDF recupera factura, líneas, farmacia y cliente, resuelve
// los nombres de producto contra el catálogo y genera el PDF.
func (uc *UseCase) DownloadReceiptPDF(ctx context.Context, pharmacyID, invoiceID string) ([]byte, string, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.PharmacyID != pharmacyID {
		return nil, "", domain.ErrUnauthorized
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(invoiceID)
	if err != nil {
		return nil, "", err
	}
	pharmacy, err := uc.pharmacyRepo.GetByID(pharmacyID)
	if err != nil {
		return nil, "", err
	}
	customer, _ := uc.customerRepo.GetByID(inv.CustomerID)

	names := make(map[string]string, len(items))
	for _, it := range items {
		if _, ok := names[it.ProductID]; ok {
			continue
		}
		name, err := uc.catalog.ProductName(it.ProductID, it.ProductType)
		if err != nil {
			name = it.ProductID // sin nombre en catálogo: id crudo
		}
		names[it.ProductID] = name
	}

	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, inv, items, pharmacy, customer, names)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generar PDF: %w", err)
	}
	filename := fmt.Sprintf("venta-%s.pdf", inv.ID)
	return pdfBytes, filename, nil
}
