package sale

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repos que muta una venta: lotes, facturas, clientes y deudas. O todo
// commitea o todo se revierte.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		lotRepo repository.StockLotRepository,
		invoiceRepo repository.SaleInvoiceRepository,
		customerRepo repository.CustomerRepository,
		debtRepo repository.CustomerDebtRepository,
	) error) error
}

// CashLedger registra pagos y devoluciones en el libro de caja. Puede fallar;
// el caller loguea y continúa (la caja es un espejo best-effort).
type CashLedger interface {
	RecordPayment(ctx context.Context, pharmacyID, invoiceID string, amount decimal.Decimal, currency string) error
	RecordRefund(ctx context.Context, pharmacyID, invoiceID string, amount decimal.Decimal, currency string) error
}

// NotificationSink envía notificaciones push (best-effort).
type NotificationSink interface {
	Send(ctx context.Context, userID, title, body, notifType string, data map[string]string) error
}

// CatalogLookup consulta el catálogo de productos (colaborador externo a este
// núcleo: nombre y precio de venta en moneda base por producto y tipo).
type CatalogLookup interface {
	ProductName(productID, productType string) (string, error)
	SellingPrice(productID, productType string) (decimal.Decimal, error)
}
