// Package sale implementa el motor de transacciones de venta: convierte una
// solicitud de venta en una mutación consistente de stock, saldo del cliente
// y estado de factura, dentro de una sola transacción lógica.
package sale

import (
	"context"
	"fmt"
	"strings"
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

// Tipo de evento emitido cuando una venta a crédito deja al cliente por
// encima de su límite de compra.
const NotifTypePurchaseLimit = "PURCHASE_LIMIT_EXCEEDED"

// Engine orquesta la creación de facturas de venta.
type Engine struct {
	txRunner     TxRunner
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.SaleInvoiceRepository
	rates        *currency.Normalizer
	catalog      CatalogLookup
	cash         CashLedger
	notifier     NotificationSink
	log          *logger.Logger
}

// NewEngine construye el motor de ventas.
func NewEngine(
	txRunner TxRunner,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.SaleInvoiceRepository,
	rates *currency.Normalizer,
	catalog CatalogLookup,
	cash CashLedger,
	notifier NotificationSink,
	log *logger.Logger,
) *Engine {
	return &Engine{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		rates:        rates,
		catalog:      catalog,
		cash:         cash,
		notifier:     notifier,
		log:          log,
	}
}

// CreateSale crea la factura: resuelve el cliente (o el centinela de
// mostrador), valida el pago, descuenta stock por línea (caja entera o
// partes), aplica descuento, deriva estados y persiste todo atómicamente.
// El registro en caja y las notificaciones se intentan después del commit y
// sus fallos se devuelven como warnings.
func (e *Engine) CreateSale(ctx context.Context, pharmacyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if pharmacyID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// 1) Resolver cliente: explícito o centinela de mostrador. CREDIT exige
	// cliente nombrado.
	customer, err := e.resolveCustomer(pharmacyID, in)
	if err != nil {
		return nil, err
	}

	// 2) Compatibilidad tipo/método de pago.
	method := in.PaymentMethod
	if method == "" {
		if in.PaymentType == entity.PaymentTypeCredit {
			method = entity.PaymentMethodOnAccount
		} else {
			method = entity.PaymentMethodCash
		}
	}
	if err := domainsale.ValidatePaymentConfig(in.PaymentType, method); err != nil {
		return nil, err
	}

	// Normalizar montos de entrada a moneda base antes de cualquier
	// aritmética.
	paid, err := e.normalizePaid(in)
	if err != nil {
		return nil, err
	}
	discountValue := in.DiscountValue
	if in.DiscountType == domainsale.DiscountFixed {
		if discountValue, err = e.rates.ToBase(in.DiscountValue, in.Currency); err != nil {
			return nil, err
		}
	}
	unitPrices := make([]*decimal.Decimal, len(in.Items))
	for i, it := range in.Items {
		if it.UnitPrice == nil {
			continue
		}
		p, err := e.rates.ToBase(*it.UnitPrice, in.Currency)
		if err != nil {
			return nil, err
		}
		unitPrices[i] = &p
	}

	now := time.Now()
	inv := &entity.SaleInvoice{
		ID:            uuid.New().String(),
		PharmacyID:    pharmacyID,
		CustomerID:    customer.ID,
		Status:        entity.InvoiceStatusSold,
		RefundStatus:  entity.RefundStatusNone,
		PaymentType:   in.PaymentType,
		PaymentMethod: method,
		Currency:      e.rates.Base(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var items []*entity.SaleInvoiceItem
	var totalDebt decimal.Decimal
	debtCreated := false

	err = e.txRunner.RunSale(ctx, func(
		lotRepo repository.StockLotRepository,
		invoiceRepo repository.SaleInvoiceRepository,
		_ repository.CustomerRepository,
		debtRepo repository.CustomerDebtRepository,
	) error {
		// 3) Resolver y bloquear lotes; reportar todos los faltantes juntos.
		lots, err := e.lockLots(lotRepo, in.Items)
		if err != nil {
			return err
		}

		// 4) Descontar stock línea por línea y acumular el total.
		total := decimal.Zero
		items = items[:0]
		for i, reqItem := range in.Items {
			lot := lots[i]
			if lot.Expired(now) {
				return fmt.Errorf("%w: lote %s vencido el %s",
					domain.ErrExpiredProduct, lot.ID, lot.ExpiryDate.Format("2006-01-02"))
			}
			unitPrice, err := e.resolveUnitPrice(lot, unitPrices[i])
			if err != nil {
				return err
			}
			ded, err := domainsale.DeductForSale(lot, reqItem.Quantity, reqItem.Parts)
			if err != nil {
				return err
			}
			if err := lotRepo.Update(lot); err != nil {
				return err
			}
			// Una línea por partes factura el precio unitario de las partes,
			// independiente de las cajas consumidas (0 o 1).
			subTotal := unitPrice
			if ded.PartsSold == 0 {
				subTotal = unitPrice.Mul(decimal.NewFromInt(ded.BoxesConsumed))
			}
			items = append(items, &entity.SaleInvoiceItem{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				StockLotID:  lot.ID,
				ProductID:   lot.ProductID,
				ProductType: lot.ProductType,
				Quantity:    ded.BoxesConsumed,
				PartsSold:   ded.PartsSold,
				UnitPrice:   unitPrice,
				SubTotal:    subTotal,
			})
			total = total.Add(subTotal)
		}

		// 5) Descuento a nivel de factura.
		discount, err := domainsale.Discount(total, in.DiscountType, discountValue)
		if err != nil {
			return err
		}
		inv.DiscountAmount = discount
		inv.TotalAmount = total.Sub(discount)

		// 6) Pagado y restante según tipo de pago.
		inv.PaidAmount, inv.RemainingAmount, err = domainsale.SettleAmounts(in.PaymentType, inv.TotalAmount, paid)
		if err != nil {
			return err
		}
		inv.PaymentStatus, inv.RefundStatus = domainsale.DeriveStatuses(inv, items)

		// 7) Persistir factura y líneas en la misma transacción que el stock.
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range items {
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}

		// 8) Venta a crédito con saldo: crear deuda (el centinela de
		// mostrador nunca acumula deuda; CASH fuerza restante 0).
		if inv.RemainingAmount.IsPositive() && !customer.IsCashCustomer {
			if _, err := debt.CreateDebt(debtRepo, pharmacyID, customer.ID, inv.ID, inv.RemainingAmount, in.DueDate, now); err != nil {
				return err
			}
			debtCreated = true
			if totalDebt, err = debtRepo.SumActiveByCustomer(customer.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := e.toResponse(inv, items, in.Currency)

	// 9) Efectos secundarios post-commit, best-effort: caja y límite de
	// compra. Nunca revierten la venta.
	if method == entity.PaymentMethodCash && inv.PaidAmount.IsPositive() {
		// Siempre el monto recibido, nunca el total: en CREDIT con abono
		// parcial la caja solo ve lo que entró.
		if err := e.cash.RecordPayment(ctx, pharmacyID, inv.ID, inv.PaidAmount, inv.Currency); err != nil {
			e.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("registro de venta en caja falló")
			resp.Warnings = append(resp.Warnings, dto.Warning{Code: dto.WarnCashLedger, Message: "pago no registrado en caja"})
		}
	}
	if debtCreated && customer.DebtLimit != nil && totalDebt.GreaterThan(*customer.DebtLimit) {
		resp.Warnings = append(resp.Warnings, dto.Warning{
			Code:    dto.WarnDebtLimit,
			Message: fmt.Sprintf("deuda total %s supera el límite %s", totalDebt.StringFixed(2), customer.DebtLimit.StringFixed(2)),
		})
		if err := e.notifier.Send(ctx, userID, "Límite de compra excedido",
			fmt.Sprintf("El cliente %s supera su límite de crédito", customer.Name),
			NotifTypePurchaseLimit, map[string]string{"customer_id": customer.ID, "invoice_id": inv.ID}); err != nil {
			e.log.Warn().Err(err).Str("customer_id", customer.ID).Msg("notificación de límite de compra falló")
			resp.Warnings = append(resp.Warnings, dto.Warning{Code: dto.WarnNotification, Message: "notificación no enviada"})
		}
	}

	e.log.Info().
		Str("invoice_id", inv.ID).
		Str("payment_type", inv.PaymentType).
		Str("total", inv.TotalAmount.StringFixed(2)).
		Msg("venta creada")
	return resp, nil
}

// GetSale obtiene una factura con sus líneas.
func (e *Engine) GetSale(ctx context.Context, pharmacyID, id string) (*dto.SaleResponse, error) {
	if pharmacyID == "" {
		return nil, domain.ErrUnauthorized
	}
	inv, err := e.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.PharmacyID != pharmacyID {
		return nil, domain.ErrUnauthorized
	}
	items, err := e.invoiceRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	return e.toResponse(inv, items, ""), nil
}

func (e *Engine) resolveCustomer(pharmacyID string, in dto.CreateSaleRequest) (*entity.Customer, error) {
	if in.CustomerID == "" {
		if in.PaymentType == entity.PaymentTypeCredit {
			return nil, fmt.Errorf("%w: venta a crédito sin cliente", domain.ErrConflict)
		}
		return e.customerRepo.GetOrCreateCashCustomer(pharmacyID)
	}
	customer, err := e.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.PharmacyID != pharmacyID {
		return nil, domain.ErrUnauthorized
	}
	return customer, nil
}

func (e *Engine) normalizePaid(in dto.CreateSaleRequest) (*decimal.Decimal, error) {
	if in.PaidAmount == nil {
		return nil, nil
	}
	p, err := e.rates.ToBase(*in.PaidAmount, in.Currency)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// lockLots bloquea todos los lotes de la venta (FOR UPDATE) y reporta los ids
// faltantes exactos en un solo error. Un lote repetido en varias líneas se lee
// una sola vez y todas las líneas comparten la misma instancia: las
// deducciones se acumulan en memoria en vez de pisarse entre copias.
func (e *Engine) lockLots(lotRepo repository.StockLotRepository, reqItems []dto.SaleItemRequest) ([]*entity.StockLot, error) {
	lots := make([]*entity.StockLot, len(reqItems))
	seen := make(map[string]*entity.StockLot, len(reqItems))
	var missing []string
	for i, it := range reqItems {
		if lot, ok := seen[it.StockLotID]; ok {
			lots[i] = lot
			continue
		}
		lot, err := lotRepo.GetForUpdate(it.StockLotID)
		if err != nil {
			return nil, err
		}
		seen[it.StockLotID] = lot
		if lot == nil {
			missing = append(missing, it.StockLotID)
			continue
		}
		lots[i] = lot
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: lotes %s", domain.ErrNotFound, strings.Join(missing, ", "))
	}
	return lots, nil
}

func (e *Engine) resolveUnitPrice(lot *entity.StockLot, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		if override.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: precio unitario negativo", domain.ErrConflict)
		}
		return *override, nil
	}
	return e.catalog.SellingPrice(lot.ProductID, lot.ProductType)
}

func (e *Engine) toResponse(inv *entity.SaleInvoice, items []*entity.SaleInvoiceItem, reqCurrency string) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:              inv.ID,
		PharmacyID:      inv.PharmacyID,
		CustomerID:      inv.CustomerID,
		Status:          inv.Status,
		PaymentStatus:   inv.PaymentStatus,
		RefundStatus:    inv.RefundStatus,
		PaymentType:     inv.PaymentType,
		PaymentMethod:   inv.PaymentMethod,
		TotalAmount:     inv.TotalAmount,
		DiscountAmount:  inv.DiscountAmount,
		PaidAmount:      inv.PaidAmount,
		RemainingAmount: inv.RemainingAmount,
		Currency:        inv.Currency,
		CreatedAt:       inv.CreatedAt,
		Items:           make([]dto.SaleItemResponse, 0, len(items)),
	}
	if cur := strings.ToUpper(reqCurrency); cur != "" && cur != e.rates.Base() {
		if converted, err := e.rates.FromBase(inv.TotalAmount, cur); err == nil {
			resp.TotalInCurrency = &converted
		}
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:               it.ID,
			StockLotID:       it.StockLotID,
			ProductID:        it.ProductID,
			ProductType:      it.ProductType,
			Quantity:         it.Quantity,
			PartsSold:        it.PartsSold,
			RefundedQuantity: it.RefundedQuantity,
			UnitPrice:        it.UnitPrice,
			SubTotal:         it.SubTotal,
		})
	}
	return resp
}
