package sale_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pharma-pos/internal/application/currency"
	"github.com/tu-usuario/pharma-pos/internal/application/dto"
	"github.com/tu-usuario/pharma-pos/internal/application/sale"
	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
	"github.com/tu-usuario/pharma-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Store en memoria: hace de TxRunner y de todos los repositorios.
// Los tests verifican el estado final del store después de cada operación.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	lots      map[string]*entity.StockLot
	invoices  map[string]*entity.SaleInvoice
	items     map[string]*entity.SaleInvoiceItem
	customers map[string]*entity.Customer
	debts     map[string]*entity.CustomerDebt
}

func newMemStore() *memStore {
	return &memStore{
		lots:      map[string]*entity.StockLot{},
		invoices:  map[string]*entity.SaleInvoice{},
		items:     map[string]*entity.SaleInvoiceItem{},
		customers: map[string]*entity.Customer{},
		debts:     map[string]*entity.CustomerDebt{},
	}
}

// RunSale ejecuta fn sobre los repos del store. No simula rollback: los tests
// de fallo verifican directamente que el motor no dejó mutaciones a medias.
func (s *memStore) RunSale(_ context.Context, fn func(
	repository.StockLotRepository,
	repository.SaleInvoiceRepository,
	repository.CustomerRepository,
	repository.CustomerDebtRepository,
) error) error {
	snap := s.snapshot()
	if err := fn(s, invoiceRepo{s}, customerRepo{s}, debtRepo{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	lots     map[string]entity.StockLot
	invoices map[string]entity.SaleInvoice
	items    map[string]entity.SaleInvoiceItem
	debts    map[string]entity.CustomerDebt
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		lots:     map[string]entity.StockLot{},
		invoices: map[string]entity.SaleInvoice{},
		items:    map[string]entity.SaleInvoiceItem{},
		debts:    map[string]entity.CustomerDebt{},
	}
	for k, v := range s.lots {
		cp := *v
		if v.RemainingParts != nil {
			r := *v.RemainingParts
			cp.RemainingParts = &r
		}
		snap.lots[k] = cp
	}
	for k, v := range s.invoices {
		snap.invoices[k] = *v
	}
	for k, v := range s.items {
		snap.items[k] = *v
	}
	for k, v := range s.debts {
		snap.debts[k] = *v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.lots = map[string]*entity.StockLot{}
	for k, v := range snap.lots {
		cp := v
		s.lots[k] = &cp
	}
	s.invoices = map[string]*entity.SaleInvoice{}
	for k, v := range snap.invoices {
		cp := v
		s.invoices[k] = &cp
	}
	s.items = map[string]*entity.SaleInvoiceItem{}
	for k, v := range snap.items {
		cp := v
		s.items[k] = &cp
	}
	s.debts = map[string]*entity.CustomerDebt{}
	for k, v := range snap.debts {
		cp := v
		s.debts[k] = &cp
	}
}

// StockLotRepository. Como el adaptador real, cada lectura devuelve un struct
// nuevo escaneado de la fila: dos lecturas del mismo lote no comparten memoria.

func copyLot(lot *entity.StockLot) *entity.StockLot {
	if lot == nil {
		return nil
	}
	cp := *lot
	if lot.RemainingParts != nil {
		r := *lot.RemainingParts
		cp.RemainingParts = &r
	}
	return &cp
}

func (s *memStore) GetByID(id string) (*entity.StockLot, error)      { return copyLot(s.lots[id]), nil }
func (s *memStore) GetForUpdate(id string) (*entity.StockLot, error) { return copyLot(s.lots[id]), nil }
func (s *memStore) Update(lot *entity.StockLot) error {
	s.lots[lot.ID] = copyLot(lot)
	return nil
}

// SaleInvoiceRepository (métodos con nombre propio para no chocar con los de lote)

type invoiceRepo struct{ s *memStore }

func (r invoiceRepo) Create(inv *entity.SaleInvoice) error {
	r.s.invoices[inv.ID] = inv
	return nil
}
func (r invoiceRepo) CreateItem(it *entity.SaleInvoiceItem) error {
	r.s.items[it.ID] = it
	return nil
}
func (r invoiceRepo) GetByID(id string) (*entity.SaleInvoice, error)      { return r.s.invoices[id], nil }
func (r invoiceRepo) GetForUpdate(id string) (*entity.SaleInvoice, error) { return r.s.invoices[id], nil }
func (r invoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.SaleInvoiceItem, error) {
	var out []*entity.SaleInvoiceItem
	for _, it := range r.s.items {
		if it.InvoiceID == invoiceID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (r invoiceRepo) Update(inv *entity.SaleInvoice) error {
	r.s.invoices[inv.ID] = inv
	return nil
}
func (r invoiceRepo) UpdateItem(it *entity.SaleInvoiceItem) error {
	r.s.items[it.ID] = it
	return nil
}

// CustomerRepository

type customerRepo struct{ s *memStore }

func (r customerRepo) Create(c *entity.Customer) error {
	r.s.customers[c.ID] = c
	return nil
}
func (r customerRepo) GetByID(id string) (*entity.Customer, error) { return r.s.customers[id], nil }
func (r customerRepo) ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.s.customers {
		if c.PharmacyID == pharmacyID {
			out = append(out, c)
		}
	}
	return out, nil
}
func (r customerRepo) GetOrCreateCashCustomer(pharmacyID string) (*entity.Customer, error) {
	for _, c := range r.s.customers {
		if c.PharmacyID == pharmacyID && c.IsCashCustomer {
			return c, nil
		}
	}
	c := &entity.Customer{ID: "cash-" + pharmacyID, PharmacyID: pharmacyID, Name: "Cliente de mostrador", IsCashCustomer: true}
	r.s.customers[c.ID] = c
	return c, nil
}

// CustomerDebtRepository

type debtRepo struct{ s *memStore }

func (r debtRepo) Create(d *entity.CustomerDebt) error {
	r.s.debts[d.ID] = d
	return nil
}
func (r debtRepo) Update(d *entity.CustomerDebt) error {
	r.s.debts[d.ID] = d
	return nil
}
func (r debtRepo) GetByID(id string) (*entity.CustomerDebt, error)          { return r.s.debts[id], nil }
func (r debtRepo) GetByIDForUpdate(id string) (*entity.CustomerDebt, error) { return r.s.debts[id], nil }
func (r debtRepo) ListActiveByCustomerForUpdate(customerID string) ([]*entity.CustomerDebt, error) {
	var out []*entity.CustomerDebt
	for _, d := range r.s.debts {
		if d.CustomerID == customerID && d.Status == entity.DebtStatusActive {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
func (r debtRepo) GetActiveByInvoice(invoiceID string) (*entity.CustomerDebt, error) {
	for _, d := range r.s.debts {
		if d.InvoiceID == invoiceID && d.Status == entity.DebtStatusActive {
			return d, nil
		}
	}
	return nil, nil
}
func (r debtRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.CustomerDebt, error) {
	var out []*entity.CustomerDebt
	for _, d := range r.s.debts {
		if d.CustomerID == customerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
func (r debtRepo) SumActiveByCustomer(customerID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, d := range r.s.debts {
		if d.CustomerID == customerID && d.Status == entity.DebtStatusActive {
			sum = sum.Add(d.RemainingAmount)
		}
	}
	return sum, nil
}

// Colaboradores best-effort

type fakeCatalog struct {
	prices map[string]decimal.Decimal
}

func (f fakeCatalog) ProductName(productID, productType string) (string, error) {
	return "Producto " + productID, nil
}
func (f fakeCatalog) SellingPrice(productID, productType string) (decimal.Decimal, error) {
	p, ok := f.prices[productID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	return p, nil
}
type fakeCash struct {
	payments []decimal.Decimal
	refunds  []decimal.Decimal
	fail     bool
}

func (f *fakeCash) RecordPayment(_ context.Context, _, _ string, amount decimal.Decimal, _ string) error {
	if f.fail {
		return errLedgerDown
	}
	f.payments = append(f.payments, amount)
	return nil
}
func (f *fakeCash) RecordRefund(_ context.Context, _, _ string, amount decimal.Decimal, _ string) error {
	if f.fail {
		return errLedgerDown
	}
	f.refunds = append(f.refunds, amount)
	return nil
}

var errLedgerDown = errors.New("caja no disponible")

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(_ context.Context, _, _, _, notifType string, _ map[string]string) error {
	f.sent = append(f.sent, notifType)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testPharmacy = "ph-1"
	testUser     = "user-1"
)

type saleFixture struct {
	store    *memStore
	engine   *sale.Engine
	cash     *fakeCash
	notifier *fakeNotifier
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	store := newMemStore()
	cash := &fakeCash{}
	notifier := &fakeNotifier{}
	catalog := fakeCatalog{prices: map[string]decimal.Decimal{
		"prod-1": decimal.NewFromInt(50),
		"prod-2": decimal.NewFromInt(20),
	}}
	rates := currency.NewNormalizer("SYP", fakeRates{"USD": decimal.NewFromInt(100)})
	engine := sale.NewEngine(store, customerRepo{store}, invoiceRepo{store}, rates, catalog, cash, notifier, logger.Nop())
	return &saleFixture{store: store, engine: engine, cash: cash, notifier: notifier}
}

type fakeRates map[string]decimal.Decimal

func (f fakeRates) RateToBase(cur string) (decimal.Decimal, error) {
	r, ok := f[cur]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	return r, nil
}

func i64(v int64) *int64 { return &v }

func (f *saleFixture) addLot(id, productID string, qty int64, ppb, remaining *int64) {
	f.store.lots[id] = &entity.StockLot{
		ID:                  id,
		PharmacyID:          testPharmacy,
		ProductID:           productID,
		ProductType:         entity.ProductTypeMedicine,
		Quantity:            qty,
		NumberOfPartsPerBox: ppb,
		RemainingParts:      remaining,
		ExpiryDate:          time.Now().AddDate(1, 0, 0),
	}
}

func (f *saleFixture) addCustomer(id string, debtLimit *decimal.Decimal) {
	f.store.customers[id] = &entity.Customer{
		ID:         id,
		PharmacyID: testPharmacy,
		Name:       "Cliente " + id,
		DebtLimit:  debtLimit,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSaleCash(t *testing.T) {
	t.Run("venta CASH sin pagado asume el total y queda FULLY_PAID", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 10, nil, nil)

		resp, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			PaymentType:   entity.PaymentTypeCash,
			PaymentMethod: entity.PaymentMethodCash,
			Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Quantity: 2}},
		})
		require.NoError(t, err)

		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(100)), "2 cajas x 50")
		assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(100)))
		assert.True(t, resp.RemainingAmount.IsZero())
		assert.Equal(t, entity.PaymentStatusFullyPaid, resp.PaymentStatus)
		assert.Equal(t, entity.RefundStatusNone, resp.RefundStatus)

		// Stock descontado y pago en caja por el monto recibido
		assert.Equal(t, int64(8), f.store.lots["lot-1"].Quantity)
		require.Len(t, f.cash.payments, 1)
		assert.True(t, f.cash.payments[0].Equal(decimal.NewFromInt(100)))

		// Cliente de mostrador: sin deuda
		assert.Empty(t, f.store.debts)
		cust := f.store.customers[resp.CustomerID]
		require.NotNil(t, cust)
		assert.True(t, cust.IsCashCustomer)
	})

	t.Run("suma de subtotales menos descuento es el total", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 10, nil, nil)
		f.addLot("lot-2", "prod-2", 10, nil, nil)

		resp, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			PaymentType:   entity.PaymentTypeCash,
			PaymentMethod: entity.PaymentMethodCard,
			DiscountType:  "PERCENTAGE",
			DiscountValue: decimal.NewFromInt(10),
			Items: []dto.SaleItemRequest{
				{StockLotID: "lot-1", Quantity: 1}, // 50
				{StockLotID: "lot-2", Quantity: 3}, // 60
			},
		})
		require.NoError(t, err)

		subTotals := decimal.Zero
		for _, it := range resp.Items {
			subTotals = subTotals.Add(it.SubTotal)
		}
		assert.True(t, subTotals.Equal(decimal.NewFromInt(110)))
		assert.True(t, resp.DiscountAmount.Equal(decimal.NewFromInt(11)))
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(99)))
		// Pago con tarjeta no pasa por la caja
		assert.Empty(t, f.cash.payments)
	})

	t.Run("venta por partes factura el precio de las partes", func(t *testing.T) {
		f := newSaleFixture(t)
		// ppb=10, caja abierta con 4: vender 6 partes consume 1 caja y arrastra a 8
		f.addLot("lot-1", "prod-1", 3, i64(10), i64(4))
		partsPrice := decimal.NewFromInt(30)

		resp, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			PaymentType:   entity.PaymentTypeCash,
			PaymentMethod: entity.PaymentMethodCash,
			Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Parts: 6, UnitPrice: &partsPrice}},
		})
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		item := resp.Items[0]
		assert.Equal(t, int64(1), item.Quantity, "cajas consumidas")
		assert.Equal(t, int64(6), item.PartsSold)
		assert.True(t, item.SubTotal.Equal(partsPrice), "subtotal = precio unitario, no por caja")

		lot := f.store.lots["lot-1"]
		assert.Equal(t, int64(2), lot.Quantity)
		require.NotNil(t, lot.RemainingParts)
		assert.Equal(t, int64(8), *lot.RemainingParts)
	})

	t.Run("stock insuficiente falla con conteos y sin mutar nada", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 2, nil, nil)

		_, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			PaymentType:   entity.PaymentTypeCash,
			PaymentMethod: entity.PaymentMethodCash,
			Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Quantity: 3}},
		})
		require.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "disponibles 2")
		assert.Contains(t, err.Error(), "solicitadas 3")

		assert.Equal(t, int64(2), f.store.lots["lot-1"].Quantity)
		assert.Empty(t, f.store.invoices)
		assert.Empty(t, f.store.items)
		assert.Empty(t, f.cash.payments)
	})

	t.Run("el mismo lote en dos líneas acumula las deducciones", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 5, nil, nil)

		resp, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			PaymentType:   entity.PaymentTypeCash,
			PaymentMethod: entity.PaymentMethodCash,
			Items: []dto.SaleItemRequest{
				{StockLotID: "lot-1", Quantity: 2},
				{StockLotID: "lot-1", Quantity: 1},
			},
		})
		require.NoError(t, err)

		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(150)), "3 cajas x 50")
		assert.Equal(t, int64(2), f.store.lots["lot-1"].Quantity, "se descuentan las 3 cajas, no solo la última línea")
	})

	t.Run("el mismo lote repetido no puede exceder el stock entre líneas", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 3, nil, nil)

		_, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			PaymentType:   entity.PaymentTypeCash,
			PaymentMethod: entity.PaymentMethodCash,
			Items: []dto.SaleItemRequest{
				{StockLotID: "lot-1", Quantity: 2},
				{StockLotID: "lot-1", Quantity: 2},
			},
		})
		require.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, int64(3), f.store.lots["lot-1"].Quantity)
		assert.Empty(t, f.store.invoices)
	})

	t.Run("lotes faltantes se reportan todos juntos", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 5, nil, nil)

		_, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			PaymentType:   entity.PaymentTypeCash,
			PaymentMethod: entity.PaymentMethodCash,
			Items: []dto.SaleItemRequest{
				{StockLotID: "lot-1", Quantity: 1},
				{StockLotID: "ghost-1", Quantity: 1},
				{StockLotID: "ghost-2", Quantity: 1},
			},
		})
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "ghost-1")
		assert.Contains(t, err.Error(), "ghost-2")
	})

	t.Run("lote vencido rechaza la venta", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 5, nil, nil)
		f.store.lots["lot-1"].ExpiryDate = time.Now().AddDate(0, 0, -1)

		_, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			PaymentType:   entity.PaymentTypeCash,
			PaymentMethod: entity.PaymentMethodCash,
			Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrExpiredProduct)
		assert.Equal(t, int64(5), f.store.lots["lot-1"].Quantity)
	})

	t.Run("CASH con método ON_ACCOUNT es conflicto", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 5, nil, nil)

		_, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			PaymentType:   entity.PaymentTypeCash,
			PaymentMethod: entity.PaymentMethodOnAccount,
			Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("fallo de caja degrada a warning sin revertir la venta", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 5, nil, nil)
		f.cash.fail = true

		resp, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			PaymentType:   entity.PaymentTypeCash,
			PaymentMethod: entity.PaymentMethodCash,
			Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Quantity: 1}},
		})
		require.NoError(t, err)
		require.Len(t, resp.Warnings, 1)
		assert.Equal(t, dto.WarnCashLedger, resp.Warnings[0].Code)
		assert.Len(t, f.store.invoices, 1, "la venta quedó confirmada")
	})
}

func TestCreateSaleCredit(t *testing.T) {
	t.Run("CREDIT sin cliente es conflicto", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 5, nil, nil)

		_, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			PaymentType:   entity.PaymentTypeCredit,
			PaymentMethod: entity.PaymentMethodOnAccount,
			Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("CREDIT con saldo crea deuda por el restante", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 5, nil, nil)
		f.addCustomer("cust-1", nil)
		paid := decimal.NewFromInt(40)

		resp, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			CustomerID:    "cust-1",
			PaymentType:   entity.PaymentTypeCredit,
			PaymentMethod: entity.PaymentMethodCash,
			PaidAmount:    &paid,
			Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Quantity: 2}}, // 100
		})
		require.NoError(t, err)

		assert.True(t, resp.RemainingAmount.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, entity.PaymentStatusPartiallyPaid, resp.PaymentStatus)

		require.Len(t, f.store.debts, 1)
		for _, d := range f.store.debts {
			assert.Equal(t, "cust-1", d.CustomerID)
			assert.Equal(t, resp.ID, d.InvoiceID)
			assert.True(t, d.RemainingAmount.Equal(decimal.NewFromInt(60)))
			assert.Equal(t, entity.DebtStatusActive, d.Status)
		}

		// A la caja solo entra el abono recibido en efectivo
		require.Len(t, f.cash.payments, 1)
		assert.True(t, f.cash.payments[0].Equal(paid))
	})

	t.Run("CREDIT pagado completo no crea deuda", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 5, nil, nil)
		f.addCustomer("cust-1", nil)
		paid := decimal.NewFromInt(50)

		resp, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			CustomerID:    "cust-1",
			PaymentType:   entity.PaymentTypeCredit,
			PaymentMethod: entity.PaymentMethodCash,
			PaidAmount:    &paid,
			Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentStatusFullyPaid, resp.PaymentStatus)
		assert.Empty(t, f.store.debts)
	})

	t.Run("exceder el límite de crédito avisa y notifica sin bloquear", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 10, nil, nil)
		limit := decimal.NewFromInt(80)
		f.addCustomer("cust-1", &limit)

		resp, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			CustomerID:    "cust-1",
			PaymentType:   entity.PaymentTypeCredit,
			PaymentMethod: entity.PaymentMethodOnAccount,
			Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Quantity: 2}}, // deuda 100 > límite 80
		})
		require.NoError(t, err, "el límite avisa, no bloquea")

		var codes []string
		for _, w := range resp.Warnings {
			codes = append(codes, w.Code)
		}
		assert.Contains(t, codes, dto.WarnDebtLimit)
		assert.Contains(t, f.notifier.sent, sale.NotifTypePurchaseLimit)
	})

	t.Run("montos en otra moneda se normalizan a base", func(t *testing.T) {
		f := newSaleFixture(t)
		f.addLot("lot-1", "prod-1", 5, nil, nil)
		f.addCustomer("cust-1", nil)
		// 1 USD = 100 SYP; precio unitario 1 USD, abono 0.5 USD
		unit := decimal.NewFromInt(1)
		paid := decimal.NewFromFloat(0.5)

		resp, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
			CustomerID:    "cust-1",
			PaymentType:   entity.PaymentTypeCredit,
			PaymentMethod: entity.PaymentMethodCash,
			Currency:      "USD",
			PaidAmount:    &paid,
			Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Quantity: 1, UnitPrice: &unit}},
		})
		require.NoError(t, err)

		assert.Equal(t, "SYP", resp.Currency)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(100)), "1 USD -> 100 SYP")
		assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(50)))
		require.NotNil(t, resp.TotalInCurrency)
		assert.True(t, resp.TotalInCurrency.Equal(decimal.NewFromInt(1)), "total convertido de vuelta")
	})
}

func TestGetSale(t *testing.T) {
	f := newSaleFixture(t)
	f.addLot("lot-1", "prod-1", 5, nil, nil)

	created, err := f.engine.CreateSale(context.Background(), testPharmacy, testUser, dto.CreateSaleRequest{
		PaymentType:   entity.PaymentTypeCash,
		PaymentMethod: entity.PaymentMethodCash,
		Items:         []dto.SaleItemRequest{{StockLotID: "lot-1", Quantity: 1}},
	})
	require.NoError(t, err)

	t.Run("devuelve la factura con líneas", func(t *testing.T) {
		got, err := f.engine.GetSale(context.Background(), testPharmacy, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Len(t, got.Items, 1)
	})

	t.Run("otra farmacia no accede", func(t *testing.T) {
		_, err := f.engine.GetSale(context.Background(), "ph-otra", created.ID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("factura inexistente", func(t *testing.T) {
		_, err := f.engine.GetSale(context.Background(), testPharmacy, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
