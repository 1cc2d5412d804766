package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-pos/internal/application/sale"
	"github.com/tu-usuario/pharma-pos/internal/domain"
)

var _ sale.CatalogLookup = (*CatalogRepo)(nil)

// CatalogRepo consulta la vista mínima del catálogo que necesita el motor de
// ventas (nombre y precio de venta por producto y tipo). La gestión del
// catálogo es responsabilidad de otro servicio; acá solo se lee.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador de catálogo. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// ProductName devuelve el nombre comercial del producto.
func (r *CatalogRepo) ProductName(productID, productType string) (string, error) {
	query := `SELECT name FROM catalog_items WHERE product_id = $1 AND product_type = $2`
	var name string
	if err := r.q.QueryRow(context.Background(), query, productID, productType).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get product name: %w", err)
	}
	return name, nil
}

// SellingPrice devuelve el precio de venta del producto en moneda base.
func (r *CatalogRepo) SellingPrice(productID, productType string) (decimal.Decimal, error) {
	query := `SELECT selling_price FROM catalog_items WHERE product_id = $1 AND product_type = $2`
	var price decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, productID, productType).Scan(&price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("get selling price: %w", err)
	}
	return price, nil
}
