package entity

import "github.com/shopspring/decimal"

// CatalogItem es la vista mínima del catálogo que necesita el motor de
// ventas: nombre y precio de venta (en moneda base) por producto y tipo.
// La gestión del catálogo es un colaborador externo a este núcleo.
type CatalogItem struct {
	ProductID    string
	ProductType  string
	Name         string
	SellingPrice decimal.Decimal
}
