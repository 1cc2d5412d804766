// Package pdf implementa la generación del comprobante de venta de la
// farmacia.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Farmacia + contacto  │  N° Comprobante + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + teléfono                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cajas | Partes | Producto | P.Unit | Subtotal        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Descuento / TOTAL / Pagado / Saldo                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: forma de pago + leyenda                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/pharma-pos/internal/application/receipt"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
)

var _ receipt.PDFGenerator = (*MarotoReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 16, Green: 98, Blue: 70}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa receipt.PDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceiptPDF genera el comprobante y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(
	_ context.Context,
	invoice *entity.SaleInvoice,
	items []*entity.SaleInvoiceItem,
	pharmacy *entity.Pharmacy,
	customer *entity.Customer,
	productNames map[string]string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(pharmacy.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, pharmacy))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de líneas
	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items, productNames) {
		m.AddRows(r)
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))

	// Footer
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(invoice)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: farmacia (izq) y n° de comprobante + fecha (der).
func headerRow(invoice *entity.SaleInvoice, pharmacy *entity.Pharmacy) core.Row {
	fecha := invoice.CreatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(pharmacy.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Tel: %s",
				nonEmpty(pharmacy.Address, "—"),
				nonEmpty(pharmacy.Phone, "—"),
			), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(invoice.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente. El cliente de mostrador se imprime genérico.
func customerRow(customer *entity.Customer) core.Row {
	name := "Cliente de mostrador"
	phone := "—"
	if customer != nil && !customer.IsCashCustomer {
		name = customer.Name
		phone = nonEmpty(customer.Phone, "—")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Tel: %s", name, phone),
				props.Text{Size: 9, Top: 7}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cajas", 1, align.Center),
		h("Partes", 1, align.Center),
		h("Producto", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableItemRows: una fila por línea de la factura.
func tableItemRows(items []*entity.SaleInvoiceItem, productNames map[string]string) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		parts := "—"
		if it.PartsSold > 0 {
			parts = fmt.Sprintf("%d", it.PartsSold)
		}
		name := productNames[it.ProductID]
		if name == "" {
			name = it.ProductID
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				parts,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				it.SubTotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(invoice *entity.SaleInvoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	cur := " " + invoice.Currency

	return row.New(34).Add(
		col.New(3),
		col.New(4).Add(
			label("Descuento:"),
			grandLabel("TOTAL:"),
			label("Pagado:"),
			label("Saldo pendiente:"),
		),
		col.New(4).Add(
			value(invoice.DiscountAmount.StringFixed(2)+cur),
			grandValue(invoice.TotalAmount.StringFixed(2)+cur),
			value(invoice.PaidAmount.StringFixed(2)+cur),
			value(invoice.RemainingAmount.StringFixed(2)+cur),
		),
		col.New(1),
	)
}

// footerRows: forma de pago + leyenda.
func footerRows(invoice *entity.SaleInvoice) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Forma de pago: %s (%s)", invoice.PaymentType, invoice.PaymentMethod),
				props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
		row.New(8).Add(col.New(12).Add(
			text.New(
				"Gracias por su compra. Las devoluciones se reciben únicamente con "+
					"este comprobante y por cajas completas sin abrir.",
				props.Text{Size: 6.5, Color: colorGray, Top: 2},
			),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID acorta un UUID a su primer bloque para imprimirlo como número de
// comprobante legible.
func shortID(id string) string {
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}
