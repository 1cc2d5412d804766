package sale

import "github.com/tu-usuario/pharma-pos/internal/domain/entity"

// DeriveStatuses calcula los estados de pago y devolución de una factura a
// partir de sus saldos e ítems. Es el único punto de derivación: se invoca una
// vez después de cada mutación en lugar de recomputar inline en cada sitio.
func DeriveStatuses(inv *entity.SaleInvoice, items []*entity.SaleInvoiceItem) (paymentStatus, refundStatus string) {
	switch {
	case inv.RemainingAmount.IsZero():
		paymentStatus = entity.PaymentStatusFullyPaid
	case inv.PaidAmount.IsPositive():
		paymentStatus = entity.PaymentStatusPartiallyPaid
	default:
		paymentStatus = entity.PaymentStatusUnpaid
	}

	anyRefunded := false
	allRefunded := len(items) > 0
	for _, it := range items {
		if it.RefundedQuantity > 0 {
			anyRefunded = true
		}
		if it.RefundedQuantity < it.Quantity {
			allRefunded = false
		}
	}
	switch {
	case allRefunded && anyRefunded:
		refundStatus = entity.RefundStatusFully
	case anyRefunded:
		refundStatus = entity.RefundStatusPartially
	default:
		refundStatus = entity.RefundStatusNone
	}
	return paymentStatus, refundStatus
}
