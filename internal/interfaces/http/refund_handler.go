package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pharma-pos/internal/application/dto"
	"github.com/tu-usuario/pharma-pos/internal/application/refund"
)

// RefundHandler maneja las peticiones HTTP de devoluciones (protegido).
type RefundHandler struct {
	engine *refund.Engine
}

// NewRefundHandler construye el handler.
func NewRefundHandler(engine *refund.Engine) *RefundHandler {
	return &RefundHandler{engine: engine}
}

// Process procesa una devolución sobre una venta: restaura stock y asigna el
// valor devuelto a deuda y/o caja.
// POST /api/sales/:id/refunds
func (h *RefundHandler) Process(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	userID := GetUserID(c)
	if pharmacyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	invoiceID := c.Params("id")
	if invoiceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.ProcessRefundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items es requerido"})
	}
	out, err := h.engine.ProcessRefund(c.Context(), pharmacyID, userID, invoiceID, in)
	if err != nil {
		return saleError(c, err)
	}
	refundsProcessedTotal.Inc()
	if out.CashPayout.IsPositive() {
		cashPayoutsTotal.Inc()
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
