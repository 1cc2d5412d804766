package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pharma-pos/internal/application/debt"
	"github.com/tu-usuario/pharma-pos/internal/application/dto"
)

// DebtHandler maneja las peticiones HTTP del libro de deudas (protegido).
type DebtHandler struct {
	uc *debt.UseCase
}

// NewDebtHandler construye el handler.
func NewDebtHandler(uc *debt.UseCase) *DebtHandler {
	return &DebtHandler{uc: uc}
}

// Pay registra un abono directo sobre una deuda.
// POST /api/debts/:id/payments
func (h *DebtHandler) Pay(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	userID := GetUserID(c)
	if pharmacyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	debtID := c.Params("id")
	if debtID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.PayDebtRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.PayDebt(c.Context(), pharmacyID, userID, debtID, in)
	if err != nil {
		return saleError(c, err)
	}
	debtPaymentsTotal.Inc()
	return c.JSON(out)
}

// ListByCustomer lista las deudas de un cliente (activas y pagadas).
// GET /api/customers/:id/debts
func (h *DebtHandler) ListByCustomer(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	customerID := c.Params("id")
	if customerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.ListCustomerDebts(c.Context(), pharmacyID, customerID, page)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}
