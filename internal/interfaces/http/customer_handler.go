package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pharma-pos/internal/application/dto"
	"github.com/tu-usuario/pharma-pos/internal/application/sale"
)

// CustomerHandler maneja las peticiones HTTP de clientes (protegido).
type CustomerHandler struct {
	uc *sale.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *sale.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create crea un cliente de la farmacia.
// POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), pharmacyID, in)
	if err != nil {
		return saleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista los clientes de la farmacia.
// GET /api/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.List(c.Context(), pharmacyID, page)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}
