package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pharma-pos/internal/application/dto"
	"github.com/tu-usuario/pharma-pos/internal/application/receipt"
	"github.com/tu-usuario/pharma-pos/internal/application/sale"
	"github.com/tu-usuario/pharma-pos/internal/domain"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	engine    *sale.Engine
	receiptUC *receipt.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(engine *sale.Engine, receiptUC *receipt.UseCase) *SaleHandler {
	return &SaleHandler{engine: engine, receiptUC: receiptUC}
}

// Create crea una venta: descuenta stock, factura y deuda en una transacción.
// POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	userID := GetUserID(c)
	if pharmacyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items es requerido"})
	}
	out, err := h.engine.CreateSale(c.Context(), pharmacyID, userID, in)
	if err != nil {
		return saleError(c, err)
	}
	salesCreatedTotal.Inc()
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene el detalle completo de una venta.
// GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.engine.GetSale(c.Context(), pharmacyID, id)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}

// DownloadReceipt genera y descarga el comprobante PDF de la venta.
// GET /api/sales/:id/receipt
func (h *SaleHandler) DownloadReceipt(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	pdfBytes, filename, err := h.receiptUC.DownloadReceiptPDF(c.Context(), pharmacyID, id)
	if err != nil {
		return saleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// saleError mapea errores de dominio a códigos HTTP.
func saleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	// Stock insuficiente y producto vencido son peticiones inválidas (el
	// cliente pidió algo que el estado actual no permite vender), no
	// conflictos de reglas de negocio.
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrExpiredProduct):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EXPIRED_PRODUCT", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrAlreadyRefunded):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_REFUNDED", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
