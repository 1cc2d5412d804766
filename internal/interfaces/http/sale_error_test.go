package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pharma-pos/internal/application/dto"
	"github.com/tu-usuario/pharma-pos/internal/domain"
)

func TestSaleErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"entrada inválida", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"stock insuficiente es 400", fmt.Errorf("%w: disponibles 2, solicitadas 3", domain.ErrInsufficientStock), fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"producto vencido es 400", fmt.Errorf("%w: lote l1", domain.ErrExpiredProduct), fiber.StatusBadRequest, "EXPIRED_PRODUCT"},
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"no autorizado", domain.ErrUnauthorized, fiber.StatusForbidden, "FORBIDDEN"},
		{"ya devuelta", domain.ErrAlreadyRefunded, fiber.StatusConflict, "ALREADY_REFUNDED"},
		{"conflicto de negocio", domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{"error desconocido", fmt.Errorf("se cayó la base"), fiber.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", func(c *fiber.Ctx) error { return saleError(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}
