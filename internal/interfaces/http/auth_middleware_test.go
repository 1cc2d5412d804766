package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	apphttp "github.com/tu-usuario/pharma-pos/internal/interfaces/http"
	"github.com/tu-usuario/pharma-pos/pkg/jwt"
)

const testSecret = "secreto-de-test"

// buildTestApp monta una ruta protegida que devuelve los locals que dejó el
// middleware, y otra restringida por rol.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Use(apphttp.AuthMiddleware(testSecret))
	app.Get("/protegida", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":     apphttp.GetUserID(c),
			"pharmacy_id": apphttp.GetPharmacyID(c),
			"role":        apphttp.GetRole(c),
		})
	})
	app.Post("/solo-admin", apphttp.RequireRole(entity.RoleAdmin, entity.RolePharmacist), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "user-1", "ph-1", role, "pharma-pos", 60)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	app := buildTestApp()

	t.Run("sin header es 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protegida", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("formato sin Bearer es 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protegida", nil)
		req.Header.Set("Authorization", "Token abc123")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token firmado con otro secret es 401", func(t *testing.T) {
		token, err := jwt.Generate("otro-secret", "user-1", "ph-1", entity.RoleAdmin, "pharma-pos", 60)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protegida", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token expirado es 401", func(t *testing.T) {
		token, err := jwt.Generate(testSecret, "user-1", "ph-1", entity.RoleAdmin, "pharma-pos", -5)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protegida", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token válido pasa y deja los locals", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protegida", nil)
		req.Header.Set("Authorization", "Bearer "+tokenForRole(t, entity.RoleCashier))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestRequireRole(t *testing.T) {
	app := buildTestApp()

	cases := []struct {
		name string
		role string
		want int
	}{
		{"admin accede", entity.RoleAdmin, fiber.StatusOK},
		{"farmacéutico accede", entity.RolePharmacist, fiber.StatusOK},
		{"cajero es 403", entity.RoleCashier, fiber.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/solo-admin", nil)
			req.Header.Set("Authorization", "Bearer "+tokenForRole(t, tc.role))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
