package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pharma-pos/internal/application/auth"
	"github.com/tu-usuario/pharma-pos/internal/application/debt"
	"github.com/tu-usuario/pharma-pos/internal/application/receipt"
	"github.com/tu-usuario/pharma-pos/internal/application/refund"
	"github.com/tu-usuario/pharma-pos/internal/application/sale"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaleEngine   *sale.Engine
	RefundEngine *refund.Engine
	DebtUC       *debt.UseCase
	CustomerUC   *sale.CustomerUseCase
	ReceiptUC    *receipt.UseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Observabilidad (público)
	app.Get("/metrics", MetricsHandler())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)

	// Sales (protegido)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleEngine, deps.ReceiptUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/receipt", saleHandler.DownloadReceipt)

	// Refunds (protegido, anidado bajo la venta; el cajero no devuelve)
	refundHandler := NewRefundHandler(deps.RefundEngine)
	sales.Post("/:id/refunds", RequireRole(entity.RoleAdmin, entity.RolePharmacist), refundHandler.Process)

	// Debts (protegido)
	debtHandler := NewDebtHandler(deps.DebtUC)
	debts := protected.Group("/debts")
	debts.Post("/:id/payments", debtHandler.Pay)
	customers.Get("/:id/debts", debtHandler.ListByCustomer)
}
