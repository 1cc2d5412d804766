package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/pharma-pos/internal/application/auth"
	"github.com/tu-usuario/pharma-pos/internal/application/currency"
	"github.com/tu-usuario/pharma-pos/internal/application/debt"
	"github.com/tu-usuario/pharma-pos/internal/application/receipt"
	"github.com/tu-usuario/pharma-pos/internal/application/refund"
	"github.com/tu-usuario/pharma-pos/internal/application/sale"
	"github.com/tu-usuario/pharma-pos/internal/infrastructure/notification"
	infrapdf "github.com/tu-usuario/pharma-pos/internal/infrastructure/pdf"
	"github.com/tu-usuario/pharma-pos/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/pharma-pos/internal/interfaces/http"
	"github.com/tu-usuario/pharma-pos/pkg/config"
	"github.com/tu-usuario/pharma-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("base_currency", cfg.Currency.Base).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	pharmacyRepo := postgres.NewPharmacyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewSaleInvoiceRepository(pool)
	debtRepo := postgres.NewCustomerDebtRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	cashLedger := postgres.NewCashLedger(pool)

	rateProvider := postgres.NewExchangeRateProvider(pool)
	rates := currency.NewNormalizer(cfg.Currency.Base, rateProvider)

	notifier := notification.NewFCMSink(cfg.Notify, log)

	saleEngine := sale.NewEngine(txRunner, customerRepo, invoiceRepo, rates, catalogRepo, cashLedger, notifier, log)
	refundEngine := refund.NewEngine(txRunner, rates, cashLedger, notifier, log)
	debtUC := debt.NewUseCase(txRunner, debtRepo, rates, cashLedger, notifier, log)
	customerUC := sale.NewCustomerUseCase(customerRepo)

	// PDF: comprobante de venta imprimible
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	receiptUC := receipt.NewUseCase(invoiceRepo, pharmacyRepo, customerRepo, catalogRepo, receiptGenerator)

	authUC := auth.NewAuthUseCase(userRepo, pharmacyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaleEngine:   saleEngine,
		RefundEngine: refundEngine,
		DebtUC:       debtUC,
		CustomerUC:   customerUC,
		ReceiptUC:    receiptUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
