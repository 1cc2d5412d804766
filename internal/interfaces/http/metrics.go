package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Contadores de negocio expuestos en /metrics.
var (
	salesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_created_total",
		Help: "Total de ventas creadas",
	})
	refundsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refunds_processed_total",
		Help: "Total de devoluciones procesadas",
	})
	cashPayoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cash_payouts_total",
		Help: "Total de devoluciones con salida de caja",
	})
	debtPaymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "debt_payments_total",
		Help: "Total de abonos directos sobre deudas",
	})
)

// MetricsHandler expone el registry de Prometheus adaptado a Fiber.
// GET /metrics
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
