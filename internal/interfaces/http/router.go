package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC       *stock.StockUseCase
	ReservationUC *stock.ReservationUseCase
	ProductionUC  *stock.ProductionUseCase
	SaleUC        *stock.SaleUseCase
	AlertsUC      *stock.AlertsUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Todas las rutas del motor de stock
// requieren Bearer Token: el company_id del token es el contexto de negocio
// que los handlers pasan explícito a cada operación.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stock: niveles, mutadores primitivos e historial
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Get("/", stockHandler.ListLevels)
	stockGroup.Get("/level", stockHandler.GetLevel)
	stockGroup.Get("/history", stockHandler.GetHistory)
	stockGroup.Get("/history/:id", stockHandler.GetTransaction)
	stockGroup.Post("/add", stockHandler.AddStock)
	stockGroup.Post("/deduct", stockHandler.DeductStock)

	// Reservas
	reservations := protected.Group("/reservations")
	reservationHandler := NewReservationHandler(deps.ReservationUC)
	reservations.Post("/", reservationHandler.Reserve)
	reservations.Post("/release", reservationHandler.Release)
	reservations.Put("/", reservationHandler.Update)

	// Lotes de producción
	production := protected.Group("/production")
	productionHandler := NewProductionHandler(deps.ProductionUC)
	production.Post("/allocate", productionHandler.Allocate)
	production.Post("/complete", productionHandler.Complete)
	production.Post("/cancel", productionHandler.Cancel)

	// Ventas
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.ProcessSale)

	// Alertas de stock bajo
	alerts := protected.Group("/alerts")
	alertsHandler := NewAlertsHandler(deps.AlertsUC)
	alerts.Get("/low-stock", alertsHandler.LowStock)
	alerts.Get("/low-stock/report", alertsHandler.LowStockReport)
}
