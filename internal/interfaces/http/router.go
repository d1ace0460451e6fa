package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReportSvc ReportService
	Location  *time.Location
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Reporte diario de stock (protegido, RBAC por rol)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportSvc, deps.Location)
	reports.Get("/daily-stock", RequireRole("admin", "bodeguero", "reportes"), reportHandler.GetDailyStock)
	reports.Post("/daily-stock/save", RequireRole("admin", "bodeguero"), reportHandler.SaveDailyStock)
	reports.Post("/daily-stock/recompute", RequireRole("admin", "bodeguero"), reportHandler.RecomputeProduct)
}
