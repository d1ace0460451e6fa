package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gascontrol-api/internal/application/dto"
	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/internal/domain"
)

// ReportService es lo que el handler necesita del motor de conciliación.
type ReportService interface {
	DailyReport(ctx context.Context, day time.Time) (*dto.DailyStockReport, error)
	ReconcileProduct(ctx context.Context, day time.Time, productKey string) (*reconciliation.ProductResult, error)
}

// ReportHandler maneja las peticiones HTTP del reporte diario de stock (protegido).
type ReportHandler struct {
	svc ReportService
	loc *time.Location
}

// NewReportHandler construye el handler. loc es la zona horaria del negocio
// para interpretar el parámetro date y el "hoy" por defecto.
func NewReportHandler(svc ReportService, loc *time.Location) *ReportHandler {
	return &ReportHandler{svc: svc, loc: loc}
}

// parseDay interpreta ?date=YYYY-MM-DD en la zona del negocio; sin parámetro
// es el día calendario de hoy.
func (h *ReportHandler) parseDay(c *fiber.Ctx) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now().In(h.loc), nil
	}
	return time.ParseInLocation("2006-01-02", raw, h.loc)
}

// GetDailyStock godoc
// @Summary      Reporte diario de stock
// @Description  Recomputa y devuelve el estado diario de todos los cilindros
//
//	(apertura, movimientos, cierre) más la fila de gran total. Abrir el
//	reporte ya persiste los registros del día.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Día calendario YYYY-MM-DD (defecto: hoy)"
// @Success      200  {object}  dto.DailyStockReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/daily-stock [get]
func (h *ReportHandler) GetDailyStock(c *fiber.Ctx) error {
	day, err := h.parseDay(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	report, err := h.svc.DailyReport(c.Context(), day)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(report)
}

// SaveDailyStock godoc
// @Summary      Guardado manual del reporte diario
// @Description  Corre la misma rutina de conciliación del corte diario para la
//
//	fecha indicada y devuelve el reporte resultante. Repetir el guardado con
//	los mismos eventos no cambia nada (idempotente).
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Día calendario YYYY-MM-DD (defecto: hoy)"
// @Success      200  {object}  dto.DailyStockReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/daily-stock/save [post]
func (h *ReportHandler) SaveDailyStock(c *fiber.Ctx) error {
	day, err := h.parseDay(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	report, err := h.svc.DailyReport(c.Context(), day)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(report)
}

// RecomputeProduct godoc
// @Summary      Reconciliar un solo producto
// @Description  Recomputa el registro de (fecha, producto), útil tras corregir
//
//	eventos registrados tarde sin tocar el resto del día.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date         query  string  false  "Día calendario YYYY-MM-DD (defecto: hoy)"
// @Param        product_key  query  string  true   "Clave del producto"
// @Success      200  {object}  dto.DailyStockRow
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/daily-stock/recompute [post]
func (h *ReportHandler) RecomputeProduct(c *fiber.Ctx) error {
	day, err := h.parseDay(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	productKey := c.Query("product_key")
	if productKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_key requerido"})
	}
	res, err := h.svc.ReconcileProduct(c.Context(), day, productKey)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"record":   res.Record,
		"warnings": res.Warnings,
		"partial":  res.Partial,
	})
}

func (h *ReportHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnknownProductKey):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_PRODUCT_KEY", Message: "producto no rastreado"})
	case errors.Is(err, domain.ErrPersistenceFailure):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "no se pudo guardar el registro; reintentar"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
