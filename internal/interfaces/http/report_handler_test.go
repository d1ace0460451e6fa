package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gascontrol-api/internal/application/dto"
	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/internal/domain"
	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
	apphttp "github.com/jhoicas/gascontrol-api/internal/interfaces/http"
)

// fakeReportService devuelve respuestas fijas y registra las fechas pedidas.
type fakeReportService struct {
	report     *dto.DailyStockReport
	reportErr  error
	product    *reconciliation.ProductResult
	productErr error
	askedDays  []time.Time
}

func (f *fakeReportService) DailyReport(_ context.Context, day time.Time) (*dto.DailyStockReport, error) {
	f.askedDays = append(f.askedDays, day)
	return f.report, f.reportErr
}

func (f *fakeReportService) ReconcileProduct(_ context.Context, day time.Time, _ string) (*reconciliation.ProductResult, error) {
	f.askedDays = append(f.askedDays, day)
	return f.product, f.productErr
}

func buildReportApp(svc apphttp.ReportService) *fiber.App {
	app := fiber.New()
	loc, _ := time.LoadLocation("America/Bogota")
	apphttp.Router(app, apphttp.RouterDeps{
		ReportSvc: svc,
		Location:  loc,
		JWTSecret: testJWTSecret,
	})
	return app
}

func reportRequest(t *testing.T, app *fiber.App, method, target, role string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestGetDailyStock_DevuelveReporte(t *testing.T) {
	svc := &fakeReportService{report: &dto.DailyStockReport{
		Date:  "2025-03-10",
		Rows:  []dto.DailyStockRow{{ProductKey: "cilindro 20kg", ProductName: "Cilindro 20kg", ClosingFull: 40}},
		Total: dto.DailyStockRow{ProductName: "TOTAL", ClosingFull: 40},
	}}
	app := buildReportApp(svc)

	resp := reportRequest(t, app, http.MethodGet, "/api/reports/daily-stock?date=2025-03-10", "reportes")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.DailyStockReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2025-03-10", body.Date)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, 40, body.Rows[0].ClosingFull)
	assert.Equal(t, "TOTAL", body.Total.ProductName)

	// La fecha se interpretó en la zona del negocio.
	require.Len(t, svc.askedDays, 1)
	assert.Equal(t, "2025-03-10", svc.askedDays[0].Format("2006-01-02"))
}

func TestGetDailyStock_FechaInvalida(t *testing.T) {
	app := buildReportApp(&fakeReportService{})

	resp := reportRequest(t, app, http.MethodGet, "/api/reports/daily-stock?date=10-03-2025", "admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetDailyStock_SinFechaUsaHoy(t *testing.T) {
	svc := &fakeReportService{report: &dto.DailyStockReport{}}
	app := buildReportApp(svc)

	resp := reportRequest(t, app, http.MethodGet, "/api/reports/daily-stock", "admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, svc.askedDays, 1)
}

// El rol de solo lectura puede ver el reporte pero no guardarlo.
func TestSaveDailyStock_RolReportesBloqueado(t *testing.T) {
	app := buildReportApp(&fakeReportService{report: &dto.DailyStockReport{}})

	resp := reportRequest(t, app, http.MethodPost, "/api/reports/daily-stock/save?date=2025-03-10", "reportes")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSaveDailyStock_BodegueroGuarda(t *testing.T) {
	svc := &fakeReportService{report: &dto.DailyStockReport{Date: "2025-03-10"}}
	app := buildReportApp(svc)

	resp := reportRequest(t, app, http.MethodPost, "/api/reports/daily-stock/save?date=2025-03-10", "bodeguero")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRecomputeProduct_ProductoDesconocido(t *testing.T) {
	svc := &fakeReportService{productErr: domain.ErrUnknownProductKey}
	app := buildReportApp(svc)

	resp := reportRequest(t, app, http.MethodPost,
		"/api/reports/daily-stock/recompute?date=2025-03-10&product_key=nada", "admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecomputeProduct_SinProductKey(t *testing.T) {
	app := buildReportApp(&fakeReportService{})

	resp := reportRequest(t, app, http.MethodPost, "/api/reports/daily-stock/recompute?date=2025-03-10", "admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecomputeProduct_DevuelveRegistro(t *testing.T) {
	svc := &fakeReportService{product: &reconciliation.ProductResult{
		Record: &entity.StockLedgerRecord{
			ProductKey:  "cilindro 20kg",
			ClosingFull: 24,
		},
	}}
	app := buildReportApp(svc)

	resp := reportRequest(t, app, http.MethodPost,
		"/api/reports/daily-stock/recompute?date=2025-03-10&product_key=cilindro+20kg", "bodeguero")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "record")
}

func TestReportErrores_PersistenciaRetorna500(t *testing.T) {
	svc := &fakeReportService{reportErr: domain.ErrPersistenceFailure}
	app := buildReportApp(svc)

	resp := reportRequest(t, app, http.MethodGet, "/api/reports/daily-stock?date=2025-03-10", "admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
