package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/pkg/logger"
)

type fakeReconciler struct {
	calls []time.Time
}

func (f *fakeReconciler) ReconcileDay(_ context.Context, day time.Time) ([]*reconciliation.ProductResult, error) {
	f.calls = append(f.calls, day)
	return nil, nil
}

// A lo sumo un disparo por ventana: un segundo tick dentro del mismo día
// calendario (reinicio, anomalía de reloj) no vuelve a correr el corte.
func TestRunAt_UnDisparoPorVentana(t *testing.T) {
	loc, _ := time.LoadLocation("America/Bogota")
	rec := &fakeReconciler{}
	s := NewCutoffScheduler(rec, loc, 21, logger.Nop())

	corte := time.Date(2025, time.March, 10, 21, 0, 0, 0, loc)

	assert.True(t, s.runAt(corte))
	assert.False(t, s.runAt(corte.Add(30*time.Second)), "mismo día: se omite")
	assert.False(t, s.runAt(corte.Add(2*time.Hour)), "mismo día: se omite")
	assert.Len(t, rec.calls, 1)

	// El día siguiente abre una ventana nueva.
	assert.True(t, s.runAt(corte.AddDate(0, 0, 1)))
	assert.Len(t, rec.calls, 2)
}

// La ventana se marca en la zona del negocio, no en UTC: las 21:00 de Bogotá
// del día D son las 02:00 UTC de D+1 y aun así cuentan como ventana D.
func TestRunAt_VentanaEnZonaDelNegocio(t *testing.T) {
	loc, _ := time.LoadLocation("America/Bogota")
	rec := &fakeReconciler{}
	s := NewCutoffScheduler(rec, loc, 21, logger.Nop())

	// 2025-03-11 02:00 UTC == 2025-03-10 21:00 en Bogotá.
	enUTC := time.Date(2025, time.March, 11, 2, 0, 0, 0, time.UTC)
	assert.True(t, s.runAt(enUTC))

	// El mismo instante expresado en hora local no reabre la ventana.
	assert.False(t, s.runAt(enUTC.In(loc)))
	assert.Len(t, rec.calls, 1)
}
