// Package scheduler dispara el corte diario desatendido del libro de stock.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/pkg/logger"
)

// DayReconciler es lo único que el corte necesita del servicio de conciliación.
type DayReconciler interface {
	ReconcileDay(ctx context.Context, day time.Time) ([]*reconciliation.ProductResult, error)
}

// CutoffScheduler corre la conciliación de fin de día a la hora de corte del
// negocio, en su zona horaria. El guard de ventana asegura a lo sumo un
// disparo por día calendario aunque el reloj o el cron se comporten raro
// (cambio de hora, reinicio del proceso dentro del mismo minuto).
type CutoffScheduler struct {
	cron       *cron.Cron
	svc        DayReconciler
	loc        *time.Location
	cutoffHour int
	log        *logger.Logger

	mu         sync.Mutex
	lastWindow string // día calendario YYYY-MM-DD del último disparo
}

// NewCutoffScheduler construye el scheduler. cutoffHour es hora local (0-23).
func NewCutoffScheduler(svc DayReconciler, loc *time.Location, cutoffHour int, log *logger.Logger) *CutoffScheduler {
	return &CutoffScheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		svc:        svc,
		loc:        loc,
		cutoffHour: cutoffHour,
		log:        log,
	}
}

// Start programa el corte diario y arranca el cron.
func (s *CutoffScheduler) Start() error {
	spec := fmt.Sprintf("0 %d * * *", s.cutoffHour)
	if _, err := s.cron.AddFunc(spec, func() { s.runAt(time.Now()) }); err != nil {
		return fmt.Errorf("programar corte diario: %w", err)
	}
	s.cron.Start()
	s.log.Info().Str("spec", spec).Str("timezone", s.loc.String()).Msg("corte diario programado")
	return nil
}

// Stop detiene el cron (los jobs en vuelo terminan).
func (s *CutoffScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// runAt ejecuta el corte para el día calendario de now. Devuelve si disparó
// (la ventana estaba libre) para poder probar el guard.
func (s *CutoffScheduler) runAt(now time.Time) bool {
	window := now.In(s.loc).Format("2006-01-02")

	s.mu.Lock()
	if s.lastWindow == window {
		s.mu.Unlock()
		s.log.Warn().Str("window", window).Msg("corte ya disparado en esta ventana; se omite")
		return false
	}
	s.lastWindow = window
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// ID de corrida para correlacionar los logs de un mismo corte.
	runID := uuid.NewString()
	s.log.Info().Str("run_id", runID).Str("window", window).Msg("corriendo corte de fin de día")
	if _, err := s.svc.ReconcileDay(ctx, now.In(s.loc)); err != nil {
		// La corrida es idempotente: el siguiente disparo (o un guardado
		// manual) recomputa el día completo sin efectos dobles.
		s.log.Error().Err(err).Str("run_id", runID).Str("window", window).Msg("falló el corte de fin de día")
		return true
	}
	s.log.Info().Str("run_id", runID).Str("window", window).Msg("corte de fin de día completado")
	return true
}
