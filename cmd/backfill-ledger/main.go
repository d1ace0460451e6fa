// Comando de backfill del libro de stock: reconcilia un rango de fechas en
// orden cronológico para que el arrastre de apertura fluya día a día.
// Útil al habilitar el motor sobre historial transaccional preexistente.
//
// Uso:
//
//	backfill-ledger -from 2025-01-01 -to 2025-03-10 [-product "cilindro 20kg"]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
	"github.com/jhoicas/gascontrol-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gascontrol-api/pkg/config"
	"github.com/jhoicas/gascontrol-api/pkg/logger"
)

func main() {
	var (
		fromFlag    = flag.String("from", "", "primer día a reconciliar (YYYY-MM-DD)")
		toFlag      = flag.String("to", "", "último día a reconciliar, inclusive (YYYY-MM-DD)")
		productFlag = flag.String("product", "", "solo este producto (vacío = todos los rastreados)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	loc := cfg.Report.Location()
	from, err := time.ParseInLocation("2006-01-02", *fromFlag, loc)
	if err != nil {
		log.Fatal().Str("from", *fromFlag).Msg("-from debe ser YYYY-MM-DD")
	}
	to, err := time.ParseInLocation("2006-01-02", *toFlag, loc)
	if err != nil {
		log.Fatal().Str("to", *toFlag).Msg("-to debe ser YYYY-MM-DD")
	}
	if to.Before(from) {
		log.Fatal().Msg("-to no puede ser anterior a -from")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	sources := []reconciliation.EventSource{
		postgres.NewSalesSource(pool, loc),
		postgres.NewRefillSource(pool, loc),
		postgres.NewDepositSource(pool, loc),
		postgres.NewTransferSource(pool, loc),
		postgres.NewPurchaseSource(pool, loc),
	}
	svc, err := reconciliation.NewService(
		postgres.NewProductCatalogRepository(pool),
		postgres.NewLedgerTxRunner(pool),
		reconciliation.NewOpeningResolver(postgres.NewInventorySnapshotRepository(pool)),
		reconcile.DefaultOwnership(),
		sources,
		cfg.Report.SourceTimeoutDuration(),
		log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración del motor de conciliación")
	}

	days := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if *productFlag != "" {
			_, err = svc.ReconcileProduct(ctx, day, *productFlag)
		} else {
			_, err = svc.ReconcileDay(ctx, day)
		}
		if err != nil {
			// Se aborta en el primer día fallido: los días siguientes
			// dependerían de un arrastre incompleto.
			log.Error().Err(err).Str("date", day.Format("2006-01-02")).Msg("backfill interrumpido")
			os.Exit(1)
		}
		days++
		log.Info().Str("date", day.Format("2006-01-02")).Msg("día reconciliado")
	}

	log.Info().Int("days", days).Msg("backfill completado")
}
