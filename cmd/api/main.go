package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
	"github.com/jhoicas/gascontrol-api/internal/infrastructure/postgres"
	cutoff "github.com/jhoicas/gascontrol-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/gascontrol-api/internal/interfaces/http"
	"github.com/jhoicas/gascontrol-api/pkg/config"
	"github.com/jhoicas/gascontrol-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	loc := cfg.Report.Location()

	catalogRepo := postgres.NewProductCatalogRepository(pool)
	inventoryRepo := postgres.NewInventorySnapshotRepository(pool)
	txRunner := postgres.NewLedgerTxRunner(pool)

	sources := []reconciliation.EventSource{
		postgres.NewSalesSource(pool, loc),
		postgres.NewRefillSource(pool, loc),
		postgres.NewDepositSource(pool, loc),
		postgres.NewTransferSource(pool, loc),
		postgres.NewPurchaseSource(pool, loc),
	}

	reconcileSvc, err := reconciliation.NewService(
		catalogRepo,
		txRunner,
		reconciliation.NewOpeningResolver(inventoryRepo),
		reconcile.DefaultOwnership(),
		sources,
		cfg.Report.SourceTimeoutDuration(),
		log,
	)
	if err != nil {
		// Tabla de exclusividad o cableado de fuentes mal configurado:
		// mejor no arrancar que conciliar con doble conteo.
		log.Fatal().Err(err).Msg("configuración del motor de conciliación")
	}

	sched := cutoff.NewCutoffScheduler(reconcileSvc, loc, cfg.Report.CutoffHour, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("arranque del corte diario")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "GasControl API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReportSvc: reconcileSvc,
		Location:  loc,
		JWTSecret: cfg.JWT.Secret,
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
