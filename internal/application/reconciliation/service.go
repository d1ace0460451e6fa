package reconciliation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/gascontrol-api/internal/application/dto"
	"github.com/jhoicas/gascontrol-api/internal/domain"
	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
	"github.com/jhoicas/gascontrol-api/internal/domain/repository"
	"github.com/jhoicas/gascontrol-api/pkg/logger"
)

// Service orquesta la conciliación diaria: resuelve la apertura, junta los
// deltas de las fuentes, calcula el cierre y hace el upsert del registro.
// La rutina es la misma para las tres vías de disparo (abrir el reporte,
// guardado manual y corte diario desatendido) y es idempotente: repetirla con
// los mismos eventos deja registros idénticos.
type Service struct {
	catalog       repository.ProductCatalog
	tx            repository.LedgerTxRunner
	resolver      *OpeningResolver
	agg           *Aggregator
	sources       []EventSource
	sourceTimeout time.Duration
	log           *logger.Logger
}

// NewService construye el servicio y ejecuta la aserción de arranque de la
// tabla de exclusividad: cada familia debe pertenecer a una fuente registrada.
func NewService(
	catalog repository.ProductCatalog,
	tx repository.LedgerTxRunner,
	resolver *OpeningResolver,
	own reconcile.Ownership,
	sources []EventSource,
	sourceTimeout time.Duration,
	log *logger.Logger,
) (*Service, error) {
	registered := make(map[string]bool, len(sources))
	for _, src := range sources {
		if registered[src.Name()] {
			return nil, fmt.Errorf("reconciliation: fuente duplicada %q", src.Name())
		}
		registered[src.Name()] = true
	}
	for _, f := range reconcile.Families() {
		if !registered[own.Owner(f)] {
			return nil, fmt.Errorf("reconciliation: la familia %q pertenece a %q pero esa fuente no está registrada", f, own.Owner(f))
		}
	}
	if sourceTimeout <= 0 {
		sourceTimeout = 10 * time.Second
	}
	return &Service{
		catalog:       catalog,
		tx:            tx,
		resolver:      resolver,
		agg:           NewAggregator(own),
		sources:       sources,
		sourceTimeout: sourceTimeout,
		log:           log,
	}, nil
}

// ProductResult es el resultado de conciliar un (día, producto).
type ProductResult struct {
	Record   *entity.StockLedgerRecord
	Warnings []entity.Warning
	Partial  bool
}

// DateOnly normaliza un instante a su día calendario (sin hora).
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ReconcileProduct recomputa y persiste el registro de (día, producto).
// Producto fuera del catálogo devuelve domain.ErrUnknownProductKey.
func (s *Service) ReconcileProduct(ctx context.Context, day time.Time, productKey string) (*ProductResult, error) {
	p, err := s.catalog.GetByKey(ctx, productKey)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, DateOnly(day), *p)
}

// ReconcileDay recomputa todos los productos rastreados para el día.
// Una falla de persistencia aborta la corrida (es segura de reintentar);
// las fuentes caídas solo marcan el resultado como parcial.
func (s *Service) ReconcileDay(ctx context.Context, day time.Time) ([]*ProductResult, error) {
	products, err := s.catalog.ListTracked(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos rastreados: %w", err)
	}
	day = DateOnly(day)

	results := make([]*ProductResult, 0, len(products))
	for _, p := range products {
		res, err := s.reconcile(ctx, day, p)
		if err != nil {
			return nil, fmt.Errorf("conciliar %q: %w", p.Key, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// DailyReport recomputa el día completo y arma el reporte tabular con la fila
// de gran total. Es también la rutina del guardado manual: el upsert ya
// ocurrió cuando retorna sin error.
func (s *Service) DailyReport(ctx context.Context, day time.Time) (*dto.DailyStockReport, error) {
	results, err := s.ReconcileDay(ctx, day)
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Record.ProductName < results[j].Record.ProductName
	})

	report := &dto.DailyStockReport{
		Date: DateOnly(day).Format("2006-01-02"),
		Rows: make([]dto.DailyStockRow, 0, len(results)),
	}
	total := dto.DailyStockRow{ProductKey: "total", ProductName: "TOTAL"}
	for _, res := range results {
		row := toRow(res.Record)
		report.Rows = append(report.Rows, row)
		addRow(&total, row)
		if res.Partial {
			report.Partial = true
		}
		for _, w := range res.Warnings {
			report.Warnings = append(report.Warnings, dto.WarningDTO{Code: w.Code, ProductKey: w.ProductKey, Message: w.Message})
		}
	}
	report.Total = total
	return report, nil
}

// reconcile es la rutina única recompute-and-upsert de un (día, producto).
func (s *Service) reconcile(ctx context.Context, day time.Time, p entity.Product) (*ProductResult, error) {
	collected := s.collect(ctx, day, p.Key)
	deltas, warns := s.agg.Merge(p.Key, collected)

	partial := false
	for _, w := range warns {
		if w.Code == entity.WarnSourceUnavailable {
			partial = true
		}
		s.log.Warn().Str("product_key", p.Key).Str("code", w.Code).Msg(w.Message)
	}

	var rec *entity.StockLedgerRecord
	err := s.tx.Run(ctx, day, p.Key, func(ledger repository.LedgerRepository) error {
		op, err := s.resolver.Resolve(ctx, ledger, day, p)
		if err != nil {
			return err
		}
		warns = append(warns, op.Warnings...)

		closing := reconcile.Closing(op.Full, op.Empty, deltas)
		if closing.ClampedFull || closing.ClampedEmpty {
			warns = append(warns, entity.Warning{
				Code:       entity.WarnNegativeClamped,
				ProductKey: p.Key,
				Message:    "el cierre crudo era negativo y se fijó en cero; revisar los eventos del día",
			})
		}

		rec = &entity.StockLedgerRecord{
			Date:          day,
			ProductKey:    p.Key,
			ProductName:   p.Name,
			OpeningFull:   op.Full,
			OpeningEmpty:  op.Empty,
			OpeningSource: op.Source,
			Deltas:        deltas,
			ClosingFull:   closing.Full,
			ClosingEmpty:  closing.Empty,
		}
		if err := ledger.UpsertDay(ctx, rec); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
		}
		return nil
	})
	if err != nil {
		// La corrida falla completa: el registro previo queda intacto y el
		// reintento es seguro porque la rutina entera es idempotente.
		return nil, err
	}

	s.log.Debug().
		Str("product_key", p.Key).
		Str("date", day.Format("2006-01-02")).
		Int("closing_full", rec.ClosingFull).
		Int("closing_empty", rec.ClosingEmpty).
		Msg("registro de stock conciliado")

	return &ProductResult{Record: rec, Warnings: warns, Partial: partial}, nil
}

// collect consulta todas las fuentes para (día, producto). Las lecturas son
// independientes y corren en paralelo, cada una con su timeout acotado; el
// orden de llegada no afecta el agregado (Merge es conmutativo).
func (s *Service) collect(ctx context.Context, day time.Time, productKey string) []SourceResult {
	results := make([]SourceResult, len(s.sources))
	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src EventSource) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
			defer cancel()
			fd, err := src.Deltas(cctx, day, productKey)
			results[i] = SourceResult{Source: src.Name(), Deltas: fd, Err: err}
		}(i, src)
	}
	wg.Wait()
	return results
}

func toRow(rec *entity.StockLedgerRecord) dto.DailyStockRow {
	d := rec.Deltas
	return dto.DailyStockRow{
		ProductKey:         rec.ProductKey,
		ProductName:        rec.ProductName,
		OpeningFull:        rec.OpeningFull,
		OpeningEmpty:       rec.OpeningEmpty,
		EmptyPurchase:      d.EmptyPurchase,
		FullPurchase:       d.FullPurchase,
		Refilled:           d.Refilled,
		FullCylinderSales:  d.FullCylinderSales,
		EmptyCylinderSales: d.EmptyCylinderSales,
		GasSales:           d.GasSales,
		Deposits:           d.Deposits,
		Returns:            d.Returns,
		TransferGas:        d.TransferGas,
		TransferEmpty:      d.TransferEmpty,
		ReceivedGas:        d.ReceivedGas,
		ReceivedEmpty:      d.ReceivedEmpty,
		ClosingFull:        rec.ClosingFull,
		ClosingEmpty:       rec.ClosingEmpty,
		OpeningSource:      string(rec.OpeningSource),
	}
}

func addRow(total *dto.DailyStockRow, row dto.DailyStockRow) {
	total.OpeningFull += row.OpeningFull
	total.OpeningEmpty += row.OpeningEmpty
	total.EmptyPurchase += row.EmptyPurchase
	total.FullPurchase += row.FullPurchase
	total.Refilled += row.Refilled
	total.FullCylinderSales += row.FullCylinderSales
	total.EmptyCylinderSales += row.EmptyCylinderSales
	total.GasSales += row.GasSales
	total.Deposits += row.Deposits
	total.Returns += row.Returns
	total.TransferGas += row.TransferGas
	total.TransferEmpty += row.TransferEmpty
	total.ReceivedGas += row.ReceivedGas
	total.ReceivedEmpty += row.ReceivedEmpty
	total.ClosingFull += row.ClosingFull
	total.ClosingEmpty += row.ClosingEmpty
}
