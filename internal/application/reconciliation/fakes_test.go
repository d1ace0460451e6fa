package reconciliation_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/internal/domain"
	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
	"github.com/jhoicas/gascontrol-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos (mismo contrato que los adaptadores postgres)
// ──────────────────────────────────────────────────────────────────────────────

func ledgerKey(day time.Time, productKey string) string {
	return day.Format("2006-01-02") + "|" + productKey
}

// fakeLedger implementa repository.LedgerRepository en memoria respetando el
// contrato: upsert por asignación (idempotente) y apertura congelada una vez resuelta.
type fakeLedger struct {
	records map[string]*entity.StockLedgerRecord
	failPut bool // fuerza fallo de persistencia
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: make(map[string]*entity.StockLedgerRecord)}
}

func clone(rec *entity.StockLedgerRecord) *entity.StockLedgerRecord {
	cp := *rec
	return &cp
}

func (f *fakeLedger) Get(_ context.Context, day time.Time, productKey string) (*entity.StockLedgerRecord, error) {
	rec, ok := f.records[ledgerKey(day, productKey)]
	if !ok {
		return nil, nil
	}
	return clone(rec), nil
}

func (f *fakeLedger) GetClosing(_ context.Context, day time.Time, productKey string) (int, int, bool, error) {
	rec, ok := f.records[ledgerKey(day, productKey)]
	if !ok {
		return 0, 0, false, nil
	}
	return rec.ClosingFull, rec.ClosingEmpty, true, nil
}

func (f *fakeLedger) ResolveOpening(_ context.Context, day time.Time, productKey, productName string, full, empty int, src entity.OpeningSource) error {
	k := ledgerKey(day, productKey)
	rec, ok := f.records[k]
	if !ok {
		f.records[k] = &entity.StockLedgerRecord{
			Date: day, ProductKey: productKey, ProductName: productName,
			OpeningFull: full, OpeningEmpty: empty, OpeningSource: src,
		}
		return nil
	}
	if rec.OpeningSource != "" {
		return nil // apertura congelada: no se toca
	}
	rec.OpeningFull, rec.OpeningEmpty, rec.OpeningSource = full, empty, src
	return nil
}

func (f *fakeLedger) UpsertDay(_ context.Context, in *entity.StockLedgerRecord) error {
	if f.failPut {
		return fmt.Errorf("disco lleno")
	}
	k := ledgerKey(in.Date, in.ProductKey)
	rec, ok := f.records[k]
	if !ok {
		f.records[k] = clone(in)
		return nil
	}
	// Asignación, nunca acumulación; la apertura almacenada no se toca.
	rec.ProductName = in.ProductName
	rec.Deltas = in.Deltas
	rec.ClosingFull = in.ClosingFull
	rec.ClosingEmpty = in.ClosingEmpty
	return nil
}

func (f *fakeLedger) ListByDate(_ context.Context, day time.Time) ([]*entity.StockLedgerRecord, error) {
	var out []*entity.StockLedgerRecord
	for _, rec := range f.records {
		if rec.Date.Equal(day) {
			out = append(out, clone(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductKey < out[j].ProductKey })
	return out, nil
}

var _ repository.LedgerRepository = (*fakeLedger)(nil)

// fakeTxRunner pasa el mismo ledger (en memoria la serialización no aplica).
type fakeTxRunner struct {
	ledger *fakeLedger
	locked []string // claves bloqueadas, en orden, para inspección
}

func (f *fakeTxRunner) Run(_ context.Context, day time.Time, productKey string, fn func(repository.LedgerRepository) error) error {
	f.locked = append(f.locked, ledgerKey(day, productKey))
	return fn(f.ledger)
}

var _ repository.LedgerTxRunner = (*fakeTxRunner)(nil)

// fakeCatalog catálogo fijo de cilindros.
type fakeCatalog struct {
	products []entity.Product
}

func (f *fakeCatalog) ListTracked(context.Context) ([]entity.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) GetByKey(_ context.Context, productKey string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.Key == productKey {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrUnknownProductKey
}

var _ repository.ProductCatalog = (*fakeCatalog)(nil)

// fakeInventory foto viva para el arranque en frío.
type fakeInventory struct {
	avail map[string]entity.Availability
}

func (f *fakeInventory) GetCurrentAvailability(_ context.Context, productKey string) (*entity.Availability, error) {
	a, ok := f.avail[productKey]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := a
	return &cp, nil
}

var _ repository.InventorySnapshot = (*fakeInventory)(nil)

// fakeSource fuente programable por (día, producto).
type fakeSource struct {
	name   string
	deltas map[string]reconcile.FamilyDeltas // ledgerKey -> deltas
	err    error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Deltas(_ context.Context, day time.Time, productKey string) (reconcile.FamilyDeltas, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.deltas[ledgerKey(day, productKey)], nil
}

var _ reconciliation.EventSource = (*fakeSource)(nil)

// emptySources devuelve las cinco fuentes canónicas sin eventos.
func emptySources() map[string]*fakeSource {
	out := make(map[string]*fakeSource)
	for _, name := range []string{
		reconcile.SourceSales, reconcile.SourceRefills, reconcile.SourceDeposits,
		reconcile.SourceTransfers, reconcile.SourcePurchases,
	} {
		out[name] = &fakeSource{name: name, deltas: make(map[string]reconcile.FamilyDeltas)}
	}
	return out
}

func sourceSlice(m map[string]*fakeSource) []reconciliation.EventSource {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]reconciliation.EventSource, 0, len(m))
	for _, n := range names {
		out = append(out, m[n])
	}
	return out
}
