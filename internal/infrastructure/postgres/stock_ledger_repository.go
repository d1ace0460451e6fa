package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
	"github.com/jhoicas/gascontrol-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación de LedgerRepository sobre PostgreSQL.
// Tabla stock_ledger, clave primaria (ledger_date, product_key).
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

const ledgerColumns = `
	ledger_date, product_key, product_name,
	opening_full, opening_empty, opening_source,
	empty_purchase, full_purchase, refilled,
	full_cylinder_sales, empty_cylinder_sales, gas_sales,
	deposits, returns,
	transfer_gas, transfer_empty, received_gas, received_empty,
	closing_full, closing_empty,
	created_at, last_recomputed_at`

func scanLedger(row pgx.Row) (*entity.StockLedgerRecord, error) {
	var rec entity.StockLedgerRecord
	err := row.Scan(
		&rec.Date, &rec.ProductKey, &rec.ProductName,
		&rec.OpeningFull, &rec.OpeningEmpty, &rec.OpeningSource,
		&rec.Deltas.EmptyPurchase, &rec.Deltas.FullPurchase, &rec.Deltas.Refilled,
		&rec.Deltas.FullCylinderSales, &rec.Deltas.EmptyCylinderSales, &rec.Deltas.GasSales,
		&rec.Deltas.Deposits, &rec.Deltas.Returns,
		&rec.Deltas.TransferGas, &rec.Deltas.TransferEmpty, &rec.Deltas.ReceivedGas, &rec.Deltas.ReceivedEmpty,
		&rec.ClosingFull, &rec.ClosingEmpty,
		&rec.CreatedAt, &rec.LastRecomputedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Get obtiene el registro de (día, producto) o nil si no existe.
func (r *StockLedgerRepo) Get(ctx context.Context, day time.Time, productKey string) (*entity.StockLedgerRecord, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE ledger_date = $1 AND product_key = $2`
	rec, err := scanLedger(r.q.QueryRow(ctx, query, day, productKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock ledger: %w", err)
	}
	return rec, nil
}

// GetClosing devuelve el cierre almacenado de (día, producto); ok=false si no hay fila.
func (r *StockLedgerRepo) GetClosing(ctx context.Context, day time.Time, productKey string) (int, int, bool, error) {
	query := `
		SELECT closing_full, closing_empty
		FROM stock_ledger WHERE ledger_date = $1 AND product_key = $2`
	var full, empty int
	err := r.q.QueryRow(ctx, query, day, productKey).Scan(&full, &empty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, false, nil
		}
		return 0, 0, false, fmt.Errorf("get closing: %w", err)
	}
	return full, empty, true, nil
}

// ResolveOpening congela la apertura de (día, producto). El WHERE del DO UPDATE
// es el candado: una fila con opening_source ya asignado no se toca jamás.
func (r *StockLedgerRepo) ResolveOpening(ctx context.Context, day time.Time, productKey, productName string, full, empty int, src entity.OpeningSource) error {
	query := `
		INSERT INTO stock_ledger (ledger_date, product_key, product_name, opening_full, opening_empty, opening_source)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ledger_date, product_key)
		DO UPDATE SET
			opening_full   = EXCLUDED.opening_full,
			opening_empty  = EXCLUDED.opening_empty,
			opening_source = EXCLUDED.opening_source
		WHERE stock_ledger.opening_source = ''`
	_, err := r.q.Exec(ctx, query, day, productKey, productName, full, empty, string(src))
	if err != nil {
		return fmt.Errorf("resolve opening: %w", err)
	}
	return nil
}

// UpsertDay persiste movimientos y cierre por asignación (nunca acumulación).
// El DO UPDATE no menciona las columnas de apertura: recomputar un día no
// puede mover su apertura congelada.
func (r *StockLedgerRepo) UpsertDay(ctx context.Context, rec *entity.StockLedgerRecord) error {
	query := `
		INSERT INTO stock_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, now(), now())
		ON CONFLICT (ledger_date, product_key)
		DO UPDATE SET
			product_name         = EXCLUDED.product_name,
			empty_purchase       = EXCLUDED.empty_purchase,
			full_purchase        = EXCLUDED.full_purchase,
			refilled             = EXCLUDED.refilled,
			full_cylinder_sales  = EXCLUDED.full_cylinder_sales,
			empty_cylinder_sales = EXCLUDED.empty_cylinder_sales,
			gas_sales            = EXCLUDED.gas_sales,
			deposits             = EXCLUDED.deposits,
			returns              = EXCLUDED.returns,
			transfer_gas         = EXCLUDED.transfer_gas,
			transfer_empty       = EXCLUDED.transfer_empty,
			received_gas         = EXCLUDED.received_gas,
			received_empty       = EXCLUDED.received_empty,
			closing_full         = EXCLUDED.closing_full,
			closing_empty        = EXCLUDED.closing_empty,
			last_recomputed_at   = now()`
	d := rec.Deltas
	_, err := r.q.Exec(ctx, query,
		rec.Date, rec.ProductKey, rec.ProductName,
		rec.OpeningFull, rec.OpeningEmpty, string(rec.OpeningSource),
		d.EmptyPurchase, d.FullPurchase, d.Refilled,
		d.FullCylinderSales, d.EmptyCylinderSales, d.GasSales,
		d.Deposits, d.Returns,
		d.TransferGas, d.TransferEmpty, d.ReceivedGas, d.ReceivedEmpty,
		rec.ClosingFull, rec.ClosingEmpty,
	)
	if err != nil {
		return fmt.Errorf("upsert stock ledger: %w", err)
	}
	return nil
}

// ListByDate devuelve todos los registros del día, ordenados por producto.
func (r *StockLedgerRepo) ListByDate(ctx context.Context, day time.Time) ([]*entity.StockLedgerRecord, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE ledger_date = $1 ORDER BY product_name`
	rows, err := r.q.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("list stock ledger by date: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockLedgerRecord
	for rows.Next() {
		rec, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock ledger: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
