package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gascontrol-api/internal/domain/repository"
)

var _ repository.LedgerTxRunner = (*LedgerTxRunner)(nil)

// LedgerTxRunner ejecuta una corrida de conciliación dentro de una transacción
// PostgreSQL, serializada por (día, producto) con un lock consultivo.
type LedgerTxRunner struct {
	pool *pgxpool.Pool
}

// NewLedgerTxRunner construye el runner con el pool.
func NewLedgerTxRunner(pool *pgxpool.Pool) *LedgerTxRunner {
	return &LedgerTxRunner{pool: pool}
}

// Run inicia una transacción, toma pg_advisory_xact_lock sobre la clave
// "fecha|producto" y ejecuta fn con un LedgerRepository atado a la tx.
// El lock se libera solo con el commit o rollback, así que dos cortes
// concurrentes del mismo producto quedan en fila en vez de pisarse.
func (r *LedgerTxRunner) Run(ctx context.Context, day time.Time, productKey string, fn func(ledger repository.LedgerRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lockKey := day.Format("2006-01-02") + "|" + productKey
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return fmt.Errorf("advisory lock %q: %w", lockKey, err)
	}

	if err := fn(NewStockLedgerRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
