package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
)

// LedgerRepository define el puerto de persistencia del libro de stock diario (DIP).
//
// Contrato de idempotencia: UpsertDay asigna (nunca acumula) los movimientos y
// el cierre, así que dos corridas con los mismos eventos dejan el mismo estado.
// Escribir el día D jamás toca la apertura almacenada de D-1 ni de D+1.
type LedgerRepository interface {
	// Get devuelve el registro de (día, producto) o nil si no existe.
	Get(ctx context.Context, day time.Time, productKey string) (*entity.StockLedgerRecord, error)

	// GetClosing devuelve el cierre almacenado de (día, producto).
	// ok=false si no hay registro.
	GetClosing(ctx context.Context, day time.Time, productKey string) (full, empty int, ok bool, err error)

	// ResolveOpening congela la apertura de (día, producto) creando la fila si
	// no existe. Solo escribe si la apertura aún no fue resuelta
	// (opening_source vacío): una apertura congelada nunca se sobreescribe.
	ResolveOpening(ctx context.Context, day time.Time, productKey, productName string, full, empty int, src entity.OpeningSource) error

	// UpsertDay persiste movimientos y cierre del día sin tocar la apertura.
	UpsertDay(ctx context.Context, rec *entity.StockLedgerRecord) error

	// ListByDate devuelve todos los registros del día, ordenados por producto.
	ListByDate(ctx context.Context, day time.Time) ([]*entity.StockLedgerRecord, error)
}

// LedgerTxRunner serializa una corrida de conciliación por (día, producto):
// abre una transacción, toma el lock consultivo de esa clave y pasa un
// LedgerRepository atado a la transacción. Dos corridas concurrentes sobre la
// misma clave quedan en fila; claves distintas avanzan en paralelo.
type LedgerTxRunner interface {
	Run(ctx context.Context, day time.Time, productKey string, fn func(ledger LedgerRepository) error) error
}
