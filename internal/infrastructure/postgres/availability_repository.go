package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gascontrol-api/internal/domain"
	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
	"github.com/jhoicas/gascontrol-api/internal/domain/productkey"
	"github.com/jhoicas/gascontrol-api/internal/domain/repository"
)

var _ repository.InventorySnapshot = (*InventorySnapshotRepo)(nil)

// InventorySnapshotRepo lee la foto viva del inventario (tabla inventory,
// mantenida por el módulo operativo). Solo se consulta en el arranque en frío:
// el primer día rastreado de un producto sin historial en el libro.
type InventorySnapshotRepo struct {
	q Querier
}

// NewInventorySnapshotRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventorySnapshotRepository(q Querier) *InventorySnapshotRepo {
	return &InventorySnapshotRepo{q: q}
}

// GetCurrentAvailability devuelve los contadores vivos del producto.
// domain.ErrNotFound si el producto no tiene fila de inventario todavía.
func (r *InventorySnapshotRepo) GetCurrentAvailability(ctx context.Context, key string) (*entity.Availability, error) {
	query := `
		SELECT product_key, available_full, available_empty, current_stock
		FROM inventory
		WHERE product_key = $1`
	var a entity.Availability
	err := r.q.QueryRow(ctx, query, productkey.Normalize(key)).Scan(
		&a.ProductKey, &a.AvailableFull, &a.AvailableEmpty, &a.CurrentStock,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: inventario de %q", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("get current availability: %w", err)
	}
	return &a, nil
}
