package repository

import (
	"context"

	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
)

// InventorySnapshot lee la disponibilidad viva del inventario (colaborador
// externo, solo lectura). El resolutor de apertura la usa únicamente en el
// arranque en frío: el primer día que un producto entra al libro.
type InventorySnapshot interface {
	GetCurrentAvailability(ctx context.Context, productKey string) (*entity.Availability, error)
}
