package repository

import (
	"context"

	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
)

// ProductCatalog expone el catálogo de productos rastreables (colaborador
// externo, solo lectura). El motor solo concilia la categoría cilindro.
type ProductCatalog interface {
	// ListTracked devuelve los productos de categoría cilindro con su clave
	// normalizada y nombre para mostrar.
	ListTracked(ctx context.Context) ([]entity.Product, error)

	// GetByKey devuelve el producto del catálogo o domain.ErrUnknownProductKey.
	GetByKey(ctx context.Context, productKey string) (*entity.Product, error)
}
