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

var _ repository.ProductCatalog = (*ProductCatalogRepo)(nil)

// ProductCatalogRepo implementación de ProductCatalog sobre PostgreSQL.
// La columna product_key guarda la clave ya normalizada; las búsquedas
// normalizan la entrada antes de comparar.
type ProductCatalogRepo struct {
	q Querier
}

// NewProductCatalogRepository construye el adaptador. Acepta pool o tx (Querier).
func NewProductCatalogRepository(q Querier) *ProductCatalogRepo {
	return &ProductCatalogRepo{q: q}
}

// ListTracked devuelve los cilindros activos del catálogo (los únicos productos
// que el libro diario rastrea; accesorios y repuestos quedan fuera).
func (r *ProductCatalogRepo) ListTracked(ctx context.Context) ([]entity.Product, error) {
	query := `
		SELECT product_key, name, category
		FROM products
		WHERE category = $1 AND active
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, string(entity.CategoryCylinder))
	if err != nil {
		return nil, fmt.Errorf("list tracked products: %w", err)
	}
	defer rows.Close()

	var list []entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.Key, &p.Name, &p.Category); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByKey busca un producto rastreado por su clave (normalizándola primero).
// Devuelve domain.ErrUnknownProductKey si no existe o no es un cilindro activo.
func (r *ProductCatalogRepo) GetByKey(ctx context.Context, key string) (*entity.Product, error) {
	query := `
		SELECT product_key, name, category
		FROM products
		WHERE product_key = $1 AND category = $2 AND active`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, productkey.Normalize(key), string(entity.CategoryCylinder)).Scan(
		&p.Key, &p.Name, &p.Category,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProductKey, key)
		}
		return nil, fmt.Errorf("get product by key: %w", err)
	}
	return &p, nil
}
