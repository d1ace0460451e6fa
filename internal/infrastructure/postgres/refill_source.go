package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
)

var _ reconciliation.EventSource = (*RefillSource)(nil)

// RefillSource lee las órdenes de recarga completadas del día: cascos vacíos
// propios que volvieron llenos de la planta. Una recarga mueve unidades del
// pozo de vacíos al de llenos sin cambiar el total físico.
type RefillSource struct {
	q   Querier
	loc *time.Location
}

// NewRefillSource construye la fuente de recargas.
func NewRefillSource(q Querier, loc *time.Location) *RefillSource {
	return &RefillSource{q: q, loc: loc}
}

func (s *RefillSource) Name() string { return reconcile.SourceRefills }

func (s *RefillSource) Deltas(ctx context.Context, day time.Time, productKey string) (reconcile.FamilyDeltas, error) {
	start, end := dayWindow(day, s.loc)
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM refill_orders
		WHERE product_key = $1
		  AND status = 'completed'
		  AND completed_at >= $2 AND completed_at < $3`
	var qty int64
	if err := s.q.QueryRow(ctx, query, productKey, start, end).Scan(&qty); err != nil {
		return nil, sourceErr(s.Name(), "consultar recargas del día", err)
	}

	fd := make(reconcile.FamilyDeltas)
	if qty > 0 {
		fd.Add(reconcile.FamilyRefilled, int(qty))
	}
	return fd, nil
}
