package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
)

var _ reconciliation.EventSource = (*DepositSource)(nil)

// DepositSource lee los movimientos de cascos en consignación del día:
// 'deposit' cuando un casco vacío queda en manos del cliente contra garantía,
// 'return' cuando el cliente lo devuelve y entra al pozo de vacíos.
type DepositSource struct {
	q   Querier
	loc *time.Location
}

// NewDepositSource construye la fuente de consignaciones.
func NewDepositSource(q Querier, loc *time.Location) *DepositSource {
	return &DepositSource{q: q, loc: loc}
}

func (s *DepositSource) Name() string { return reconcile.SourceDeposits }

func (s *DepositSource) Deltas(ctx context.Context, day time.Time, productKey string) (reconcile.FamilyDeltas, error) {
	start, end := dayWindow(day, s.loc)
	query := `
		SELECT direction, COALESCE(SUM(quantity), 0)
		FROM cylinder_deposits
		WHERE product_key = $1
		  AND moved_at >= $2 AND moved_at < $3
		GROUP BY direction`
	rows, err := s.q.Query(ctx, query, productKey, start, end)
	if err != nil {
		return nil, sourceErr(s.Name(), "consultar consignaciones del día", err)
	}
	defer rows.Close()

	fd := make(reconcile.FamilyDeltas)
	for rows.Next() {
		var direction string
		var qty int64
		if err := rows.Scan(&direction, &qty); err != nil {
			return nil, sourceErr(s.Name(), "scan consignación", err)
		}
		if qty <= 0 {
			continue
		}
		switch direction {
		case "deposit":
			fd.Add(reconcile.FamilyDeposits, int(qty))
		case "return":
			fd.Add(reconcile.FamilyReturns, int(qty))
		}
	}
	return fd, rows.Err()
}
