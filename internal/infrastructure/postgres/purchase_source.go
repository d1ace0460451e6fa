package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
)

var _ reconciliation.EventSource = (*PurchaseSource)(nil)

// PurchaseSource lee las compras a proveedores recibidas en el día:
// cascos nuevos vacíos o cilindros que llegan llenos de fábrica.
type PurchaseSource struct {
	q   Querier
	loc *time.Location
}

// NewPurchaseSource construye la fuente de compras.
func NewPurchaseSource(q Querier, loc *time.Location) *PurchaseSource {
	return &PurchaseSource{q: q, loc: loc}
}

func (s *PurchaseSource) Name() string { return reconcile.SourcePurchases }

func (s *PurchaseSource) Deltas(ctx context.Context, day time.Time, productKey string) (reconcile.FamilyDeltas, error) {
	start, end := dayWindow(day, s.loc)
	query := `
		SELECT pi.cylinder_state, COALESCE(SUM(pi.quantity), 0)
		FROM purchase_items pi
		JOIN purchases p ON p.id = pi.purchase_id
		WHERE pi.product_key = $1
		  AND p.status = 'received'
		  AND p.received_at >= $2 AND p.received_at < $3
		GROUP BY pi.cylinder_state`
	rows, err := s.q.Query(ctx, query, productKey, start, end)
	if err != nil {
		return nil, sourceErr(s.Name(), "consultar compras del día", err)
	}
	defer rows.Close()

	fd := make(reconcile.FamilyDeltas)
	for rows.Next() {
		var state string
		var qty decimal.Decimal
		if err := rows.Scan(&state, &qty); err != nil {
			return nil, sourceErr(s.Name(), "scan compra", err)
		}
		n := countFromDecimal(qty)
		if n <= 0 {
			continue
		}
		switch state {
		case "full":
			fd.Add(reconcile.FamilyFullPurchase, n)
		case "empty":
			fd.Add(reconcile.FamilyEmptyPurchase, n)
		}
	}
	return fd, rows.Err()
}
