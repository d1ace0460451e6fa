package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
)

var _ reconciliation.EventSource = (*SalesSource)(nil)

// SalesSource lee el registro de ventas del día y lo reduce a conteos por
// familia: venta de gas (intercambio), venta de cilindro lleno y venta de
// cilindro vacío. Las ventas anuladas no cuentan.
type SalesSource struct {
	q   Querier
	loc *time.Location
}

// NewSalesSource construye la fuente de ventas.
func NewSalesSource(q Querier, loc *time.Location) *SalesSource {
	return &SalesSource{q: q, loc: loc}
}

func (s *SalesSource) Name() string { return reconcile.SourceSales }

// Deltas agrega los renglones de venta del producto en el día.
// item_type distingue el modo de venta: 'gas' (el cliente entrega un vacío),
// 'full_cylinder' (se va el casco lleno) o 'empty_cylinder' (solo el casco).
func (s *SalesSource) Deltas(ctx context.Context, day time.Time, productKey string) (reconcile.FamilyDeltas, error) {
	start, end := dayWindow(day, s.loc)
	query := `
		SELECT si.item_type, COALESCE(SUM(si.quantity), 0)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE si.product_key = $1
		  AND s.status <> 'void'
		  AND s.sold_at >= $2 AND s.sold_at < $3
		GROUP BY si.item_type`
	rows, err := s.q.Query(ctx, query, productKey, start, end)
	if err != nil {
		return nil, sourceErr(s.Name(), "consultar ventas del día", err)
	}
	defer rows.Close()

	fd := make(reconcile.FamilyDeltas)
	for rows.Next() {
		var itemType string
		var qty decimal.Decimal
		if err := rows.Scan(&itemType, &qty); err != nil {
			return nil, sourceErr(s.Name(), "scan venta", err)
		}
		n := countFromDecimal(qty)
		if n <= 0 {
			continue
		}
		switch itemType {
		case "gas":
			fd.Add(reconcile.FamilyGasSales, n)
		case "full_cylinder":
			fd.Add(reconcile.FamilyFullCylinderSales, n)
		case "empty_cylinder":
			fd.Add(reconcile.FamilyEmptyCylinderSales, n)
		}
	}
	return fd, rows.Err()
}
