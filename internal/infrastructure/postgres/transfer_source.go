package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
)

var _ reconciliation.EventSource = (*TransferSource)(nil)

// TransferSource lee los traslados entre bodegas o rutas. La salida cuenta
// desde el despacho; la entrada cuenta solo cuando el destino la acepta, así
// el mismo casco nunca figura en dos balances a la vez.
type TransferSource struct {
	q   Querier
	loc *time.Location
}

// NewTransferSource construye la fuente de traslados.
func NewTransferSource(q Querier, loc *time.Location) *TransferSource {
	return &TransferSource{q: q, loc: loc}
}

func (s *TransferSource) Name() string { return reconcile.SourceTransfers }

func (s *TransferSource) Deltas(ctx context.Context, day time.Time, productKey string) (reconcile.FamilyDeltas, error) {
	start, end := dayWindow(day, s.loc)
	fd := make(reconcile.FamilyDeltas)

	// Salidas: despachadas en el día (aunque aún no se acepten en destino).
	outQuery := `
		SELECT cylinder_state, COALESCE(SUM(quantity), 0)
		FROM stock_transfers
		WHERE product_key = $1
		  AND status <> 'void'
		  AND dispatched_at >= $2 AND dispatched_at < $3
		GROUP BY cylinder_state`
	if err := s.scanByState(ctx, outQuery, productKey, start, end, fd,
		reconcile.FamilyTransferGas, reconcile.FamilyTransferEmpty); err != nil {
		return nil, err
	}

	// Entradas: solo las aceptadas en el día por esta sede.
	inQuery := `
		SELECT cylinder_state, COALESCE(SUM(quantity), 0)
		FROM stock_transfer_receipts
		WHERE product_key = $1
		  AND status = 'accepted'
		  AND accepted_at >= $2 AND accepted_at < $3
		GROUP BY cylinder_state`
	if err := s.scanByState(ctx, inQuery, productKey, start, end, fd,
		reconcile.FamilyReceivedGas, reconcile.FamilyReceivedEmpty); err != nil {
		return nil, err
	}

	return fd, nil
}

// scanByState agrega un lado del traslado separando llenos de vacíos.
// Un estado desconocido o nulo se trata como vacío: es el lado conservador,
// no infla el stock vendible de llenos.
func (s *TransferSource) scanByState(ctx context.Context, query, productKey string, start, end time.Time, fd reconcile.FamilyDeltas, gasFamily, emptyFamily reconcile.DeltaFamily) error {
	rows, err := s.q.Query(ctx, query, productKey, start, end)
	if err != nil {
		return sourceErr(s.Name(), "consultar traslados del día", err)
	}
	defer rows.Close()

	for rows.Next() {
		var state *string
		var qty int64
		if err := rows.Scan(&state, &qty); err != nil {
			return sourceErr(s.Name(), "scan traslado", err)
		}
		if qty <= 0 {
			continue
		}
		if state != nil && *state == "full" {
			fd.Add(gasFamily, int(qty))
		} else {
			fd.Add(emptyFamily, int(qty))
		}
	}
	return rows.Err()
}
