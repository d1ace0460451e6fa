package reconciliation

import (
	"context"
	"time"

	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
)

// EventSource es el puerto de un adaptador de fuente de transacciones
// (ventas, recargas, depósitos, traslados, compras). Cada adaptador es
// responsable de su propio recorte por día calendario (truncado consistente
// con la zona horaria del negocio, nunca comparación de substrings) y de
// mapear sus campos de categoría/estado a las familias de deltas.
//
// Deltas devuelve la contribución de esta fuente para (día, producto).
// Un error se trata como contribución cero para esa corrida (advertencia
// recuperable, nunca fatal): datos parciales valen más que ningún reporte.
type EventSource interface {
	Name() string
	Deltas(ctx context.Context, day time.Time, productKey string) (reconcile.FamilyDeltas, error)
}
