package reconciliation

import (
	"fmt"

	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
)

// SourceResult es la salida cruda de un adaptador para (día, producto):
// sus deltas o el error que lo dejó fuera de la corrida.
type SourceResult struct {
	Source string
	Deltas reconcile.FamilyDeltas
	Err    error
}

// Aggregator funde las contribuciones de los adaptadores en los deltas del
// día aplicando la tabla de exclusividad: para cada familia cuenta solo la
// fuente dueña; lo que reporte cualquier otra fuente se descarta con
// advertencia. Gracias a eso la suma entre fuentes es segura y el resultado
// es determinista y conmutativo (el orden de los adaptadores no importa).
type Aggregator struct {
	own reconcile.Ownership
}

// NewAggregator construye el agregador con una tabla ya validada
// (ver reconcile.NewOwnership, aserción de arranque).
func NewAggregator(own reconcile.Ownership) *Aggregator {
	return &Aggregator{own: own}
}

// Merge devuelve los deltas agregados del día y las advertencias recuperables
// (fuente caída, contribución excluida). Nunca retorna error: una fuente que
// falla contribuye cero y el resultado queda marcado por el caller como parcial.
func (a *Aggregator) Merge(productKey string, results []SourceResult) (entity.DayDeltas, []entity.Warning) {
	var deltas entity.DayDeltas
	var warns []entity.Warning

	for _, res := range results {
		if res.Err != nil {
			warns = append(warns, entity.Warning{
				Code:       entity.WarnSourceUnavailable,
				ProductKey: productKey,
				Message:    fmt.Sprintf("fuente %q no disponible, contribuye cero en esta corrida: %v", res.Source, res.Err),
			})
			continue
		}
		for fam, n := range res.Deltas {
			if n <= 0 {
				continue
			}
			if a.own.Owner(fam) != res.Source {
				warns = append(warns, entity.Warning{
					Code:       entity.WarnExcludedSource,
					ProductKey: productKey,
					Message:    fmt.Sprintf("fuente %q reportó %s=%d pero la familia pertenece a %q; se descarta para evitar doble conteo", res.Source, fam, n, a.own.Owner(fam)),
				})
				continue
			}
			reconcile.Apply(&deltas, fam, n)
		}
	}
	return deltas, warns
}
