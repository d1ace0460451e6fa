package reconcile

import "github.com/jhoicas/gascontrol-api/internal/domain/entity"

// ClosingResult es el cierre derivado del día, con las marcas de recorte
// cuando la aritmética cruda habría dado negativo.
type ClosingResult struct {
	Full  int
	Empty int
	// ClampedFull/ClampedEmpty indican que el valor crudo era negativo y se
	// fijó en cero. Es un síntoma de calidad de datos que se reporta como
	// advertencia; nunca se propaga un balance negativo al día siguiente.
	ClampedFull  bool
	ClampedEmpty bool
}

// Closing aplica la fórmula contable fija de cierre.
//
// Un cilindro pasa a "vacío" en el momento en que se vende su gas, así que el
// cierre de vacíos se deriva del pool combinado lleno+vacío menos lo que sigue
// lleno al final del día: por eso ClosingFull se calcula estrictamente antes
// y entra como resta en ClosingEmpty (dependencia secuencial, no fórmulas
// independientes).
func Closing(openingFull, openingEmpty int, d entity.DayDeltas) ClosingResult {
	var r ClosingResult

	rawFull := openingFull + d.FullPurchase + d.Refilled -
		d.FullCylinderSales - d.GasSales - d.TransferGas + d.ReceivedGas
	if rawFull < 0 {
		r.ClampedFull = true
		rawFull = 0
	}
	r.Full = rawFull

	rawEmpty := openingFull + openingEmpty + d.FullPurchase + d.EmptyPurchase -
		d.FullCylinderSales - d.EmptyCylinderSales -
		d.Deposits + d.Returns -
		d.TransferEmpty + d.ReceivedEmpty -
		r.Full
	if rawEmpty < 0 {
		r.ClampedEmpty = true
		rawEmpty = 0
	}
	r.Empty = rawEmpty

	return r
}
