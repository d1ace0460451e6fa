// Package reconcile contiene la lógica pura del motor de conciliación diaria:
// las familias de deltas, la tabla de exclusividad por fuente y la fórmula de
// cierre. Sin I/O: todo entra y sale por parámetros (servicio de dominio).
package reconcile

import (
	"fmt"
	"sort"

	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
)

// DeltaFamily identifica una de las doce familias de movimientos diarios.
type DeltaFamily string

const (
	FamilyEmptyPurchase      DeltaFamily = "empty_purchase"
	FamilyFullPurchase       DeltaFamily = "full_purchase"
	FamilyRefilled           DeltaFamily = "refilled"
	FamilyFullCylinderSales  DeltaFamily = "full_cylinder_sales"
	FamilyEmptyCylinderSales DeltaFamily = "empty_cylinder_sales"
	FamilyGasSales           DeltaFamily = "gas_sales"
	FamilyDeposits           DeltaFamily = "deposits"
	FamilyReturns            DeltaFamily = "returns"
	FamilyTransferGas        DeltaFamily = "transfer_gas"
	FamilyTransferEmpty      DeltaFamily = "transfer_empty"
	FamilyReceivedGas        DeltaFamily = "received_gas"
	FamilyReceivedEmpty      DeltaFamily = "received_empty"
)

// Families lista todas las familias en orden estable (útil para validación y logs).
func Families() []DeltaFamily {
	return []DeltaFamily{
		FamilyEmptyPurchase, FamilyFullPurchase, FamilyRefilled,
		FamilyFullCylinderSales, FamilyEmptyCylinderSales, FamilyGasSales,
		FamilyDeposits, FamilyReturns,
		FamilyTransferGas, FamilyTransferEmpty,
		FamilyReceivedGas, FamilyReceivedEmpty,
	}
}

// FamilyDeltas es la contribución de una fuente para un (día, producto):
// conteos por familia. Las fuentes solo emiten familias que les pertenecen.
type FamilyDeltas map[DeltaFamily]int

// Add acumula n en la familia f (los conteos negativos se rechazan arriba,
// en la normalización de cada adaptador).
func (fd FamilyDeltas) Add(f DeltaFamily, n int) {
	fd[f] += n
}

// Apply vuelca el conteo de una familia sobre el struct de deltas del registro.
func Apply(d *entity.DayDeltas, f DeltaFamily, n int) {
	switch f {
	case FamilyEmptyPurchase:
		d.EmptyPurchase += n
	case FamilyFullPurchase:
		d.FullPurchase += n
	case FamilyRefilled:
		d.Refilled += n
	case FamilyFullCylinderSales:
		d.FullCylinderSales += n
	case FamilyEmptyCylinderSales:
		d.EmptyCylinderSales += n
	case FamilyGasSales:
		d.GasSales += n
	case FamilyDeposits:
		d.Deposits += n
	case FamilyReturns:
		d.Returns += n
	case FamilyTransferGas:
		d.TransferGas += n
	case FamilyTransferEmpty:
		d.TransferEmpty += n
	case FamilyReceivedGas:
		d.ReceivedGas += n
	case FamilyReceivedEmpty:
		d.ReceivedEmpty += n
	}
}

// Ownership declara qué fuente es autoritativa para cada familia.
// Es el invariante central contra el doble conteo: varias fuentes pueden
// describir el mismo evento físico, pero solo la dueña de la familia cuenta.
type Ownership map[DeltaFamily]string

// NewOwnership valida la tabla en el arranque: cada familia debe tener
// exactamente un dueño y no puede haber familias desconocidas.
func NewOwnership(m map[DeltaFamily]string) (Ownership, error) {
	known := make(map[DeltaFamily]bool, 12)
	for _, f := range Families() {
		known[f] = true
	}
	for f, src := range m {
		if !known[f] {
			return nil, fmt.Errorf("ownership: familia desconocida %q", f)
		}
		if src == "" {
			return nil, fmt.Errorf("ownership: familia %q sin fuente dueña", f)
		}
	}
	var missing []string
	for _, f := range Families() {
		if m[f] == "" {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("ownership: familias sin dueño: %v", missing)
	}
	out := make(Ownership, len(m))
	for f, src := range m {
		out[f] = src
	}
	return out, nil
}

// Owner devuelve la fuente dueña de la familia.
func (o Ownership) Owner(f DeltaFamily) string { return o[f] }

// Nombres canónicos de las fuentes de transacciones.
const (
	SourceSales     = "sales"
	SourceRefills   = "refills"
	SourceDeposits  = "deposits"
	SourceTransfers = "transfers"
	SourcePurchases = "purchases"
)

// DefaultOwnership es la asignación de producción: ventas de gas y de
// cilindros salen solo del registro de ventas; los traslados, aunque también
// aparecen agregados en ventas diarias, cuentan únicamente desde la fuente
// granular de asignaciones de stock.
func DefaultOwnership() Ownership {
	o, err := NewOwnership(map[DeltaFamily]string{
		FamilyEmptyPurchase:      SourcePurchases,
		FamilyFullPurchase:       SourcePurchases,
		FamilyRefilled:           SourceRefills,
		FamilyFullCylinderSales:  SourceSales,
		FamilyEmptyCylinderSales: SourceSales,
		FamilyGasSales:           SourceSales,
		FamilyDeposits:           SourceDeposits,
		FamilyReturns:            SourceDeposits,
		FamilyTransferGas:        SourceTransfers,
		FamilyTransferEmpty:      SourceTransfers,
		FamilyReceivedGas:        SourceTransfers,
		FamilyReceivedEmpty:      SourceTransfers,
	})
	if err != nil {
		// La tabla por defecto es estática; si no valida es un bug de programación.
		panic(err)
	}
	return o
}
