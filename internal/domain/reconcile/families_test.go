package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
)

// La tabla por defecto debe cubrir las doce familias con exactamente un dueño.
func TestDefaultOwnership_Completa(t *testing.T) {
	own := reconcile.DefaultOwnership()
	for _, f := range reconcile.Families() {
		assert.NotEmpty(t, own.Owner(f), "familia %s sin dueño", f)
	}
	// Los traslados pertenecen a la fuente granular, no al agregado de ventas.
	assert.Equal(t, reconcile.SourceTransfers, own.Owner(reconcile.FamilyTransferGas))
	assert.Equal(t, reconcile.SourceTransfers, own.Owner(reconcile.FamilyReceivedEmpty))
	assert.Equal(t, reconcile.SourceSales, own.Owner(reconcile.FamilyGasSales))
}

// Familia sin dueño: la validación de arranque debe rechazar la tabla.
func TestNewOwnership_FamiliaSinDueno(t *testing.T) {
	m := map[reconcile.DeltaFamily]string{}
	for _, f := range reconcile.Families() {
		m[f] = reconcile.SourceSales
	}
	delete(m, reconcile.FamilyRefilled)

	_, err := reconcile.NewOwnership(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refilled")
}

// Familia desconocida: error explícito, no silencio.
func TestNewOwnership_FamiliaDesconocida(t *testing.T) {
	m := map[reconcile.DeltaFamily]string{"ventas_fantasma": reconcile.SourceSales}
	_, err := reconcile.NewOwnership(m)
	require.Error(t, err)
}

// Apply debe volcar cada familia sobre su campo del registro.
func TestApply_TodasLasFamilias(t *testing.T) {
	var d entity.DayDeltas
	for i, f := range reconcile.Families() {
		reconcile.Apply(&d, f, i+1)
	}
	want := entity.DayDeltas{
		EmptyPurchase: 1, FullPurchase: 2, Refilled: 3,
		FullCylinderSales: 4, EmptyCylinderSales: 5, GasSales: 6,
		Deposits: 7, Returns: 8,
		TransferGas: 9, TransferEmpty: 10,
		ReceivedGas: 11, ReceivedEmpty: 12,
	}
	assert.Equal(t, want, d)
}
