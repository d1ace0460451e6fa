package reconciliation_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gascontrol-api/internal/application/reconciliation"
	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
	"github.com/jhoicas/gascontrol-api/internal/domain/reconcile"
)

// ──────────────────────────────────────────────────────────────────────────────
// Agregador — exclusividad por familia y conmutatividad
// ──────────────────────────────────────────────────────────────────────────────

// El mismo evento físico reportado por dos fuentes (un traslado que también
// aparece en el agregado de ventas) debe contar exactamente una vez: la
// contribución de la fuente no dueña es provablemente cero.
func TestMerge_SinDobleConteo(t *testing.T) {
	agg := reconciliation.NewAggregator(reconcile.DefaultOwnership())

	soloDuena := []reconciliation.SourceResult{
		{Source: reconcile.SourceTransfers, Deltas: reconcile.FamilyDeltas{reconcile.FamilyTransferGas: 3}},
	}
	ambas := []reconciliation.SourceResult{
		{Source: reconcile.SourceTransfers, Deltas: reconcile.FamilyDeltas{reconcile.FamilyTransferGas: 3}},
		// La fuente de ventas también "vio" el traslado en su agregado diario.
		{Source: reconcile.SourceSales, Deltas: reconcile.FamilyDeltas{reconcile.FamilyTransferGas: 3}},
	}

	d1, _ := agg.Merge("cilindro 20kg", soloDuena)
	d2, warns := agg.Merge("cilindro 20kg", ambas)

	assert.Equal(t, d1, d2, "la segunda fuente no debe alterar el agregado")
	assert.Equal(t, 3, d2.TransferGas)

	var excluida bool
	for _, w := range warns {
		if w.Code == entity.WarnExcludedSource {
			excluida = true
		}
	}
	assert.True(t, excluida, "la contribución descartada debe quedar registrada")
}

// Fuente caída: contribuye cero, deja advertencia y no aborta.
func TestMerge_FuenteCaida(t *testing.T) {
	agg := reconciliation.NewAggregator(reconcile.DefaultOwnership())

	results := []reconciliation.SourceResult{
		{Source: reconcile.SourceSales, Deltas: reconcile.FamilyDeltas{reconcile.FamilyGasSales: 7}},
		{Source: reconcile.SourceRefills, Err: fmt.Errorf("timeout")},
	}
	deltas, warns := agg.Merge("cilindro 20kg", results)

	assert.Equal(t, 7, deltas.GasSales)
	assert.Equal(t, 0, deltas.Refilled)
	assert.Len(t, warns, 1)
	assert.Equal(t, entity.WarnSourceUnavailable, warns[0].Code)
}

// Conmutatividad: barajar el orden de las fuentes no cambia el agregado.
func TestMerge_Conmutativo(t *testing.T) {
	agg := reconciliation.NewAggregator(reconcile.DefaultOwnership())

	results := []reconciliation.SourceResult{
		{Source: reconcile.SourceSales, Deltas: reconcile.FamilyDeltas{
			reconcile.FamilyGasSales: 4, reconcile.FamilyFullCylinderSales: 2,
		}},
		{Source: reconcile.SourcePurchases, Deltas: reconcile.FamilyDeltas{
			reconcile.FamilyFullPurchase: 6, reconcile.FamilyEmptyPurchase: 1,
		}},
		{Source: reconcile.SourceRefills, Deltas: reconcile.FamilyDeltas{reconcile.FamilyRefilled: 5}},
		{Source: reconcile.SourceDeposits, Deltas: reconcile.FamilyDeltas{
			reconcile.FamilyDeposits: 2, reconcile.FamilyReturns: 1,
		}},
		{Source: reconcile.SourceTransfers, Deltas: reconcile.FamilyDeltas{
			reconcile.FamilyTransferEmpty: 3, reconcile.FamilyReceivedGas: 2,
		}},
	}

	base, _ := agg.Merge("cilindro 20kg", results)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := make([]reconciliation.SourceResult, len(results))
		copy(shuffled, results)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, _ := agg.Merge("cilindro 20kg", shuffled)
		assert.Equal(t, base, got, "iteración %d", i)
	}
}

// Valores no positivos de una fuente se ignoran (la normalización del
// adaptador nunca debería emitirlos).
func TestMerge_IgnoraNoPositivos(t *testing.T) {
	agg := reconciliation.NewAggregator(reconcile.DefaultOwnership())

	deltas, warns := agg.Merge("cilindro 20kg", []reconciliation.SourceResult{
		{Source: reconcile.SourceSales, Deltas: reconcile.FamilyDeltas{
			reconcile.FamilyGasSales:          -5,
			reconcile.FamilyFullCylinderSales: 0,
		}},
	})

	assert.Equal(t, entity.DayDeltas{}, deltas)
	assert.Empty(t, warns)
}
