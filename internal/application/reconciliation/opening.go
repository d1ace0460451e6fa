package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/gascontrol-api/internal/domain"
	"github.com/jhoicas/gascontrol-api/internal/domain/entity"
	"github.com/jhoicas/gascontrol-api/internal/domain/repository"
)

// Opening es la apertura resuelta de (día, producto) con su procedencia.
type Opening struct {
	Full     int
	Empty    int
	Source   entity.OpeningSource
	Warnings []entity.Warning
}

// OpeningResolver determina la apertura correcta de un día, en orden de
// prioridad (gana la primera que aplique):
//
//  1. Registro almacenado con apertura ya resuelta (opening_source no vacío):
//     se usa tal cual, congelada.
//  2. Arrastre: cierre almacenado del día anterior; se persiste de inmediato
//     para que lecturas repetidas sean estables y no rederiven.
//  3. Arranque en frío: foto del inventario vivo. Solo es correcto el primer
//     día que se rastrea el producto; todos los siguientes resuelven por 1 o 2.
//
// Las filas anteriores a la columna opening_source se migran sobre la marcha:
// apertura no cero se congela tal cual; apertura 0/0 es ambigua ("nunca
// calculada" vs "stock realmente cero") y se rederiva por arrastre con una
// nota de calidad de datos.
type OpeningResolver struct {
	inventory repository.InventorySnapshot
}

// NewOpeningResolver construye el resolutor.
func NewOpeningResolver(inventory repository.InventorySnapshot) *OpeningResolver {
	return &OpeningResolver{inventory: inventory}
}

// Resolve corre la máquina de estados sobre el ledger atado a la transacción
// de la corrida (el lock por clave ya está tomado por el LedgerTxRunner).
func (r *OpeningResolver) Resolve(ctx context.Context, ledger repository.LedgerRepository, day time.Time, p entity.Product) (Opening, error) {
	stored, err := ledger.Get(ctx, day, p.Key)
	if err != nil {
		return Opening{}, fmt.Errorf("leer registro almacenado: %w", err)
	}

	// 1. Apertura ya resuelta: congelada, se usa tal cual.
	if stored != nil && stored.OpeningSource != "" {
		return Opening{Full: stored.OpeningFull, Empty: stored.OpeningEmpty, Source: stored.OpeningSource}, nil
	}

	// Fila legada con señal: apertura no cero sin procedencia, se congela.
	if stored != nil && (stored.OpeningFull != 0 || stored.OpeningEmpty != 0) {
		if err := ledger.ResolveOpening(ctx, day, p.Key, p.Name, stored.OpeningFull, stored.OpeningEmpty, entity.OpeningFrozen); err != nil {
			return Opening{}, fmt.Errorf("congelar apertura legada: %w", err)
		}
		return Opening{Full: stored.OpeningFull, Empty: stored.OpeningEmpty, Source: entity.OpeningFrozen}, nil
	}

	// 2. Arrastre desde el cierre del día anterior.
	prevFull, prevEmpty, ok, err := ledger.GetClosing(ctx, day.AddDate(0, 0, -1), p.Key)
	if err != nil {
		return Opening{}, fmt.Errorf("leer cierre del día anterior: %w", err)
	}
	if ok {
		op := Opening{Full: prevFull, Empty: prevEmpty, Source: entity.OpeningCarryForward}
		if stored != nil {
			// Había fila 0/0 sin procedencia y existe candidato de arrastre:
			// se prefiere el arrastre y queda la nota de ambigüedad.
			op.Warnings = append(op.Warnings, entity.Warning{
				Code:       entity.WarnAmbiguousOpening,
				ProductKey: p.Key,
				Message:    "apertura almacenada en cero sin procedencia; se rederivó por arrastre del día anterior",
			})
		}
		if err := ledger.ResolveOpening(ctx, day, p.Key, p.Name, op.Full, op.Empty, op.Source); err != nil {
			return Opening{}, fmt.Errorf("persistir apertura por arrastre: %w", err)
		}
		return op, nil
	}

	// 3. Arranque en frío desde el inventario vivo.
	op := Opening{Source: entity.OpeningColdStart}
	avail, err := r.inventory.GetCurrentAvailability(ctx, p.Key)
	switch {
	case err == nil:
		op.Full = avail.AvailableFull
		op.Empty = avail.AvailableEmpty
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownProductKey):
		// Producto sin foto de inventario: arranca en cero.
	default:
		return Opening{}, fmt.Errorf("leer inventario vivo: %w", err)
	}
	if err := ledger.ResolveOpening(ctx, day, p.Key, p.Name, op.Full, op.Empty, op.Source); err != nil {
		return Opening{}, fmt.Errorf("persistir apertura de arranque en frío: %w", err)
	}
	return op, nil
}
