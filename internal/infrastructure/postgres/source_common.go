package postgres

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gascontrol-api/internal/domain"
)

// dayWindow traduce un día calendario del negocio al rango UTC [inicio, fin)
// de sus timestamps. Las tablas transaccionales guardan timestamptz; el corte
// por día se hace siempre en la zona horaria del negocio.
func dayWindow(day time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// countFromDecimal convierte una cantidad NUMERIC a conteo entero de unidades.
// Las ventas guardan cantidades con decimales por productos a granel; para
// cilindros siempre son enteras, así que truncar es seguro.
func countFromDecimal(d decimal.Decimal) int {
	return int(d.IntPart())
}

func sourceErr(source, op string, err error) error {
	return fmt.Errorf("%w: %s: %s: %v", domain.ErrSourceUnavailable, source, op, err)
}
