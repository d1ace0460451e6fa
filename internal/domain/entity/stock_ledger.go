package entity

import "time"

// OpeningSource indica cómo se resolvió el balance de apertura de un registro.
// Un valor no vacío significa que la apertura quedó congelada: nunca se
// recalcula para ese día (el cero numérico jamás se usa como señal de estado).
type OpeningSource string

const (
	// OpeningColdStart apertura tomada del inventario vivo (primer día rastreado).
	OpeningColdStart OpeningSource = "cold_start"
	// OpeningCarryForward apertura tomada del cierre del día anterior.
	OpeningCarryForward OpeningSource = "carry_forward"
	// OpeningFrozen apertura heredada de un registro previo con valores no cero
	// (filas anteriores a la columna opening_source).
	OpeningFrozen OpeningSource = "frozen"
)

// DayDeltas son los movimientos del día de un producto, en unidades de
// cilindros o cargas de gas (nunca dinero). Todos no negativos.
type DayDeltas struct {
	EmptyPurchase      int `json:"empty_purchase"`
	FullPurchase       int `json:"full_purchase"`
	Refilled           int `json:"refilled"`
	FullCylinderSales  int `json:"full_cylinder_sales"`
	EmptyCylinderSales int `json:"empty_cylinder_sales"`
	GasSales           int `json:"gas_sales"`
	Deposits           int `json:"deposits"`
	Returns            int `json:"returns"`
	TransferGas        int `json:"transfer_gas"`
	TransferEmpty      int `json:"transfer_empty"`
	ReceivedGas        int `json:"received_gas"`
	ReceivedEmpty      int `json:"received_empty"`
}

// StockLedgerRecord es la unidad de persistencia del libro de stock:
// un registro por (fecha, producto) con apertura, movimientos y cierre.
// La apertura se congela al resolverse; movimientos y cierre se rederivan
// en cada recomputación con los eventos disponibles en ese momento.
type StockLedgerRecord struct {
	Date        time.Time // día calendario (nunca con hora)
	ProductKey  string
	ProductName string

	OpeningFull   int
	OpeningEmpty  int
	OpeningSource OpeningSource

	Deltas DayDeltas

	ClosingFull  int
	ClosingEmpty int

	CreatedAt        time.Time
	LastRecomputedAt time.Time
}

// Códigos de advertencia adjuntos a un resultado de conciliación.
// Ninguno aborta la corrida: el reporte se entrega marcado como provisional.
const (
	WarnSourceUnavailable = "SOURCE_UNAVAILABLE"
	WarnNegativeClamped   = "NEGATIVE_BALANCE_CLAMPED"
	WarnAmbiguousOpening  = "AMBIGUOUS_OPENING"
	WarnUnknownProduct    = "UNKNOWN_PRODUCT_KEY"
	WarnExcludedSource    = "EXCLUDED_SOURCE_CONTRIBUTION"
)

// Warning es una nota de calidad de datos recuperable, visible para el caller.
type Warning struct {
	Code       string `json:"code"`
	ProductKey string `json:"product_key,omitempty"`
	Message    string `json:"message"`
}
