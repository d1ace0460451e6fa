package dto

// DailyStockRow es una fila del estado diario de stock de un producto
// (apertura, movimientos del día y cierre), lista para que el renderizador
// del reporte la muestre o exporte. El formato (PDF/CSV) no es asunto del motor.
type DailyStockRow struct {
	ProductKey  string `json:"product_key"`
	ProductName string `json:"product_name"`

	OpeningFull  int `json:"opening_full"`
	OpeningEmpty int `json:"opening_empty"`

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

	ClosingFull  int `json:"closing_full"`
	ClosingEmpty int `json:"closing_empty"`

	OpeningSource string `json:"opening_source,omitempty"`
}

// WarningDTO nota de calidad de datos visible en el reporte.
type WarningDTO struct {
	Code       string `json:"code"`
	ProductKey string `json:"product_key,omitempty"`
	Message    string `json:"message"`
}

// DailyStockReport es el conjunto de filas del día más la fila de gran total.
// Partial indica que alguna fuente no estuvo disponible y las cifras son
// provisionales (el reporte igual se entrega).
type DailyStockReport struct {
	Date     string          `json:"date"` // YYYY-MM-DD
	Rows     []DailyStockRow `json:"rows"`
	Total    DailyStockRow   `json:"total"`
	Partial  bool            `json:"partial"`
	Warnings []WarningDTO    `json:"warnings,omitempty"`
}
