package entity

// Availability es la foto del inventario vivo de un producto.
// El motor solo la usa para el arranque en frío del balance de apertura
// (primer día que se rastrea el producto).
type Availability struct {
	ProductKey     string
	AvailableFull  int
	AvailableEmpty int
	CurrentStock   int
}
