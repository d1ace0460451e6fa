package entity

// Categorías de producto. El motor de conciliación solo rastrea cilindros;
// "gas" y "accesorio" existen en el catálogo pero no llevan libro diario.
const (
	CategoryCylinder  = "cylinder"
	CategoryGas       = "gas"
	CategoryAccessory = "accessory"
)

// Product es la vista del catálogo que necesita el motor: la clave normalizada
// (join key entre fuentes heterogéneas) y el nombre para mostrar.
type Product struct {
	Key      string // productkey.Normalize(nombre)
	Name     string // nombre original para mostrar en el reporte
	Category string
}
