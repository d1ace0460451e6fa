// Package productkey normaliza nombres de producto hacia la clave de join
// entre fuentes de transacciones heterogéneas (ventas, recargas, traslados...)
// que no comparten foreign key: solo coinciden por nombre escrito a mano.
package productkey

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize produce la clave canónica de un nombre de producto:
// NFC (las fuentes mezclan acentos compuestos y descompuestos),
// minúsculas y espacios colapsados. Dos escrituras del "mismo" producto
// ("Cilindro  20KG", "cilindro 20kg") deben producir la misma clave.
func Normalize(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// Equal compara dos nombres crudos por su clave normalizada.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
