package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrUnknownProductKey  = errors.New("producto no registrado en el catálogo")
	ErrPersistenceFailure = errors.New("no se pudo guardar el registro del libro de stock")
	ErrSourceUnavailable  = errors.New("fuente de transacciones no disponible")
)
