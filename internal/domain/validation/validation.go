// Package validation define el error de validación común a los services:
// acumula mensajes por campo que los handlers devuelven en `errores`.
package validation

import "strings"

type Error struct {
	Errores []string
}

func (e *Error) Error() string {
	return "error de validación: " + strings.Join(e.Errores, "; ")
}

// New devuelve nil si no hay mensajes.
func New(errores []string) error {
	if len(errores) == 0 {
		return nil
	}
	return &Error{Errores: errores}
}
