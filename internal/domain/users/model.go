package users

import (
	"time"

	"vetclinic-api/internal/ports/auth"
)

// User representa una cuenta del sistema: identidad + rol.
// Password guarda únicamente el hash bcrypt, nunca el texto plano.
// Mascotas es una back-reference mantenida a mano; la referencia
// autoritativa es Pet.id_propietario.
type User struct {
	ID        string    `bson:"_id"`
	Nombre    string    `bson:"nombre"`
	Email     string    `bson:"email"` // único, siempre en minúsculas
	Password  string    `bson:"password"`
	Telefono  string    `bson:"telefono"`
	Direccion string    `bson:"direccion"`
	Rol       auth.Role `bson:"rol"`
	Mascotas  []string  `bson:"mascotas"`

	FechaRegistro time.Time `bson:"fecha_registro"`
}
