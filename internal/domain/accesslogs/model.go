package accesslogs

import "time"

// Entry es el registro append-only de un request HTTP. Nunca se actualiza
// ni se borra; existe solo para auditoría.
type Entry struct {
	ID         string    `bson:"_id"`
	UsuarioID  string    `bson:"id_usuario,omitempty"` // vacío = request anónimo
	Endpoint   string    `bson:"endpoint"`
	Metodo     string    `bson:"metodo"`
	IP         string    `bson:"ip"`
	UserAgent  string    `bson:"user_agent"`
	StatusCode int       `bson:"status_code"`
	Fecha      time.Time `bson:"fecha"`
}
