package pets

import "time"

// Species define las especies soportadas.
// @Enum Perro, Gato, Ave, Reptil, Roedor, Otro
type Species string

const (
	SpeciesPerro  Species = "Perro"
	SpeciesGato   Species = "Gato"
	SpeciesAve    Species = "Ave"
	SpeciesReptil Species = "Reptil"
	SpeciesRoedor Species = "Roedor"
	SpeciesOtro   Species = "Otro"
)

func ParseSpecies(s string) (Species, bool) {
	switch Species(s) {
	case SpeciesPerro, SpeciesGato, SpeciesAve, SpeciesReptil, SpeciesRoedor, SpeciesOtro:
		return Species(s), true
	default:
		return "", false
	}
}

// Sex define el sexo de la mascota.
// @Enum Macho, Hembra
type Sex string

const (
	SexMacho  Sex = "Macho"
	SexHembra Sex = "Hembra"
)

func ParseSex(s string) (Sex, bool) {
	switch Sex(s) {
	case SexMacho, SexHembra:
		return Sex(s), true
	default:
		return "", false
	}
}

// Pet pertenece a exactamente un usuario (PropietarioID es la referencia
// autoritativa; la lista User.mascotas es solo una back-reference cacheada).
// HistorialID apunta al historial médico, a lo sumo uno.
type Pet struct {
	ID              string    `bson:"_id"`
	Nombre          string    `bson:"nombre"`
	Especie         Species   `bson:"especie"`
	Raza            string    `bson:"raza"`
	FechaNacimiento time.Time `bson:"fecha_nacimiento"`
	Sexo            Sex       `bson:"sexo"`
	Color           string    `bson:"color"`
	Foto            string    `bson:"foto"`
	Esterilizado    bool      `bson:"esterilizado"`
	PropietarioID   string    `bson:"id_propietario"`
	HistorialID     string    `bson:"historial_medico,omitempty"`

	FechaRegistro time.Time `bson:"fecha_registro"`
}
