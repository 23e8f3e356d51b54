package histories

import "time"

// Gravedad de una alergia registrada.
type Severity string

const (
	SeverityLeve     Severity = "Leve"
	SeverityModerada Severity = "Moderada"
	SeveritySevera   Severity = "Severa"
)

func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeverityLeve, SeverityModerada, SeveritySevera:
		return Severity(s), true
	}
	return "", false
}

type Vacuna struct {
	Nombre       string    `bson:"nombre" json:"nombre"`
	Fecha        time.Time `bson:"fecha" json:"fecha"`
	ProximaFecha time.Time `bson:"proxima_fecha" json:"proxima_fecha"`
	Lote         string    `bson:"lote,omitempty" json:"lote,omitempty"`
	Veterinario  string    `bson:"veterinario,omitempty" json:"veterinario,omitempty"`
}

type Alergia struct {
	Sustancia string   `bson:"sustancia" json:"sustancia"`
	Gravedad  Severity `bson:"gravedad" json:"gravedad"`
	Reaccion  string   `bson:"reaccion,omitempty" json:"reaccion,omitempty"`
}

type Cirugia struct {
	Nombre         string    `bson:"nombre" json:"nombre"`
	Fecha          time.Time `bson:"fecha" json:"fecha"`
	Veterinario    string    `bson:"veterinario,omitempty" json:"veterinario,omitempty"`
	Descripcion    string    `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	Complicaciones string    `bson:"complicaciones,omitempty" json:"complicaciones,omitempty"`
}

type Medicamento struct {
	Nombre     string `bson:"nombre" json:"nombre"`
	Dosis      string `bson:"dosis,omitempty" json:"dosis,omitempty"`
	Frecuencia string `bson:"frecuencia,omitempty" json:"frecuencia,omitempty"`
}

// MedicalHistory es el historial médico de una mascota. Cada mascota tiene
// a lo sumo uno; la referencia inversa vive en la mascota.
type MedicalHistory struct {
	ID                   string        `bson:"_id" json:"id"`
	PetID                string        `bson:"id_mascota" json:"id_mascota"`
	Vacunas              []Vacuna      `bson:"vacunas" json:"vacunas"`
	Alergias             []Alergia     `bson:"alergias" json:"alergias"`
	Cirugias             []Cirugia     `bson:"cirugias" json:"cirugias"`
	EnfermedadesCronicas []string      `bson:"enfermedades_cronicas" json:"enfermedades_cronicas"`
	MedicamentosActuales []Medicamento `bson:"medicamentos_actuales" json:"medicamentos_actuales"`
	NotasGenerales       string        `bson:"notas_generales,omitempty" json:"notas_generales,omitempty"`
	FechaCreacion        time.Time     `bson:"fecha_creacion" json:"fecha_creacion"`
}
