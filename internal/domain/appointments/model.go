package appointments

import "time"

// Status es el estado de una cita. Las transiciones válidas están cerradas
// en CanTransition; Completada y Cancelada son terminales.
type Status string

const (
	StatusProgramada Status = "Programada"
	StatusConfirmada Status = "Confirmada"
	StatusCompletada Status = "Completada"
	StatusCancelada  Status = "Cancelada"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusProgramada, StatusConfirmada, StatusCompletada, StatusCancelada:
		return Status(s), true
	default:
		return "", false
	}
}

var transitions = map[Status][]Status{
	StatusProgramada: {StatusConfirmada, StatusCompletada, StatusCancelada},
	StatusConfirmada: {StatusCompletada, StatusCancelada},
}

// CanTransition responde si una cita en el estado actual puede pasar al
// estado destino. Los estados terminales no admiten salidas.
func (s Status) CanTransition(to Status) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// Terminal indica que el estado no admite más cambios.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

type Appointment struct {
	ID        string    `bson:"_id"`
	PetID     string    `bson:"id_mascota"`
	VetID     string    `bson:"id_veterinario"`
	FechaHora time.Time `bson:"fecha_hora"`
	Motivo    string    `bson:"motivo"`
	Estado    Status    `bson:"estado"`
	Notas     string    `bson:"notas,omitempty"`

	FechaCreacion time.Time `bson:"fecha_creacion"`
}
