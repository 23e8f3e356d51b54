package appointments

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)

	// Los listados vienen ordenados por fecha_hora ascendente.
	List(ctx context.Context) ([]Appointment, error)
	ListByPets(ctx context.Context, petIDs []string) ([]Appointment, error)
	ListByVet(ctx context.Context, vetID string) ([]Appointment, error)

	Update(ctx context.Context, a Appointment) error
	Delete(ctx context.Context, id string) error

	// HasConflict reporta si el veterinario tiene otra cita no cancelada
	// dentro del intervalo abierto (from, to); excludeID se ignora para
	// poder reprogramar. Una cita exactamente en el borde no choca.
	HasConflict(ctx context.Context, vetID string, from, to time.Time, excludeID string) (bool, error)

	// ListUpcoming devuelve citas Programadas o Confirmadas de esas
	// mascotas con fecha posterior a after.
	ListUpcoming(ctx context.Context, petIDs []string, after time.Time) ([]Appointment, error)
}
