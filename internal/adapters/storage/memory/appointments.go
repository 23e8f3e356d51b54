package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"vetclinic-api/internal/domain/appointments"
)

type AppointmentRepository struct {
	mu   sync.RWMutex
	byID map[string]appointments.Appointment
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{byID: map[string]appointments.Appointment{}}
}

func (r *AppointmentRepository) Create(_ context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = a
	return nil
}

func (r *AppointmentRepository) GetByID(_ context.Context, id string) (appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return a, nil
}

func (r *AppointmentRepository) List(_ context.Context) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(appointments.Appointment) bool { return true }), nil
}

func (r *AppointmentRepository) ListByPets(_ context.Context, petIDs []string) ([]appointments.Appointment, error) {
	wanted := make(map[string]bool, len(petIDs))
	for _, id := range petIDs {
		wanted[id] = true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(a appointments.Appointment) bool { return wanted[a.PetID] }), nil
}

func (r *AppointmentRepository) ListByVet(_ context.Context, vetID string) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(a appointments.Appointment) bool { return a.VetID == vetID }), nil
}

func (r *AppointmentRepository) sorted(keep func(appointments.Appointment) bool) []appointments.Appointment {
	out := make([]appointments.Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FechaHora.Equal(out[j].FechaHora) {
			return out[i].ID < out[j].ID
		}
		return out[i].FechaHora.Before(out[j].FechaHora)
	})
	return out
}

func (r *AppointmentRepository) Update(_ context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return appointments.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *AppointmentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return appointments.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *AppointmentRepository) HasConflict(_ context.Context, vetID string, from, to time.Time, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byID {
		if a.VetID != vetID || a.ID == excludeID || a.Estado == appointments.StatusCancelada {
			continue
		}
		if a.FechaHora.After(from) && a.FechaHora.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *AppointmentRepository) ListUpcoming(_ context.Context, petIDs []string, after time.Time) ([]appointments.Appointment, error) {
	wanted := make(map[string]bool, len(petIDs))
	for _, id := range petIDs {
		wanted[id] = true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(a appointments.Appointment) bool {
		if !wanted[a.PetID] || !a.FechaHora.After(after) {
			return false
		}
		return a.Estado == appointments.StatusProgramada || a.Estado == appointments.StatusConfirmada
	}), nil
}
