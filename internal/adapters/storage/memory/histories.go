package memory

import (
	"context"
	"sort"
	"sync"

	"vetclinic-api/internal/domain/histories"
)

type HistoryRepository struct {
	mu   sync.RWMutex
	byID map[string]histories.MedicalHistory
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{byID: map[string]histories.MedicalHistory{}}
}

func (r *HistoryRepository) Create(_ context.Context, h histories.MedicalHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[h.ID] = h
	return nil
}

func (r *HistoryRepository) GetByID(_ context.Context, id string) (histories.MedicalHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byID[id]
	if !ok {
		return histories.MedicalHistory{}, histories.ErrNotFound
	}
	return h, nil
}

func (r *HistoryRepository) GetByPet(_ context.Context, petID string) (histories.MedicalHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.byID {
		if h.PetID == petID {
			return h, nil
		}
	}
	return histories.MedicalHistory{}, histories.ErrNotFound
}

func (r *HistoryRepository) List(_ context.Context) ([]histories.MedicalHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(histories.MedicalHistory) bool { return true }), nil
}

func (r *HistoryRepository) ListByPets(_ context.Context, petIDs []string) ([]histories.MedicalHistory, error) {
	wanted := make(map[string]bool, len(petIDs))
	for _, id := range petIDs {
		wanted[id] = true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(h histories.MedicalHistory) bool { return wanted[h.PetID] }), nil
}

func (r *HistoryRepository) sorted(keep func(histories.MedicalHistory) bool) []histories.MedicalHistory {
	out := make([]histories.MedicalHistory, 0, len(r.byID))
	for _, h := range r.byID {
		if keep(h) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FechaCreacion.Equal(out[j].FechaCreacion) {
			return out[i].ID < out[j].ID
		}
		return out[i].FechaCreacion.Before(out[j].FechaCreacion)
	})
	return out
}

func (r *HistoryRepository) Update(_ context.Context, h histories.MedicalHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[h.ID]; !ok {
		return histories.ErrNotFound
	}
	r.byID[h.ID] = h
	return nil
}

func (r *HistoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return histories.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
