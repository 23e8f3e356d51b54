package memory

import (
	"context"
	"sort"
	"sync"

	"vetclinic-api/internal/domain/pets"
)

type PetRepository struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepository() *PetRepository {
	return &PetRepository{byID: map[string]pets.Pet{}}
}

func (r *PetRepository) Create(_ context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
	return nil
}

func (r *PetRepository) GetByID(_ context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *PetRepository) List(_ context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(pets.Pet) bool { return true }), nil
}

func (r *PetRepository) ListByOwner(_ context.Context, ownerID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(p pets.Pet) bool { return p.PropietarioID == ownerID }), nil
}

// sorted asume el lock tomado.
func (r *PetRepository) sorted(keep func(pets.Pet) bool) []pets.Pet {
	out := make([]pets.Pet, 0, len(r.byID))
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FechaRegistro.Equal(out[j].FechaRegistro) {
			return out[i].ID < out[j].ID
		}
		return out[i].FechaRegistro.Before(out[j].FechaRegistro)
	})
	return out
}

func (r *PetRepository) Update(_ context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return pets.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *PetRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pets.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *PetRepository) SetHistoryRef(_ context.Context, petID, historyID string) error {
	return r.setRef(petID, historyID)
}

func (r *PetRepository) ClearHistoryRef(_ context.Context, petID string) error {
	return r.setRef(petID, "")
}

func (r *PetRepository) setRef(petID, historyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[petID]
	if !ok {
		return pets.ErrNotFound
	}
	p.HistorialID = historyID
	r.byID[petID] = p
	return nil
}
