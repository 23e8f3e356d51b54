// Package memory implementa los repositorios sobre mapas en memoria,
// protegidos con RWMutex. Se usa en desarrollo y en los tests de
// integración; el arranque elige entre este paquete y mongo según la
// configuración.
package memory

import (
	"context"
	"sort"
	"sync"

	"vetclinic-api/internal/domain/users"
	"vetclinic-api/internal/ports/auth"
)

type UserRepository struct {
	mu   sync.RWMutex
	byID map[string]users.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]users.User{}}
}

func (r *UserRepository) Create(_ context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (r *UserRepository) List(_ context.Context, f users.ListFilter, skip, limit int) ([]users.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []users.User
	for _, u := range r.byID {
		if f.Rol != "" && u.Rol != f.Rol {
			continue
		}
		all = append(all, u)
	}
	// Orden estable por fecha de registro, como el índice de la colección.
	sort.Slice(all, func(i, j int) bool {
		if all[i].FechaRegistro.Equal(all[j].FechaRegistro) {
			return all[i].ID < all[j].ID
		}
		return all[i].FechaRegistro.Before(all[j].FechaRegistro)
	})

	total := len(all)
	if skip >= total {
		return []users.User{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	out := make([]users.User, end-skip)
	copy(out, all[skip:end])
	return out, total, nil
}

func (r *UserRepository) Update(_ context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return users.ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return users.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *UserRepository) AddPetRef(_ context.Context, userID, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return users.ErrNotFound
	}
	for _, id := range u.Mascotas {
		if id == petID {
			return nil
		}
	}
	u.Mascotas = append(u.Mascotas, petID)
	r.byID[userID] = u
	return nil
}

func (r *UserRepository) RemovePetRef(_ context.Context, userID, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return users.ErrNotFound
	}
	kept := make([]string, 0, len(u.Mascotas))
	for _, id := range u.Mascotas {
		if id != petID {
			kept = append(kept, id)
		}
	}
	u.Mascotas = kept
	r.byID[userID] = u
	return nil
}

func (r *UserRepository) AnyWithRole(_ context.Context, rol auth.Role) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Rol == rol {
			return true, nil
		}
	}
	return false, nil
}
