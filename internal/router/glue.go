package router

import (
	"context"
	"errors"

	"vetclinic-api/internal/domain/appointments"
	"vetclinic-api/internal/domain/histories"
	"vetclinic-api/internal/domain/pets"
	"vetclinic-api/internal/domain/users"
)

// Los módulos de dominio declaran interfaces chicas sobre lo que necesitan
// de los demás; acá se implementan como adapters sobre los repositorios.
// Así ningún módulo importa a otro módulo de dominio y el grafo de
// dependencias queda sin ciclos.

// userPetDirectory implementa users.PetDirectory.
type userPetDirectory struct {
	pets      pets.Repository
	histories histories.Repository
}

func (d *userPetDirectory) PetsByOwner(ctx context.Context, ownerID string) ([]users.PetSummary, error) {
	items, err := d.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]users.PetSummary, 0, len(items))
	for _, p := range items {
		out = append(out, users.PetSummary{
			ID:      p.ID,
			Nombre:  p.Nombre,
			Especie: string(p.Especie),
			Raza:    p.Raza,
		})
	}
	return out, nil
}

func (d *userPetDirectory) PetIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	items, err := d.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out, nil
}

func (d *userPetDirectory) DeleteHistoryByPet(ctx context.Context, petID string) (bool, error) {
	h, err := d.histories.GetByPet(ctx, petID)
	if errors.Is(err, histories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := d.histories.Delete(ctx, h.ID); err != nil {
		return false, err
	}
	return true, nil
}

func (d *userPetDirectory) DeletePet(ctx context.Context, petID string) error {
	return d.pets.Delete(ctx, petID)
}

// petOwnerDirectory implementa pets.OwnerDirectory.
type petOwnerDirectory struct {
	users users.Repository
}

func (d *petOwnerDirectory) OwnerSummary(ctx context.Context, userID string) (pets.OwnerSummary, bool, error) {
	u, err := d.users.GetByID(ctx, userID)
	if errors.Is(err, users.ErrNotFound) {
		return pets.OwnerSummary{}, false, nil
	}
	if err != nil {
		return pets.OwnerSummary{}, false, err
	}
	return pets.OwnerSummary{
		ID:       u.ID,
		Nombre:   u.Nombre,
		Email:    u.Email,
		Telefono: u.Telefono,
	}, true, nil
}

func (d *petOwnerDirectory) AttachPet(ctx context.Context, userID, petID string) error {
	return d.users.AddPetRef(ctx, userID, petID)
}

func (d *petOwnerDirectory) DetachPet(ctx context.Context, userID, petID string) error {
	err := d.users.RemovePetRef(ctx, userID, petID)
	if errors.Is(err, users.ErrNotFound) {
		// El dueño puede haber sido borrado antes que la mascota.
		return nil
	}
	return err
}

// petHistoryStore implementa pets.HistoryStore.
type petHistoryStore struct {
	histories histories.Repository
}

func (s *petHistoryStore) HistoryByPet(ctx context.Context, petID string) (histories.MedicalHistory, bool, error) {
	h, err := s.histories.GetByPet(ctx, petID)
	if errors.Is(err, histories.ErrNotFound) {
		return histories.MedicalHistory{}, false, nil
	}
	if err != nil {
		return histories.MedicalHistory{}, false, err
	}
	return h, true, nil
}

func (s *petHistoryStore) DeleteByPet(ctx context.Context, petID string) (bool, error) {
	h, err := s.histories.GetByPet(ctx, petID)
	if errors.Is(err, histories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := s.histories.Delete(ctx, h.ID); err != nil {
		return false, err
	}
	return true, nil
}

// historyPetDirectory implementa histories.PetDirectory.
type historyPetDirectory struct {
	pets  pets.Repository
	users users.Repository
}

func (d *historyPetDirectory) PetInfo(ctx context.Context, petID string) (histories.PetInfo, bool, error) {
	p, err := d.pets.GetByID(ctx, petID)
	if errors.Is(err, pets.ErrNotFound) {
		return histories.PetInfo{}, false, nil
	}
	if err != nil {
		return histories.PetInfo{}, false, err
	}

	info := histories.PetInfo{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Especie:     string(p.Especie),
		Raza:        p.Raza,
		HistorialID: p.HistorialID,
	}
	if u, err := d.users.GetByID(ctx, p.PropietarioID); err == nil {
		info.Propietario = histories.OwnerInfo{
			ID:       u.ID,
			Nombre:   u.Nombre,
			Email:    u.Email,
			Telefono: u.Telefono,
		}
	} else if !errors.Is(err, users.ErrNotFound) {
		return histories.PetInfo{}, false, err
	}
	return info, true, nil
}

func (d *historyPetDirectory) PetIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	items, err := d.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out, nil
}

func (d *historyPetDirectory) SetHistoryRef(ctx context.Context, petID, historyID string) error {
	err := d.pets.SetHistoryRef(ctx, petID, historyID)
	if errors.Is(err, pets.ErrNotFound) {
		return histories.ErrPetNotFound
	}
	return err
}

func (d *historyPetDirectory) ClearHistoryRef(ctx context.Context, petID string) error {
	err := d.pets.ClearHistoryRef(ctx, petID)
	if errors.Is(err, pets.ErrNotFound) {
		return histories.ErrPetNotFound
	}
	return err
}

// appointmentPetDirectory implementa appointments.PetDirectory.
type appointmentPetDirectory struct {
	pets pets.Repository
}

func (d *appointmentPetDirectory) PetInfo(ctx context.Context, petID string) (appointments.PetInfo, bool, error) {
	p, err := d.pets.GetByID(ctx, petID)
	if errors.Is(err, pets.ErrNotFound) {
		return appointments.PetInfo{}, false, nil
	}
	if err != nil {
		return appointments.PetInfo{}, false, err
	}
	return appointments.PetInfo{
		ID:      p.ID,
		Nombre:  p.Nombre,
		Especie: string(p.Especie),
		Raza:    p.Raza,
		OwnerID: p.PropietarioID,
	}, true, nil
}

func (d *appointmentPetDirectory) PetIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	items, err := d.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out, nil
}

// appointmentVetDirectory implementa appointments.VetDirectory.
type appointmentVetDirectory struct {
	users users.Repository
}

func (d *appointmentVetDirectory) VetInfo(ctx context.Context, userID string) (appointments.VetInfo, bool, error) {
	u, err := d.users.GetByID(ctx, userID)
	if errors.Is(err, users.ErrNotFound) {
		return appointments.VetInfo{}, false, nil
	}
	if err != nil {
		return appointments.VetInfo{}, false, err
	}
	return appointments.VetInfo{
		ID:       u.ID,
		Nombre:   u.Nombre,
		Email:    u.Email,
		Telefono: u.Telefono,
		Rol:      u.Rol,
	}, true, nil
}
