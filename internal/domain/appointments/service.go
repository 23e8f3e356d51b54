package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"vetclinic-api/internal/domain/validation"
	"vetclinic-api/internal/ports/auth"
)

var (
	ErrNotFound      = errors.New("cita no encontrada")
	ErrPetNotFound   = errors.New("mascota no encontrada")
	ErrVetNotFound   = errors.New("veterinario no encontrado")
	ErrForbidden     = errors.New("sin permisos sobre esta cita")
	ErrConflict      = errors.New("el veterinario ya tiene una cita en ese horario")
	ErrBadTransition = errors.New("transición de estado no permitida")
)

// Dos citas del mismo veterinario no pueden estar a menos de 30 minutos.
const conflictWindow = 30 * time.Minute

type PetInfo struct {
	ID      string
	Nombre  string
	Especie string
	Raza    string
	OwnerID string
}

// PetDirectory lo implementa el router sobre el repo de mascotas.
type PetDirectory interface {
	PetInfo(ctx context.Context, petID string) (PetInfo, bool, error)
	PetIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
}

type VetInfo struct {
	ID       string
	Nombre   string
	Email    string
	Telefono string
	Rol      auth.Role
}

// VetDirectory lo implementa el router sobre el repo de usuarios.
type VetDirectory interface {
	VetInfo(ctx context.Context, userID string) (VetInfo, bool, error)
}

type Service struct {
	repo Repository
	pets PetDirectory
	vets VetDirectory
	now  func() time.Time
}

func NewService(repo Repository, pets PetDirectory, vets VetDirectory) *Service {
	return &Service{repo: repo, pets: pets, vets: vets, now: time.Now}
}

// Detailed es una cita con mascota y veterinario poblados.
type Detailed struct {
	Appointment Appointment
	Mascota     *PetInfo
	Veterinario *VetInfo
}

func (s *Service) detail(ctx context.Context, a Appointment) (Detailed, error) {
	d := Detailed{Appointment: a}
	if info, found, err := s.pets.PetInfo(ctx, a.PetID); err != nil {
		return Detailed{}, err
	} else if found {
		d.Mascota = &info
	}
	if info, found, err := s.vets.VetInfo(ctx, a.VetID); err != nil {
		return Detailed{}, err
	} else if found {
		d.Veterinario = &info
	}
	return d, nil
}

// List: el cliente ve las citas de sus mascotas, el veterinario su agenda,
// admin y recepcionista todo.
func (s *Service) List(ctx context.Context, requester auth.Claims) ([]Detailed, error) {
	var (
		items []Appointment
		err   error
	)
	switch requester.Role {
	case auth.RoleCliente:
		petIDs, derr := s.pets.PetIDsByOwner(ctx, requester.UserID)
		if derr != nil {
			return nil, derr
		}
		items, err = s.repo.ListByPets(ctx, petIDs)
	case auth.RoleVeterinario:
		items, err = s.repo.ListByVet(ctx, requester.UserID)
	default:
		items, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]Detailed, 0, len(items))
	for _, a := range items {
		d, err := s.detail(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

type CreateInput struct {
	PetID     string
	VetID     string
	FechaHora time.Time
	Motivo    string
	Notas     string
}

func (s *Service) Create(ctx context.Context, requester auth.Claims, in CreateInput) (Detailed, error) {
	var errs []string

	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		errs = append(errs, "la mascota es requerida")
	}
	vetID := strings.TrimSpace(in.VetID)
	if vetID == "" {
		errs = append(errs, "el veterinario es requerido")
	}

	motivo := strings.TrimSpace(in.Motivo)
	if motivo == "" || len(motivo) > 200 {
		errs = append(errs, "el motivo es requerido y no puede exceder 200 caracteres")
	}

	if in.FechaHora.IsZero() || !in.FechaHora.After(s.now()) {
		errs = append(errs, "la fecha de la cita es requerida y debe ser futura")
	}

	if err := validation.New(errs); err != nil {
		return Detailed{}, err
	}

	pet, found, err := s.pets.PetInfo(ctx, petID)
	if err != nil {
		return Detailed{}, err
	}
	if !found {
		return Detailed{}, ErrPetNotFound
	}
	if requester.Role == auth.RoleCliente && pet.OwnerID != requester.UserID {
		return Detailed{}, ErrForbidden
	}

	vet, found, err := s.vets.VetInfo(ctx, vetID)
	if err != nil {
		return Detailed{}, err
	}
	if !found || vet.Rol != auth.RoleVeterinario {
		return Detailed{}, ErrVetNotFound
	}

	if err := s.checkConflict(ctx, vetID, in.FechaHora, ""); err != nil {
		return Detailed{}, err
	}

	a := Appointment{
		ID:            uuid.NewString(),
		PetID:         petID,
		VetID:         vetID,
		FechaHora:     in.FechaHora,
		Motivo:        motivo,
		Estado:        StatusProgramada,
		Notas:         strings.TrimSpace(in.Notas),
		FechaCreacion: s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Detailed{}, err
	}

	return Detailed{Appointment: a, Mascota: &pet, Veterinario: &vet}, nil
}

func (s *Service) checkConflict(ctx context.Context, vetID string, fecha time.Time, excludeID string) error {
	busy, err := s.repo.HasConflict(ctx, vetID, fecha.Add(-conflictWindow), fecha.Add(conflictWindow), excludeID)
	if err != nil {
		return err
	}
	if busy {
		return ErrConflict
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string, requester auth.Claims) (Detailed, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detailed{}, err
	}
	return s.authorize(ctx, a, requester)
}

func (s *Service) authorize(ctx context.Context, a Appointment, requester auth.Claims) (Detailed, error) {
	d, err := s.detail(ctx, a)
	if err != nil {
		return Detailed{}, err
	}
	if requester.Role == auth.RoleCliente {
		if d.Mascota == nil || d.Mascota.OwnerID != requester.UserID {
			return Detailed{}, ErrForbidden
		}
	}
	return d, nil
}

type UpdateInput struct {
	FechaHora *time.Time
	Motivo    *string
	Notas     *string
	VetID     *string
}

// Update reprograma o corrige una cita. El estado no se toca por acá
// (para eso está UpdateStatus); las citas en estado terminal no se editan.
func (s *Service) Update(ctx context.Context, id string, requester auth.Claims, in UpdateInput) (Detailed, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detailed{}, err
	}
	if _, err := s.authorize(ctx, a, requester); err != nil {
		return Detailed{}, err
	}
	if a.Estado.Terminal() {
		return Detailed{}, ErrBadTransition
	}

	var errs []string
	reschedule := false

	if in.VetID != nil {
		vetID := strings.TrimSpace(*in.VetID)
		vet, found, err := s.vets.VetInfo(ctx, vetID)
		if err != nil {
			return Detailed{}, err
		}
		if !found || vet.Rol != auth.RoleVeterinario {
			return Detailed{}, ErrVetNotFound
		}
		if vetID != a.VetID {
			a.VetID = vetID
			reschedule = true
		}
	}
	if in.FechaHora != nil {
		if in.FechaHora.IsZero() || !in.FechaHora.After(s.now()) {
			errs = append(errs, "la fecha de la cita es requerida y debe ser futura")
		} else if !in.FechaHora.Equal(a.FechaHora) {
			a.FechaHora = *in.FechaHora
			reschedule = true
		}
	}
	if in.Motivo != nil {
		motivo := strings.TrimSpace(*in.Motivo)
		if motivo == "" || len(motivo) > 200 {
			errs = append(errs, "el motivo es requerido y no puede exceder 200 caracteres")
		} else {
			a.Motivo = motivo
		}
	}
	if in.Notas != nil {
		a.Notas = strings.TrimSpace(*in.Notas)
	}

	if err := validation.New(errs); err != nil {
		return Detailed{}, err
	}

	if reschedule {
		if err := s.checkConflict(ctx, a.VetID, a.FechaHora, a.ID); err != nil {
			return Detailed{}, err
		}
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return Detailed{}, err
	}
	return s.detail(ctx, a)
}

// UpdateStatus mueve la cita por la máquina de estados. Un cliente solo
// puede cancelar citas de sus mascotas; el resto de transiciones queda
// para el personal.
func (s *Service) UpdateStatus(ctx context.Context, id string, requester auth.Claims, to Status, notas string) (Detailed, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detailed{}, err
	}
	d, err := s.authorize(ctx, a, requester)
	if err != nil {
		return Detailed{}, err
	}
	if requester.Role == auth.RoleCliente && to != StatusCancelada {
		return Detailed{}, ErrForbidden
	}
	if !a.Estado.CanTransition(to) {
		return Detailed{}, ErrBadTransition
	}

	a.Estado = to
	if notas = strings.TrimSpace(notas); notas != "" {
		a.Notas = notas
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return Detailed{}, err
	}

	d.Appointment = a
	return d, nil
}

// Delete borra la cita del todo (a diferencia de cancelar). Un cliente
// solo puede borrar citas de sus mascotas.
func (s *Service) Delete(ctx context.Context, id string, requester auth.Claims) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.authorize(ctx, a, requester); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// CancelUpcomingForPets cancela una por una las citas futuras no terminales
// de esas mascotas, dejando la nota recibida. Devuelve cuántas canceló.
// Lo usa el borrado en cascada de usuarios.
func (s *Service) CancelUpcomingForPets(ctx context.Context, petIDs []string, note string) (int, error) {
	upcoming, err := s.repo.ListUpcoming(ctx, petIDs, s.now())
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, a := range upcoming {
		if !a.Estado.CanTransition(StatusCancelada) {
			continue
		}
		a.Estado = StatusCancelada
		a.Notas = note
		if err := s.repo.Update(ctx, a); err != nil {
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}
