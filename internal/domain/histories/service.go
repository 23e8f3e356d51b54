package histories

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
	ErrNotFound    = errors.New("historial no encontrado")
	ErrPetNotFound = errors.New("mascota no encontrada")
	ErrConflict    = errors.New("la mascota ya tiene un historial médico")
	ErrForbidden   = errors.New("sin permisos sobre este historial")
)

// OwnerInfo es el propietario tal como se embebe en la mascota poblada.
type OwnerInfo struct {
	ID       string
	Nombre   string
	Email    string
	Telefono string
}

// PetInfo es la vista de la mascota que este módulo necesita para poblar
// respuestas y chequear pertenencia.
type PetInfo struct {
	ID          string
	Nombre      string
	Especie     string
	Raza        string
	HistorialID string
	Propietario OwnerInfo
}

// PetDirectory lo implementa el router con un adapter sobre el repo de
// mascotas, para no importar ese módulo desde acá.
type PetDirectory interface {
	PetInfo(ctx context.Context, petID string) (PetInfo, bool, error)
	PetIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	SetHistoryRef(ctx context.Context, petID, historyID string) error
	ClearHistoryRef(ctx context.Context, petID string) error
}

type Service struct {
	repo Repository
	pets PetDirectory
	now  func() time.Time
}

func NewService(repo Repository, pets PetDirectory) *Service {
	return &Service{repo: repo, pets: pets, now: time.Now}
}

// Detailed es un historial con su mascota poblada.
type Detailed struct {
	History MedicalHistory
	Mascota *PetInfo
}

func (s *Service) detail(ctx context.Context, h MedicalHistory) (Detailed, error) {
	d := Detailed{History: h}
	if info, found, err := s.pets.PetInfo(ctx, h.PetID); err != nil {
		return Detailed{}, err
	} else if found {
		d.Mascota = &info
	}
	return d, nil
}

// List: un cliente solo ve los historiales de sus mascotas.
func (s *Service) List(ctx context.Context, requester auth.Claims) ([]Detailed, error) {
	var (
		items []MedicalHistory
		err   error
	)
	if requester.Role == auth.RoleCliente {
		petIDs, derr := s.pets.PetIDsByOwner(ctx, requester.UserID)
		if derr != nil {
			return nil, derr
		}
		items, err = s.repo.ListByPets(ctx, petIDs)
	} else {
		items, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]Detailed, 0, len(items))
	for _, h := range items {
		d, err := s.detail(ctx, h)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

type Input struct {
	Vacunas              []Vacuna
	Alergias             []Alergia
	Cirugias             []Cirugia
	EnfermedadesCronicas []string
	MedicamentosActuales []Medicamento
	NotasGenerales       string
}

// Create abre el historial de una mascota. Cada mascota admite uno solo:
// el segundo intento devuelve conflicto, gana la primera escritura.
func (s *Service) Create(ctx context.Context, petID string, in Input) (Detailed, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Detailed{}, validation.New([]string{"el id de la mascota es requerido"})
	}

	info, found, err := s.pets.PetInfo(ctx, petID)
	if err != nil {
		return Detailed{}, err
	}
	if !found {
		return Detailed{}, ErrPetNotFound
	}

	if _, err := s.repo.GetByPet(ctx, petID); err == nil {
		return Detailed{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return Detailed{}, err
	}

	h := MedicalHistory{
		ID:                   uuid.NewString(),
		PetID:                petID,
		Vacunas:              sanitizeVacunas(in.Vacunas),
		Alergias:             sanitizeAlergias(in.Alergias),
		Cirugias:             sanitizeCirugias(in.Cirugias),
		EnfermedadesCronicas: sanitizeEnfermedades(in.EnfermedadesCronicas),
		MedicamentosActuales: sanitizeMedicamentos(in.MedicamentosActuales),
		NotasGenerales:       strings.TrimSpace(in.NotasGenerales),
		FechaCreacion:        s.now(),
	}
	if len(h.NotasGenerales) > 2000 {
		return Detailed{}, validation.New([]string{"las notas generales no pueden exceder 2000 caracteres"})
	}

	if err := s.repo.Create(ctx, h); err != nil {
		return Detailed{}, err
	}
	if err := s.pets.SetHistoryRef(ctx, petID, h.ID); err != nil {
		return Detailed{}, err
	}

	info.HistorialID = h.ID
	return Detailed{History: h, Mascota: &info}, nil
}

func (s *Service) Get(ctx context.Context, id string, requester auth.Claims) (Detailed, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detailed{}, err
	}
	return s.authorize(ctx, h, requester)
}

// GetByPet resuelve el historial por la mascota; distingue mascota
// inexistente de mascota sin historial.
func (s *Service) GetByPet(ctx context.Context, petID string, requester auth.Claims) (Detailed, error) {
	if _, found, err := s.pets.PetInfo(ctx, petID); err != nil {
		return Detailed{}, err
	} else if !found {
		return Detailed{}, ErrPetNotFound
	}

	h, err := s.repo.GetByPet(ctx, petID)
	if err != nil {
		return Detailed{}, err
	}
	return s.authorize(ctx, h, requester)
}

func (s *Service) authorize(ctx context.Context, h MedicalHistory, requester auth.Claims) (Detailed, error) {
	d, err := s.detail(ctx, h)
	if err != nil {
		return Detailed{}, err
	}
	if requester.Role == auth.RoleCliente {
		if d.Mascota == nil || d.Mascota.Propietario.ID != requester.UserID {
			return Detailed{}, ErrForbidden
		}
	}
	return d, nil
}

// UpdateInput reemplaza listas completas: nil deja la lista como está,
// una lista presente (aun vacía) la sustituye tras sanearla.
type UpdateInput struct {
	Vacunas              *[]Vacuna
	Alergias             *[]Alergia
	Cirugias             *[]Cirugia
	EnfermedadesCronicas *[]string
	MedicamentosActuales *[]Medicamento
	NotasGenerales       *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Detailed, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detailed{}, err
	}

	if in.Vacunas != nil {
		h.Vacunas = sanitizeVacunas(*in.Vacunas)
	}
	if in.Alergias != nil {
		h.Alergias = sanitizeAlergias(*in.Alergias)
	}
	if in.Cirugias != nil {
		h.Cirugias = sanitizeCirugias(*in.Cirugias)
	}
	if in.EnfermedadesCronicas != nil {
		h.EnfermedadesCronicas = sanitizeEnfermedades(*in.EnfermedadesCronicas)
	}
	if in.MedicamentosActuales != nil {
		h.MedicamentosActuales = sanitizeMedicamentos(*in.MedicamentosActuales)
	}
	if in.NotasGenerales != nil {
		notas := strings.TrimSpace(*in.NotasGenerales)
		if len(notas) > 2000 {
			return Detailed{}, validation.New([]string{"las notas generales no pueden exceder 2000 caracteres"})
		}
		h.NotasGenerales = notas
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return Detailed{}, err
	}
	return s.detail(ctx, h)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, h.ID); err != nil {
		return err
	}
	// La mascota puede haber sido borrada antes; la referencia colgante
	// no es un error acá.
	if err := s.pets.ClearHistoryRef(ctx, h.PetID); err != nil && !errors.Is(err, ErrPetNotFound) {
		return err
	}
	return nil
}
