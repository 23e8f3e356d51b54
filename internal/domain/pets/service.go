package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"vetclinic-api/internal/domain/histories"
	"vetclinic-api/internal/domain/validation"
	"vetclinic-api/internal/ports/auth"
)

var (
	ErrNotFound      = errors.New("mascota no encontrada")
	ErrForbidden     = errors.New("sin permisos sobre esta mascota")
	ErrOwnerNotFound = errors.New("propietario no encontrado")
)

// OwnerSummary es la vista mínima del propietario para poblar respuestas.
type OwnerSummary struct {
	ID       string
	Nombre   string
	Email    string
	Telefono string
}

// OwnerDirectory expone lo que este módulo necesita del de usuarios.
// Lo implementa el router con un adapter sobre el repo de usuarios,
// para evitar ciclos de imports entre módulos.
type OwnerDirectory interface {
	OwnerSummary(ctx context.Context, userID string) (OwnerSummary, bool, error)
	AttachPet(ctx context.Context, userID, petID string) error
	DetachPet(ctx context.Context, userID, petID string) error
}

// HistoryStore expone el historial médico de una mascota.
type HistoryStore interface {
	HistoryByPet(ctx context.Context, petID string) (histories.MedicalHistory, bool, error)
	DeleteByPet(ctx context.Context, petID string) (bool, error)
}

type Service struct {
	repo    Repository
	owners  OwnerDirectory
	history HistoryStore
	now     func() time.Time
}

func NewService(repo Repository, owners OwnerDirectory, history HistoryStore) *Service {
	return &Service{
		repo:    repo,
		owners:  owners,
		history: history,
		now:     time.Now,
	}
}

// Detailed es una mascota con propietario e historial poblados.
type Detailed struct {
	Pet         Pet
	Propietario OwnerSummary
	Historial   *histories.MedicalHistory
}

func (s *Service) detail(ctx context.Context, p Pet) (Detailed, error) {
	d := Detailed{Pet: p}

	owner, found, err := s.owners.OwnerSummary(ctx, p.PropietarioID)
	if err != nil {
		return Detailed{}, err
	}
	if found {
		d.Propietario = owner
	}

	if h, found, err := s.history.HistoryByPet(ctx, p.ID); err == nil && found {
		d.Historial = &h
	} else if err != nil {
		return Detailed{}, err
	}

	return d, nil
}

// List: un cliente ve solo sus mascotas; el resto de roles ve todas.
func (s *Service) List(ctx context.Context, requester auth.Claims) ([]Detailed, error) {
	var (
		items []Pet
		err   error
	)
	if requester.Role == auth.RoleCliente {
		items, err = s.repo.ListByOwner(ctx, requester.UserID)
	} else {
		items, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]Detailed, 0, len(items))
	for _, p := range items {
		d, err := s.detail(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

type CreateInput struct {
	Nombre          string
	Especie         string
	Raza            string
	FechaNacimiento time.Time
	Sexo            string
	Color           string
	Foto            string
	Esterilizado    bool
	PropietarioID   string
}

// Create: un cliente solo crea mascotas propias (la referencia de dueño se
// fuerza a su id sin importar el payload); otros roles pueden indicar dueño
// o default a sí mismos.
func (s *Service) Create(ctx context.Context, requester auth.Claims, in CreateInput) (Detailed, error) {
	ownerID := strings.TrimSpace(in.PropietarioID)
	if requester.Role == auth.RoleCliente || ownerID == "" {
		ownerID = requester.UserID
	}

	var errs []string

	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" || len(nombre) > 50 {
		errs = append(errs, "el nombre de la mascota es requerido y no puede exceder 50 caracteres")
	}

	especie, ok := ParseSpecies(strings.TrimSpace(in.Especie))
	if !ok {
		errs = append(errs, "la especie debe ser una de: Perro, Gato, Ave, Reptil, Roedor, Otro")
	}

	raza := strings.TrimSpace(in.Raza)
	if raza == "" || len(raza) > 50 {
		errs = append(errs, "la raza es requerida y no puede exceder 50 caracteres")
	}

	now := s.now()
	if in.FechaNacimiento.IsZero() || in.FechaNacimiento.After(now) {
		errs = append(errs, "la fecha de nacimiento es requerida y no puede ser futura")
	} else if in.FechaNacimiento.Before(now.AddDate(-30, 0, 0)) {
		errs = append(errs, "la fecha de nacimiento no puede ser anterior a 30 años")
	}

	sexo, ok := ParseSex(strings.TrimSpace(in.Sexo))
	if !ok {
		errs = append(errs, `el sexo debe ser "Macho" o "Hembra"`)
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		errs = append(errs, "el color es requerido")
	}

	if err := validation.New(errs); err != nil {
		return Detailed{}, err
	}

	owner, found, err := s.owners.OwnerSummary(ctx, ownerID)
	if err != nil {
		return Detailed{}, err
	}
	if !found {
		return Detailed{}, ErrOwnerNotFound
	}

	p := Pet{
		ID:              uuid.NewString(),
		Nombre:          nombre,
		Especie:         especie,
		Raza:            raza,
		FechaNacimiento: in.FechaNacimiento,
		Sexo:            sexo,
		Color:           color,
		Foto:            strings.TrimSpace(in.Foto),
		Esterilizado:    in.Esterilizado,
		PropietarioID:   ownerID,
		FechaRegistro:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Detailed{}, err
	}

	// Back-reference en el propietario; la referencia autoritativa ya
	// quedó en la mascota.
	if err := s.owners.AttachPet(ctx, ownerID, p.ID); err != nil {
		return Detailed{}, err
	}

	return Detailed{Pet: p, Propietario: owner}, nil
}

func (s *Service) Get(ctx context.Context, id string, requester auth.Claims) (Detailed, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detailed{}, err
	}
	if requester.Role == auth.RoleCliente && p.PropietarioID != requester.UserID {
		return Detailed{}, ErrForbidden
	}
	return s.detail(ctx, p)
}

type UpdateInput struct {
	// Punteros: nil = no tocar. El propietario no se cambia por acá
	// (para eso está Transfer).
	Nombre          *string
	Especie         *string
	Raza            *string
	FechaNacimiento *time.Time
	Sexo            *string
	Color           *string
	Foto            *string
	Esterilizado    *bool
}

func (s *Service) Update(ctx context.Context, id string, requester auth.Claims, in UpdateInput) (Detailed, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detailed{}, err
	}
	if requester.Role == auth.RoleCliente && p.PropietarioID != requester.UserID {
		return Detailed{}, ErrForbidden
	}

	var errs []string

	if in.Nombre != nil {
		nombre := strings.TrimSpace(*in.Nombre)
		if nombre == "" || len(nombre) > 50 {
			errs = append(errs, "el nombre de la mascota es requerido y no puede exceder 50 caracteres")
		} else {
			p.Nombre = nombre
		}
	}
	if in.Especie != nil {
		especie, ok := ParseSpecies(strings.TrimSpace(*in.Especie))
		if !ok {
			errs = append(errs, "la especie debe ser una de: Perro, Gato, Ave, Reptil, Roedor, Otro")
		} else {
			p.Especie = especie
		}
	}
	if in.Raza != nil {
		raza := strings.TrimSpace(*in.Raza)
		if raza == "" || len(raza) > 50 {
			errs = append(errs, "la raza es requerida y no puede exceder 50 caracteres")
		} else {
			p.Raza = raza
		}
	}
	if in.FechaNacimiento != nil {
		now := s.now()
		switch {
		case in.FechaNacimiento.IsZero() || in.FechaNacimiento.After(now):
			errs = append(errs, "la fecha de nacimiento es requerida y no puede ser futura")
		case in.FechaNacimiento.Before(now.AddDate(-30, 0, 0)):
			errs = append(errs, "la fecha de nacimiento no puede ser anterior a 30 años")
		default:
			p.FechaNacimiento = *in.FechaNacimiento
		}
	}
	if in.Sexo != nil {
		sexo, ok := ParseSex(strings.TrimSpace(*in.Sexo))
		if !ok {
			errs = append(errs, `el sexo debe ser "Macho" o "Hembra"`)
		} else {
			p.Sexo = sexo
		}
	}
	if in.Color != nil {
		color := strings.TrimSpace(*in.Color)
		if color == "" {
			errs = append(errs, "el color es requerido")
		} else {
			p.Color = color
		}
	}
	if in.Foto != nil {
		p.Foto = strings.TrimSpace(*in.Foto)
	}
	if in.Esterilizado != nil {
		p.Esterilizado = *in.Esterilizado
	}

	if err := validation.New(errs); err != nil {
		return Detailed{}, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return Detailed{}, err
	}
	return s.detail(ctx, p)
}

// Delete borra primero el historial y después la mascota: un historial
// huérfano con referencia colgante es peor que una referencia de mascota
// colgante si el proceso se interrumpe en el medio.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.history.DeleteByPet(ctx, p.ID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	return s.owners.DetachPet(ctx, p.PropietarioID, p.ID)
}

// Transfer mueve una mascota a otro propietario actualizando ambas
// back-references y la referencia autoritativa, en ese orden.
func (s *Service) Transfer(ctx context.Context, petID, toUserID string) (Detailed, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Detailed{}, err
	}

	toUserID = strings.TrimSpace(toUserID)
	if toUserID == "" || toUserID == p.PropietarioID {
		return Detailed{}, validation.New([]string{"el usuario destino es requerido y debe ser distinto del actual"})
	}

	if _, found, err := s.owners.OwnerSummary(ctx, toUserID); err != nil {
		return Detailed{}, err
	} else if !found {
		return Detailed{}, ErrOwnerNotFound
	}

	if err := s.owners.DetachPet(ctx, p.PropietarioID, p.ID); err != nil {
		return Detailed{}, err
	}
	if err := s.owners.AttachPet(ctx, toUserID, p.ID); err != nil {
		return Detailed{}, err
	}

	p.PropietarioID = toUserID
	if err := s.repo.Update(ctx, p); err != nil {
		return Detailed{}, err
	}
	return s.detail(ctx, p)
}
