package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	svcauth "vetclinic-api/internal/auth"
	"vetclinic-api/internal/domain/validation"
	"vetclinic-api/internal/ports/auth"
)

var (
	ErrNotFound       = errors.New("usuario no encontrado")
	ErrEmailTaken     = errors.New("el email ya está registrado")
	ErrBadCredentials = errors.New("credenciales inválidas")
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PetSummary es la vista mínima de una mascota para poblar respuestas
// de usuarios sin acoplar este módulo al de mascotas.
type PetSummary struct {
	ID      string
	Nombre  string
	Especie string
	Raza    string
}

// PetDirectory expone lo que el borrado en cascada y el populate
// necesitan del módulo de mascotas. Lo implementa el router con un
// adapter sobre los repos de mascotas/historiales.
type PetDirectory interface {
	PetsByOwner(ctx context.Context, ownerID string) ([]PetSummary, error)
	PetIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	DeleteHistoryByPet(ctx context.Context, petID string) (bool, error)
	DeletePet(ctx context.Context, petID string) error
}

// AppointmentCanceller cancela citas futuras de un conjunto de mascotas,
// una por una. Lo implementa el service de citas.
type AppointmentCanceller interface {
	CancelUpcomingForPets(ctx context.Context, petIDs []string, note string) (int, error)
}

// CancelNote es la nota que queda en cada cita cancelada por el borrado
// en cascada de un usuario.
const CancelNote = "Cancelada automáticamente - Usuario eliminado"

type Config struct {
	BcryptCost      int
	DefaultPageSize int
	MaxPageSize     int
}

type Service struct {
	repo  Repository
	pets  PetDirectory
	citas AppointmentCanceller
	cfg   Config
	now   func() time.Time
}

func NewService(repo Repository, pets PetDirectory, citas AppointmentCanceller, cfg Config) *Service {
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = 10
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 10
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 200
	}
	return &Service{
		repo:  repo,
		pets:  pets,
		citas: citas,
		cfg:   cfg,
		now:   time.Now,
	}
}

type RegisterInput struct {
	Nombre    string
	Email     string
	Password  string
	Telefono  string
	Direccion string
	Rol       string // vacío = cliente
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	var errs []string

	nombre := strings.TrimSpace(in.Nombre)
	if len(nombre) < 2 || len(nombre) > 100 {
		errs = append(errs, "el nombre debe tener entre 2 y 100 caracteres")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !emailRegexp.MatchString(email) || len(email) > 150 {
		errs = append(errs, "el email no tiene un formato válido")
	}

	if len(in.Password) < 6 || len(in.Password) > 128 {
		errs = append(errs, "la contraseña debe tener entre 6 y 128 caracteres")
	}

	telefono := strings.TrimSpace(in.Telefono)
	if telefono == "" || len(telefono) > 20 {
		errs = append(errs, "el teléfono es requerido y no puede exceder 20 caracteres")
	}

	direccion := strings.TrimSpace(in.Direccion)
	if direccion == "" || len(direccion) > 200 {
		errs = append(errs, "la dirección es requerida y no puede exceder 200 caracteres")
	}

	rol := auth.RoleCliente
	if strings.TrimSpace(in.Rol) != "" {
		parsed, ok := auth.ParseRole(in.Rol)
		if !ok {
			errs = append(errs, "el rol debe ser uno de: cliente, veterinario, recepcionista, admin")
		} else {
			rol = parsed
		}
	}

	if err := validation.New(errs); err != nil {
		return User{}, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := svcauth.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:            uuid.NewString(),
		Nombre:        nombre,
		Email:         email,
		Password:      hash,
		Telefono:      telefono,
		Direccion:     direccion,
		Rol:           rol,
		Mascotas:      []string{},
		FechaRegistro: s.now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrBadCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Mismo error para email desconocido y password incorrecto.
			return User{}, ErrBadCredentials
		}
		return User{}, err
	}
	if !svcauth.CheckPassword(password, u.Password) {
		return User{}, ErrBadCredentials
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// ClaimsFor implementa la carga de usuario que usa el verifier de tokens:
// un token de un usuario borrado no autentica.
func (s *Service) ClaimsFor(ctx context.Context, userID string) (auth.Claims, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return auth.Claims{}, err
	}
	return auth.Claims{UserID: u.ID, Email: u.Email, Role: u.Rol}, nil
}

// PetsOf devuelve las mascotas a poblar en las respuestas de usuario.
func (s *Service) PetsOf(ctx context.Context, userID string) ([]PetSummary, error) {
	return s.pets.PetsByOwner(ctx, userID)
}

type PageMeta struct {
	Total   int
	Pagina  int
	Limite  int
	HasNext bool
	HasPrev bool
}

// List pagina con skip/limit y aplica el tope duro de página.
func (s *Service) List(ctx context.Context, f ListFilter, pagina, limite int) ([]User, PageMeta, error) {
	if pagina <= 0 {
		pagina = 1
	}
	if limite <= 0 {
		limite = s.cfg.DefaultPageSize
	}
	if limite > s.cfg.MaxPageSize {
		limite = s.cfg.MaxPageSize
	}

	skip := (pagina - 1) * limite
	items, total, err := s.repo.List(ctx, f, skip, limite)
	if err != nil {
		return nil, PageMeta{}, err
	}

	meta := PageMeta{
		Total:   total,
		Pagina:  pagina,
		Limite:  limite,
		HasNext: skip+len(items) < total,
		HasPrev: pagina > 1,
	}
	return items, meta, nil
}

type UpdateInput struct {
	// Punteros: nil = no tocar. El rechazo del campo password sucede en
	// el handler, que inspecciona el JSON crudo.
	Nombre    *string
	Email     *string
	Telefono  *string
	Direccion *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	var errs []string

	if in.Nombre != nil {
		nombre := strings.TrimSpace(*in.Nombre)
		if len(nombre) < 2 || len(nombre) > 100 {
			errs = append(errs, "el nombre debe tener entre 2 y 100 caracteres")
		} else {
			u.Nombre = nombre
		}
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if !emailRegexp.MatchString(email) || len(email) > 150 {
			errs = append(errs, "el email no tiene un formato válido")
		} else if email != u.Email {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				return User{}, ErrEmailTaken
			} else if !errors.Is(err, ErrNotFound) {
				return User{}, err
			}
			u.Email = email
		}
	}
	if in.Telefono != nil {
		telefono := strings.TrimSpace(*in.Telefono)
		if telefono == "" || len(telefono) > 20 {
			errs = append(errs, "el teléfono es requerido y no puede exceder 20 caracteres")
		} else {
			u.Telefono = telefono
		}
	}
	if in.Direccion != nil {
		direccion := strings.TrimSpace(*in.Direccion)
		if direccion == "" || len(direccion) > 200 {
			errs = append(errs, "la dirección es requerida y no puede exceder 200 caracteres")
		} else {
			u.Direccion = direccion
		}
	}

	if err := validation.New(errs); err != nil {
		return User{}, err
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

type DeleteResult struct {
	MascotasEliminadas int
	CitasCanceladas    int
}

// Delete es el borrado en cascada: cancela citas futuras una por una,
// borra historiales, borra mascotas y por último el usuario. Cada escritura
// es independiente; no hay transacción ni rollback, así que un fallo a
// mitad de camino deja el store parcialmente migrado.
func (s *Service) Delete(ctx context.Context, id string) (DeleteResult, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return DeleteResult{}, err
	}

	petIDs, err := s.pets.PetIDsByOwner(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}

	var res DeleteResult

	if len(petIDs) > 0 {
		canceladas, err := s.citas.CancelUpcomingForPets(ctx, petIDs, CancelNote)
		if err != nil {
			return res, fmt.Errorf("cancelando citas: %w", err)
		}
		res.CitasCanceladas = canceladas

		for _, petID := range petIDs {
			if _, err := s.pets.DeleteHistoryByPet(ctx, petID); err != nil {
				return res, fmt.Errorf("eliminando historial de mascota %s: %w", petID, err)
			}
		}
		for _, petID := range petIDs {
			if err := s.pets.DeletePet(ctx, petID); err != nil {
				return res, fmt.Errorf("eliminando mascota %s: %w", petID, err)
			}
			res.MascotasEliminadas++
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return res, err
	}
	return res, nil
}

// SeedAdmin crea el primer admin. Falla si ya existe alguno: este paso lo
// invoca un operador explícitamente (cmd/seed-admin), nunca el arranque
// del proceso.
func (s *Service) SeedAdmin(ctx context.Context, in RegisterInput) (User, error) {
	exists, err := s.repo.AnyWithRole(ctx, auth.RoleAdmin)
	if err != nil {
		return User{}, err
	}
	if exists {
		return User{}, errors.New("ya existe un usuario administrador")
	}
	in.Rol = string(auth.RoleAdmin)
	return s.Register(ctx, in)
}
