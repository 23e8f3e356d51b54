package users

import (
	"context"

	"vetclinic-api/internal/ports/auth"
)

type ListFilter struct {
	Rol auth.Role // vacío = todos
}

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	// GetByEmail busca por email ya normalizado (minúsculas).
	GetByEmail(ctx context.Context, email string) (User, error)
	// List devuelve la página pedida y el total sin paginar.
	List(ctx context.Context, f ListFilter, skip, limit int) ([]User, int, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error

	// Back-references de mascotas ($push / $pull sobre el array).
	AddPetRef(ctx context.Context, userID, petID string) error
	RemovePetRef(ctx context.Context, userID, petID string) error

	AnyWithRole(ctx context.Context, rol auth.Role) (bool, error)
}
