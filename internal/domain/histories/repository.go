package histories

import "context"

type Repository interface {
	Create(ctx context.Context, h MedicalHistory) error
	GetByID(ctx context.Context, id string) (MedicalHistory, error)
	GetByPet(ctx context.Context, petID string) (MedicalHistory, error)
	List(ctx context.Context) ([]MedicalHistory, error)
	ListByPets(ctx context.Context, petIDs []string) ([]MedicalHistory, error)
	Update(ctx context.Context, h MedicalHistory) error
	Delete(ctx context.Context, id string) error
}
