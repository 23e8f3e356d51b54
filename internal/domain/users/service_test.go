package users

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"vetclinic-api/internal/domain/validation"
	"vetclinic-api/internal/ports/auth"
)

type fakeRepo struct {
	byID map[string]User
}

func newFakeRepo() *fakeRepo { return &fakeRepo{byID: map[string]User{}} }

func (f *fakeRepo) Create(_ context.Context, u User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (User, error) {
	u, ok := f.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter, skip, limit int) ([]User, int, error) {
	var all []User
	for _, u := range f.byID {
		if filter.Rol != "" && u.Rol != filter.Rol {
			continue
		}
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })

	total := len(all)
	if skip >= total {
		return []User{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

func (f *fakeRepo) Update(_ context.Context, u User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return ErrNotFound
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) AddPetRef(_ context.Context, userID, petID string) error {
	u, ok := f.byID[userID]
	if !ok {
		return ErrNotFound
	}
	u.Mascotas = append(u.Mascotas, petID)
	f.byID[userID] = u
	return nil
}

func (f *fakeRepo) RemovePetRef(_ context.Context, userID, petID string) error {
	u, ok := f.byID[userID]
	if !ok {
		return ErrNotFound
	}
	kept := u.Mascotas[:0]
	for _, id := range u.Mascotas {
		if id != petID {
			kept = append(kept, id)
		}
	}
	u.Mascotas = kept
	f.byID[userID] = u
	return nil
}

func (f *fakeRepo) AnyWithRole(_ context.Context, rol auth.Role) (bool, error) {
	for _, u := range f.byID {
		if u.Rol == rol {
			return true, nil
		}
	}
	return false, nil
}

type fakePets struct {
	byOwner          map[string][]PetSummary
	historiesDeleted []string
	petsDeleted      []string
}

func newFakePets() *fakePets { return &fakePets{byOwner: map[string][]PetSummary{}} }

func (f *fakePets) PetsByOwner(_ context.Context, ownerID string) ([]PetSummary, error) {
	return f.byOwner[ownerID], nil
}

func (f *fakePets) PetIDsByOwner(_ context.Context, ownerID string) ([]string, error) {
	var out []string
	for _, p := range f.byOwner[ownerID] {
		out = append(out, p.ID)
	}
	return out, nil
}

func (f *fakePets) DeleteHistoryByPet(_ context.Context, petID string) (bool, error) {
	f.historiesDeleted = append(f.historiesDeleted, petID)
	return true, nil
}

func (f *fakePets) DeletePet(_ context.Context, petID string) error {
	f.petsDeleted = append(f.petsDeleted, petID)
	for owner, pets := range f.byOwner {
		kept := pets[:0]
		for _, p := range pets {
			if p.ID != petID {
				kept = append(kept, p)
			}
		}
		f.byOwner[owner] = kept
	}
	return nil
}

type fakeCanceller struct {
	petIDs []string
	note   string
	n      int
}

func (f *fakeCanceller) CancelUpcomingForPets(_ context.Context, petIDs []string, note string) (int, error) {
	f.petIDs = petIDs
	f.note = note
	return f.n, nil
}

func newTestService(repo *fakeRepo, pets *fakePets, citas *fakeCanceller) *Service {
	// Costo mínimo de bcrypt para que los tests no se arrastren.
	svc := NewService(repo, pets, citas, Config{BcryptCost: 4})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func validRegister(email string) RegisterInput {
	return RegisterInput{
		Nombre:    "Ana Pérez",
		Email:     email,
		Password:  "secreto123",
		Telefono:  "5551234",
		Direccion: "Av. Siempre Viva 742",
	}
}

func TestRegisterYLogin(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakePets(), &fakeCanceller{})

	u, err := svc.Register(context.Background(), validRegister("Ana@Test.com"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "ana@test.com" {
		t.Fatalf("el email debe normalizarse: %q", u.Email)
	}
	if u.Rol != auth.RoleCliente {
		t.Fatalf("rol por defecto = %s, esperaba cliente", u.Rol)
	}
	if u.Password == "secreto123" {
		t.Fatal("la contraseña no puede guardarse en claro")
	}

	if _, err := svc.Login(context.Background(), "ana@test.com", "secreto123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.Login(context.Background(), "ana@test.com", "otra"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("password incorrecto: esperaba ErrBadCredentials, obtuve %v", err)
	}
	// Email desconocido devuelve el mismo error que password incorrecto.
	if _, err := svc.Login(context.Background(), "nadie@test.com", "secreto123"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("email desconocido: esperaba ErrBadCredentials, obtuve %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakePets(), &fakeCanceller{})

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"nombre corto", func(in *RegisterInput) { in.Nombre = "A" }},
		{"email inválido", func(in *RegisterInput) { in.Email = "no-es-email" }},
		{"password corta", func(in *RegisterInput) { in.Password = "123" }},
		{"sin teléfono", func(in *RegisterInput) { in.Telefono = " " }},
		{"sin dirección", func(in *RegisterInput) { in.Direccion = "" }},
		{"rol inválido", func(in *RegisterInput) { in.Rol = "superusuario" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validRegister("ana@test.com")
			tc.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("esperaba error de validación, obtuve %v", err)
			}
		})
	}
}

func TestRegisterEmailDuplicado(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakePets(), &fakeCanceller{})

	if _, err := svc.Register(context.Background(), validRegister("ana@test.com")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// Mismo email con otra capitalización.
	if _, err := svc.Register(context.Background(), validRegister("ANA@test.com")); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("esperaba ErrEmailTaken, obtuve %v", err)
	}
}

func TestUpdateEmailYUnicidad(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakePets(), &fakeCanceller{})

	ana, _ := svc.Register(context.Background(), validRegister("ana@test.com"))
	if _, err := svc.Register(context.Background(), validRegister("luis@test.com")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ocupado := "luis@test.com"
	if _, err := svc.Update(context.Background(), ana.ID, UpdateInput{Email: &ocupado}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("esperaba ErrEmailTaken, obtuve %v", err)
	}

	// Re-enviar el propio email no es conflicto.
	propio := "ana@test.com"
	nombre := "Ana María Pérez"
	u, err := svc.Update(context.Background(), ana.ID, UpdateInput{Email: &propio, Nombre: &nombre})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if u.Nombre != "Ana María Pérez" {
		t.Fatalf("nombre = %q", u.Nombre)
	}
}

func TestListPagination(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakePets(), &fakeCanceller{})

	for _, email := range []string{"a@t.com", "b@t.com", "c@t.com", "d@t.com", "e@t.com"} {
		if _, err := svc.Register(context.Background(), validRegister(email)); err != nil {
			t.Fatalf("Register %s: %v", email, err)
		}
	}

	items, meta, err := svc.List(context.Background(), ListFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].Email != "c@t.com" {
		t.Fatalf("página 2 = %+v", items)
	}
	if meta.Total != 5 || !meta.HasNext || !meta.HasPrev {
		t.Fatalf("meta = %+v", meta)
	}

	// Última página: HasNext en false.
	items, meta, err = svc.List(context.Background(), ListFilter{}, 3, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || meta.HasNext {
		t.Fatalf("última página = %+v, meta = %+v", items, meta)
	}

	// Filtro por rol.
	vet := validRegister("vet@t.com")
	vet.Rol = "veterinario"
	if _, err := svc.Register(context.Background(), vet); err != nil {
		t.Fatalf("Register: %v", err)
	}
	items, meta, err = svc.List(context.Background(), ListFilter{Rol: auth.RoleVeterinario}, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || meta.Total != 1 {
		t.Fatalf("filtro por rol: %+v", items)
	}
}

func TestDeleteCascada(t *testing.T) {
	repo := newFakeRepo()
	pets := newFakePets()
	citas := &fakeCanceller{n: 2}
	svc := newTestService(repo, pets, citas)

	ana, err := svc.Register(context.Background(), validRegister("ana@test.com"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	pets.byOwner[ana.ID] = []PetSummary{
		{ID: "m1", Nombre: "Firulais"},
		{ID: "m2", Nombre: "Misu"},
	}

	res, err := svc.Delete(context.Background(), ana.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if res.MascotasEliminadas != 2 || res.CitasCanceladas != 2 {
		t.Fatalf("resultado = %+v", res)
	}
	if citas.note != CancelNote {
		t.Fatalf("nota de cancelación = %q", citas.note)
	}
	if len(citas.petIDs) != 2 {
		t.Fatalf("citas canceladas para %v", citas.petIDs)
	}
	if len(pets.historiesDeleted) != 2 || len(pets.petsDeleted) != 2 {
		t.Fatalf("historiales %v, mascotas %v", pets.historiesDeleted, pets.petsDeleted)
	}
	if _, err := svc.Get(context.Background(), ana.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("el usuario debía desaparecer, obtuve %v", err)
	}

	if _, err := svc.Delete(context.Background(), ana.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("segundo delete: esperaba ErrNotFound, obtuve %v", err)
	}
}

func TestDeleteSinMascotas(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakePets(), &fakeCanceller{})

	u, err := svc.Register(context.Background(), validRegister("solo@test.com"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	res, err := svc.Delete(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if res.MascotasEliminadas != 0 || res.CitasCanceladas != 0 {
		t.Fatalf("resultado = %+v", res)
	}
}

func TestSeedAdmin(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakePets(), &fakeCanceller{})

	admin, err := svc.SeedAdmin(context.Background(), validRegister("admin@test.com"))
	if err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	if admin.Rol != auth.RoleAdmin {
		t.Fatalf("rol = %s", admin.Rol)
	}

	_, err = svc.SeedAdmin(context.Background(), validRegister("otro@test.com"))
	if err == nil || !strings.Contains(err.Error(), "administrador") {
		t.Fatalf("segundo admin: esperaba rechazo, obtuve %v", err)
	}
}
