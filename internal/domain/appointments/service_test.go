package appointments

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"vetclinic-api/internal/domain/validation"
	"vetclinic-api/internal/ports/auth"
)

type fakeRepo struct {
	byID map[string]Appointment
}

func newFakeRepo() *fakeRepo { return &fakeRepo{byID: map[string]Appointment{}} }

func (f *fakeRepo) Create(_ context.Context, a Appointment) error {
	f.byID[a.ID] = a
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func (f *fakeRepo) all() []Appointment {
	out := make([]Appointment, 0, len(f.byID))
	for _, a := range f.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaHora.Before(out[j].FechaHora) })
	return out
}

func (f *fakeRepo) List(_ context.Context) ([]Appointment, error) { return f.all(), nil }

func (f *fakeRepo) ListByPets(_ context.Context, petIDs []string) ([]Appointment, error) {
	wanted := map[string]bool{}
	for _, id := range petIDs {
		wanted[id] = true
	}
	var out []Appointment
	for _, a := range f.all() {
		if wanted[a.PetID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByVet(_ context.Context, vetID string) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.all() {
		if a.VetID == vetID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, a Appointment) error {
	if _, ok := f.byID[a.ID]; !ok {
		return ErrNotFound
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) HasConflict(_ context.Context, vetID string, from, to time.Time, excludeID string) (bool, error) {
	for _, a := range f.byID {
		if a.VetID != vetID || a.ID == excludeID || a.Estado == StatusCancelada {
			continue
		}
		if a.FechaHora.After(from) && a.FechaHora.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListUpcoming(_ context.Context, petIDs []string, after time.Time) ([]Appointment, error) {
	wanted := map[string]bool{}
	for _, id := range petIDs {
		wanted[id] = true
	}
	var out []Appointment
	for _, a := range f.all() {
		if !wanted[a.PetID] || !a.FechaHora.After(after) {
			continue
		}
		if a.Estado != StatusProgramada && a.Estado != StatusConfirmada {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakePets struct {
	pets map[string]PetInfo
}

func (f *fakePets) PetInfo(_ context.Context, petID string) (PetInfo, bool, error) {
	info, ok := f.pets[petID]
	return info, ok, nil
}

func (f *fakePets) PetIDsByOwner(_ context.Context, ownerID string) ([]string, error) {
	var out []string
	for id, info := range f.pets {
		if info.OwnerID == ownerID {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeVets struct {
	vets map[string]VetInfo
}

func (f *fakeVets) VetInfo(_ context.Context, userID string) (VetInfo, bool, error) {
	info, ok := f.vets[userID]
	return info, ok, nil
}

var ahora = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) *Service {
	pets := &fakePets{pets: map[string]PetInfo{
		"m1": {ID: "m1", Nombre: "Firulais", Especie: "Perro", Raza: "Labrador", OwnerID: "cli-1"},
		"m2": {ID: "m2", Nombre: "Misu", Especie: "Gato", Raza: "Siamés", OwnerID: "cli-2"},
	}}
	vets := &fakeVets{vets: map[string]VetInfo{
		"vet-1": {ID: "vet-1", Nombre: "Dra. Paz", Rol: auth.RoleVeterinario},
		"vet-2": {ID: "vet-2", Nombre: "Dr. Ruiz", Rol: auth.RoleVeterinario},
		"rec-1": {ID: "rec-1", Nombre: "Recepción", Rol: auth.RoleRecepcionista},
	}}
	svc := NewService(repo, pets, vets)
	svc.now = func() time.Time { return ahora }
	return svc
}

func validCita(fecha time.Time) CreateInput {
	return CreateInput{
		PetID:     "m1",
		VetID:     "vet-1",
		FechaHora: fecha,
		Motivo:    "Control anual",
	}
}

func TestCreateCita(t *testing.T) {
	svc := newTestService(newFakeRepo())
	cliente := auth.Claims{UserID: "cli-1", Role: auth.RoleCliente}

	d, err := svc.Create(context.Background(), cliente, validCita(ahora.Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Appointment.Estado != StatusProgramada {
		t.Fatalf("estado inicial = %s", d.Appointment.Estado)
	}
	if d.Mascota == nil || d.Veterinario == nil {
		t.Fatalf("la cita debe salir poblada: %+v", d)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())
	recep := auth.Claims{UserID: "rec-1", Role: auth.RoleRecepcionista}

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"sin mascota", func(in *CreateInput) { in.PetID = "" }},
		{"sin veterinario", func(in *CreateInput) { in.VetID = "" }},
		{"sin motivo", func(in *CreateInput) { in.Motivo = "  " }},
		{"fecha pasada", func(in *CreateInput) { in.FechaHora = ahora.Add(-time.Hour) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCita(ahora.Add(24 * time.Hour))
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), recep, in)
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("esperaba error de validación, obtuve %v", err)
			}
		})
	}
}

func TestCreateClienteSoloSusMascotas(t *testing.T) {
	svc := newTestService(newFakeRepo())

	in := validCita(ahora.Add(24 * time.Hour))
	in.PetID = "m2"
	_, err := svc.Create(context.Background(), auth.Claims{UserID: "cli-1", Role: auth.RoleCliente}, in)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("esperaba ErrForbidden, obtuve %v", err)
	}
}

func TestCreateVetRequerido(t *testing.T) {
	svc := newTestService(newFakeRepo())
	recep := auth.Claims{UserID: "rec-1", Role: auth.RoleRecepcionista}

	in := validCita(ahora.Add(24 * time.Hour))
	in.VetID = "rec-1" // existe pero no es veterinario
	if _, err := svc.Create(context.Background(), recep, in); !errors.Is(err, ErrVetNotFound) {
		t.Fatalf("esperaba ErrVetNotFound, obtuve %v", err)
	}
}

func TestConflictoVentana30Min(t *testing.T) {
	svc := newTestService(newFakeRepo())
	recep := auth.Claims{UserID: "rec-1", Role: auth.RoleRecepcionista}

	base := ahora.Add(24 * time.Hour)
	if _, err := svc.Create(context.Background(), recep, validCita(base)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A 20 minutos del mismo veterinario: choca.
	in := validCita(base.Add(20 * time.Minute))
	if _, err := svc.Create(context.Background(), recep, in); !errors.Is(err, ErrConflict) {
		t.Fatalf("esperaba ErrConflict, obtuve %v", err)
	}

	// A 30 minutos exactos ya no choca.
	if _, err := svc.Create(context.Background(), recep, validCita(base.Add(30*time.Minute))); err != nil {
		t.Fatalf("a 30 minutos no debería chocar: %v", err)
	}

	// Otro veterinario en el mismo horario tampoco.
	in = validCita(base)
	in.VetID = "vet-2"
	if _, err := svc.Create(context.Background(), recep, in); err != nil {
		t.Fatalf("otro veterinario no debería chocar: %v", err)
	}
}

func TestConflictoIgnoraCanceladas(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	recep := auth.Claims{UserID: "rec-1", Role: auth.RoleRecepcionista}

	base := ahora.Add(24 * time.Hour)
	d, err := svc.Create(context.Background(), recep, validCita(base))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), d.Appointment.ID, recep, StatusCancelada, ""); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if _, err := svc.Create(context.Background(), recep, validCita(base)); err != nil {
		t.Fatalf("el horario de una cita cancelada debe quedar libre: %v", err)
	}
}

func TestUpdateReprogramaConConflicto(t *testing.T) {
	svc := newTestService(newFakeRepo())
	recep := auth.Claims{UserID: "rec-1", Role: auth.RoleRecepcionista}

	base := ahora.Add(24 * time.Hour)
	primera, err := svc.Create(context.Background(), recep, validCita(base))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	segunda, err := svc.Create(context.Background(), recep, validCita(base.Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Mover la segunda encima de la primera choca.
	choque := base.Add(10 * time.Minute)
	if _, err := svc.Update(context.Background(), segunda.Appointment.ID, recep,
		UpdateInput{FechaHora: &choque}); !errors.Is(err, ErrConflict) {
		t.Fatalf("esperaba ErrConflict, obtuve %v", err)
	}

	// Reprogramar la primera sobre sí misma no choca (se excluye).
	corrida := base.Add(5 * time.Minute)
	if _, err := svc.Update(context.Background(), primera.Appointment.ID, recep,
		UpdateInput{FechaHora: &corrida}); err != nil {
		t.Fatalf("reprogramar sobre sí misma: %v", err)
	}
}

func TestUpdateStatusFSM(t *testing.T) {
	svc := newTestService(newFakeRepo())
	recep := auth.Claims{UserID: "rec-1", Role: auth.RoleRecepcionista}

	d, err := svc.Create(context.Background(), recep, validCita(ahora.Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := d.Appointment.ID

	if _, err := svc.UpdateStatus(context.Background(), id, recep, StatusConfirmada, ""); err != nil {
		t.Fatalf("Programada -> Confirmada: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), id, recep, StatusCompletada, "todo bien"); err != nil {
		t.Fatalf("Confirmada -> Completada: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), id, recep, StatusCancelada, ""); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("Completada es terminal, obtuve %v", err)
	}

	// Una cita terminal tampoco se reprograma.
	otra := ahora.Add(48 * time.Hour)
	if _, err := svc.Update(context.Background(), id, recep, UpdateInput{FechaHora: &otra}); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("esperaba ErrBadTransition, obtuve %v", err)
	}
}

func TestClienteSoloCancela(t *testing.T) {
	svc := newTestService(newFakeRepo())
	cliente := auth.Claims{UserID: "cli-1", Role: auth.RoleCliente}

	d, err := svc.Create(context.Background(), cliente, validCita(ahora.Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), d.Appointment.ID, cliente, StatusConfirmada, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("el cliente no confirma citas, obtuve %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), d.Appointment.ID, cliente, StatusCancelada, ""); err != nil {
		t.Fatalf("el cliente sí cancela las suyas: %v", err)
	}

	// La cita de otro cliente ni se ve.
	otro := auth.Claims{UserID: "cli-2", Role: auth.RoleCliente}
	if _, err := svc.Get(context.Background(), d.Appointment.ID, otro); !errors.Is(err, ErrForbidden) {
		t.Fatalf("esperaba ErrForbidden, obtuve %v", err)
	}
}

func TestListScopes(t *testing.T) {
	svc := newTestService(newFakeRepo())
	recep := auth.Claims{UserID: "rec-1", Role: auth.RoleRecepcionista}

	base := ahora.Add(24 * time.Hour)
	if _, err := svc.Create(context.Background(), recep, validCita(base)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	in := validCita(base.Add(2 * time.Hour))
	in.PetID = "m2"
	in.VetID = "vet-2"
	if _, err := svc.Create(context.Background(), recep, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mias, err := svc.List(context.Background(), auth.Claims{UserID: "cli-1", Role: auth.RoleCliente})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mias) != 1 || mias[0].Appointment.PetID != "m1" {
		t.Fatalf("cliente ve %d citas: %+v", len(mias), mias)
	}

	agenda, err := svc.List(context.Background(), auth.Claims{UserID: "vet-2", Role: auth.RoleVeterinario})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(agenda) != 1 || agenda[0].Appointment.VetID != "vet-2" {
		t.Fatalf("veterinario ve %d citas: %+v", len(agenda), agenda)
	}

	todas, err := svc.List(context.Background(), recep)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(todas) != 2 {
		t.Fatalf("recepción ve %d citas, esperaba 2", len(todas))
	}
}

func TestDeleteCita(t *testing.T) {
	svc := newTestService(newFakeRepo())
	cliente := auth.Claims{UserID: "cli-1", Role: auth.RoleCliente}

	d, err := svc.Create(context.Background(), cliente, validCita(ahora.Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	otro := auth.Claims{UserID: "cli-2", Role: auth.RoleCliente}
	if err := svc.Delete(context.Background(), d.Appointment.ID, otro); !errors.Is(err, ErrForbidden) {
		t.Fatalf("borrar cita ajena: esperaba ErrForbidden, obtuve %v", err)
	}

	if err := svc.Delete(context.Background(), d.Appointment.ID, cliente); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), d.Appointment.ID, cliente); !errors.Is(err, ErrNotFound) {
		t.Fatalf("segundo delete: esperaba ErrNotFound, obtuve %v", err)
	}
}

func TestCancelUpcomingForPets(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	recep := auth.Claims{UserID: "rec-1", Role: auth.RoleRecepcionista}

	base := ahora.Add(24 * time.Hour)
	d1, err := svc.Create(context.Background(), recep, validCita(base))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), recep, validCita(base.Add(3*time.Hour))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Una completada no se toca.
	if _, err := svc.UpdateStatus(context.Background(), d1.Appointment.ID, recep, StatusCompletada, ""); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	// Cita de otra mascota tampoco.
	in := validCita(base.Add(6 * time.Hour))
	in.PetID = "m2"
	in.VetID = "vet-2"
	if _, err := svc.Create(context.Background(), recep, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	nota := "Cancelada automáticamente - Usuario eliminado"
	n, err := svc.CancelUpcomingForPets(context.Background(), []string{"m1"}, nota)
	if err != nil {
		t.Fatalf("CancelUpcomingForPets: %v", err)
	}
	if n != 1 {
		t.Fatalf("canceló %d citas, esperaba 1", n)
	}

	for _, a := range repo.byID {
		if a.PetID == "m1" && a.Estado == StatusCancelada && a.Notas != nota {
			t.Fatalf("la cancelación debe dejar la nota: %+v", a)
		}
		if a.PetID == "m2" && a.Estado != StatusProgramada {
			t.Fatalf("la cita de otra mascota no debía tocarse: %+v", a)
		}
	}
}
