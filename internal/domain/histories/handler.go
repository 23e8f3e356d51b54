package histories

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vetclinic-api/internal/domain/validation"
	"vetclinic-api/internal/middleware"
	"vetclinic-api/internal/platform/respond"
	"vetclinic-api/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	h := &handler{svc: svc}

	r.Route("/historiales", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", h.list)
		r.Get("/{historyID}", h.get)
		r.Get("/mascota/{petID}", h.getByPet)

		r.With(middleware.Require(auth.CapHistorialCreate)).Post("/", h.create)
		r.With(middleware.Require(auth.CapHistorialUpdate)).Put("/{historyID}", h.update)
		r.With(middleware.Require(auth.CapHistorialDelete)).Delete("/{historyID}", h.delete)
	})
}

type handler struct {
	svc *Service
}

type historyPetResponse struct {
	ID          string                `json:"id"`
	Nombre      string                `json:"nombre"`
	Especie     string                `json:"especie"`
	Raza        string                `json:"raza"`
	Propietario *historyOwnerResponse `json:"propietario,omitempty"`
}

type historyOwnerResponse struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono,omitempty"`
}

type historyResponse struct {
	ID                   string              `json:"id"`
	Mascota              *historyPetResponse `json:"mascota"`
	Vacunas              []Vacuna            `json:"vacunas"`
	Alergias             []Alergia           `json:"alergias"`
	Cirugias             []Cirugia           `json:"cirugias"`
	EnfermedadesCronicas []string            `json:"enfermedades_cronicas"`
	MedicamentosActuales []Medicamento       `json:"medicamentos_actuales"`
	NotasGenerales       string              `json:"notas_generales,omitempty"`
	FechaCreacion        time.Time           `json:"fecha_creacion"`
}

func toHistoryResponse(d Detailed) historyResponse {
	resp := historyResponse{
		ID:                   d.History.ID,
		Vacunas:              d.History.Vacunas,
		Alergias:             d.History.Alergias,
		Cirugias:             d.History.Cirugias,
		EnfermedadesCronicas: d.History.EnfermedadesCronicas,
		MedicamentosActuales: d.History.MedicamentosActuales,
		NotasGenerales:       d.History.NotasGenerales,
		FechaCreacion:        d.History.FechaCreacion,
	}
	if d.Mascota != nil {
		resp.Mascota = &historyPetResponse{
			ID:      d.Mascota.ID,
			Nombre:  d.Mascota.Nombre,
			Especie: d.Mascota.Especie,
			Raza:    d.Mascota.Raza,
		}
		if d.Mascota.Propietario.ID != "" {
			resp.Mascota.Propietario = &historyOwnerResponse{
				ID:       d.Mascota.Propietario.ID,
				Nombre:   d.Mascota.Propietario.Nombre,
				Email:    d.Mascota.Propietario.Email,
				Telefono: d.Mascota.Propietario.Telefono,
			}
		}
	}
	return resp
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	items, err := h.svc.List(r.Context(), claims)
	if err != nil {
		writeHistoryError(w, err)
		return
	}

	out := make([]historyResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toHistoryResponse(d))
	}

	mensaje := "Historiales obtenidos exitosamente"
	if len(out) == 0 {
		mensaje = "No hay historiales registrados"
	}
	respond.OK(w, http.StatusOK, mensaje, out)
}

type historyRequest struct {
	PetID                string          `json:"id_mascota"`
	Vacunas              json.RawMessage `json:"vacunas"`
	Alergias             json.RawMessage `json:"alergias"`
	Cirugias             json.RawMessage `json:"cirugias"`
	EnfermedadesCronicas json.RawMessage `json:"enfermedades_cronicas"`
	MedicamentosActuales json.RawMessage `json:"medicamentos_actuales"`
	NotasGenerales       string          `json:"notas_generales"`
}

// listField tolera las variantes que manda el cliente original para las
// listas del historial: {} y null cuentan como lista vacía, no como error.
func listField[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if bytes.Equal(trimmed, []byte("null")) || trimmed[0] == '{' {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func listFieldPtr[T any](raw json.RawMessage) (*[]T, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	list, err := listField[T](raw)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r historyRequest) toInput() (Input, error) {
	var (
		in  Input
		err error
	)
	if in.Vacunas, err = listField[Vacuna](r.Vacunas); err != nil {
		return in, err
	}
	if in.Alergias, err = listField[Alergia](r.Alergias); err != nil {
		return in, err
	}
	if in.Cirugias, err = listField[Cirugia](r.Cirugias); err != nil {
		return in, err
	}
	if in.EnfermedadesCronicas, err = listField[string](r.EnfermedadesCronicas); err != nil {
		return in, err
	}
	if in.MedicamentosActuales, err = listField[Medicamento](r.MedicamentosActuales); err != nil {
		return in, err
	}
	in.NotasGenerales = r.NotasGenerales
	return in, nil
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req historyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	in, err := req.toInput()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	d, err := h.svc.Create(r.Context(), req.PetID, in)
	if err != nil {
		writeHistoryError(w, err)
		return
	}
	respond.OK(w, http.StatusCreated, "Historial médico creado exitosamente", toHistoryResponse(d))
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "historyID"), claims)
	if err != nil {
		writeHistoryError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Historial obtenido exitosamente", toHistoryResponse(d))
}

func (h *handler) getByPet(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	d, err := h.svc.GetByPet(r.Context(), chi.URLParam(r, "petID"), claims)
	if err != nil {
		writeHistoryError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Historial obtenido exitosamente", toHistoryResponse(d))
}

type historyUpdateRequest struct {
	Vacunas              json.RawMessage `json:"vacunas"`
	Alergias             json.RawMessage `json:"alergias"`
	Cirugias             json.RawMessage `json:"cirugias"`
	EnfermedadesCronicas json.RawMessage `json:"enfermedades_cronicas"`
	MedicamentosActuales json.RawMessage `json:"medicamentos_actuales"`
	NotasGenerales       *string         `json:"notas_generales"`
}

func (r historyUpdateRequest) toInput() (UpdateInput, error) {
	var (
		in  UpdateInput
		err error
	)
	if in.Vacunas, err = listFieldPtr[Vacuna](r.Vacunas); err != nil {
		return in, err
	}
	if in.Alergias, err = listFieldPtr[Alergia](r.Alergias); err != nil {
		return in, err
	}
	if in.Cirugias, err = listFieldPtr[Cirugia](r.Cirugias); err != nil {
		return in, err
	}
	if in.EnfermedadesCronicas, err = listFieldPtr[string](r.EnfermedadesCronicas); err != nil {
		return in, err
	}
	if in.MedicamentosActuales, err = listFieldPtr[Medicamento](r.MedicamentosActuales); err != nil {
		return in, err
	}
	in.NotasGenerales = r.NotasGenerales
	return in, nil
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	var req historyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	in, err := req.toInput()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	d, err := h.svc.Update(r.Context(), chi.URLParam(r, "historyID"), in)
	if err != nil {
		writeHistoryError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Historial actualizado exitosamente", toHistoryResponse(d))
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "historyID")); err != nil {
		writeHistoryError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Historial eliminado exitosamente", nil)
}

func writeHistoryError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		respond.Error(w, http.StatusBadRequest, "Datos de entrada inválidos", verr.Errores...)
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Historial no encontrado")
	case errors.Is(err, ErrPetNotFound):
		respond.Error(w, http.StatusNotFound, "Mascota no encontrada")
	case errors.Is(err, ErrConflict):
		respond.Error(w, http.StatusConflict, "La mascota ya tiene un historial médico")
	case errors.Is(err, ErrForbidden):
		respond.Error(w, http.StatusForbidden, "Acceso denegado. No tienes permisos suficientes.")
	default:
		respond.Internal(w, "Error interno del servidor", err)
	}
}
