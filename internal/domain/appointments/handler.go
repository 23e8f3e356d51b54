package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vetclinic-api/internal/domain/validation"
	"vetclinic-api/internal/middleware"
	"vetclinic-api/internal/platform/respond"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	h := &handler{svc: svc}

	r.Route("/citas", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{appointmentID}", h.get)
		r.Put("/{appointmentID}", h.update)
		r.Patch("/{appointmentID}/estado", h.updateStatus)
		r.Delete("/{appointmentID}", h.delete)
	})
}

type handler struct {
	svc *Service
}

type citaPetResponse struct {
	ID      string `json:"id"`
	Nombre  string `json:"nombre"`
	Especie string `json:"especie"`
	Raza    string `json:"raza"`
}

type citaVetResponse struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono,omitempty"`
}

type citaResponse struct {
	ID          string           `json:"id"`
	Mascota     *citaPetResponse `json:"mascota"`
	Veterinario *citaVetResponse `json:"veterinario"`
	FechaHora   time.Time        `json:"fecha_hora"`
	Motivo      string           `json:"motivo"`
	Estado      Status           `json:"estado"`
	Notas       string           `json:"notas,omitempty"`
	FechaCreado time.Time        `json:"fecha_creacion"`
}

func toCitaResponse(d Detailed) citaResponse {
	resp := citaResponse{
		ID:          d.Appointment.ID,
		FechaHora:   d.Appointment.FechaHora,
		Motivo:      d.Appointment.Motivo,
		Estado:      d.Appointment.Estado,
		Notas:       d.Appointment.Notas,
		FechaCreado: d.Appointment.FechaCreacion,
	}
	if d.Mascota != nil {
		resp.Mascota = &citaPetResponse{
			ID:      d.Mascota.ID,
			Nombre:  d.Mascota.Nombre,
			Especie: d.Mascota.Especie,
			Raza:    d.Mascota.Raza,
		}
	}
	if d.Veterinario != nil {
		resp.Veterinario = &citaVetResponse{
			ID:       d.Veterinario.ID,
			Nombre:   d.Veterinario.Nombre,
			Email:    d.Veterinario.Email,
			Telefono: d.Veterinario.Telefono,
		}
	}
	return resp
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	items, err := h.svc.List(r.Context(), claims)
	if err != nil {
		writeCitaError(w, err)
		return
	}

	out := make([]citaResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toCitaResponse(d))
	}

	mensaje := "Citas obtenidas exitosamente"
	if len(out) == 0 {
		mensaje = "No hay citas registradas"
	}
	respond.OK(w, http.StatusOK, mensaje, out)
}

type createCitaRequest struct {
	PetID     string `json:"id_mascota"`
	VetID     string `json:"id_veterinario"`
	FechaHora string `json:"fecha_hora"`
	Motivo    string `json:"motivo"`
	Notas     string `json:"notas"`
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	var req createCitaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	in := CreateInput{
		PetID:  req.PetID,
		VetID:  req.VetID,
		Motivo: req.Motivo,
		Notas:  req.Notas,
	}
	if req.FechaHora != "" {
		t, err := time.Parse(time.RFC3339, req.FechaHora)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Datos de entrada inválidos",
				"la fecha de la cita no tiene un formato válido")
			return
		}
		in.FechaHora = t
	}

	d, err := h.svc.Create(r.Context(), claims, in)
	if err != nil {
		writeCitaError(w, err)
		return
	}
	respond.OK(w, http.StatusCreated, "Cita agendada exitosamente", toCitaResponse(d))
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "appointmentID"), claims)
	if err != nil {
		writeCitaError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Cita obtenida exitosamente", toCitaResponse(d))
}

type updateCitaRequest struct {
	FechaHora *string `json:"fecha_hora"`
	Motivo    *string `json:"motivo"`
	Notas     *string `json:"notas"`
	VetID     *string `json:"id_veterinario"`
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	// El estado tiene su propio endpoint (PATCH /estado) que pasa por la
	// máquina de estados; si viene acá se rechaza, no se ignora en silencio.
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respond.Error(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	if _, present := raw["estado"]; present {
		respond.Error(w, http.StatusBadRequest, "El estado no puede modificarse por esta vía")
		return
	}

	var req updateCitaRequest
	b, _ := json.Marshal(raw)
	if err := json.Unmarshal(b, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	in := UpdateInput{Motivo: req.Motivo, Notas: req.Notas, VetID: req.VetID}
	if req.FechaHora != nil {
		t, err := time.Parse(time.RFC3339, *req.FechaHora)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Datos de entrada inválidos",
				"la fecha de la cita no tiene un formato válido")
			return
		}
		in.FechaHora = &t
	}

	d, err := h.svc.Update(r.Context(), chi.URLParam(r, "appointmentID"), claims, in)
	if err != nil {
		writeCitaError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Cita actualizada exitosamente", toCitaResponse(d))
}

type statusRequest struct {
	Estado string `json:"estado"`
	Notas  string `json:"notas"`
}

func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	estado, ok := ParseStatus(req.Estado)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Datos de entrada inválidos",
			"el estado debe ser uno de: Programada, Confirmada, Completada, Cancelada")
		return
	}

	d, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "appointmentID"), claims, estado, req.Notas)
	if err != nil {
		writeCitaError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Estado de la cita actualizado exitosamente", toCitaResponse(d))
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "appointmentID"), claims); err != nil {
		writeCitaError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Cita eliminada exitosamente", nil)
}

func writeCitaError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		respond.Error(w, http.StatusBadRequest, "Datos de entrada inválidos", verr.Errores...)
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Cita no encontrada")
	case errors.Is(err, ErrPetNotFound):
		respond.Error(w, http.StatusNotFound, "Mascota no encontrada")
	case errors.Is(err, ErrVetNotFound):
		respond.Error(w, http.StatusNotFound, "Veterinario no encontrado")
	case errors.Is(err, ErrConflict):
		respond.Error(w, http.StatusConflict, "El veterinario ya tiene una cita agendada en ese horario")
	case errors.Is(err, ErrBadTransition):
		respond.Error(w, http.StatusConflict, "La cita no admite esa transición de estado")
	case errors.Is(err, ErrForbidden):
		respond.Error(w, http.StatusForbidden, "Acceso denegado. No tienes permisos suficientes.")
	default:
		respond.Internal(w, "Error interno del servidor", err)
	}
}
