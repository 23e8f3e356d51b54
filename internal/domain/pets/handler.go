package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vetclinic-api/internal/domain/histories"
	"vetclinic-api/internal/domain/validation"
	"vetclinic-api/internal/middleware"
	"vetclinic-api/internal/platform/respond"
	"vetclinic-api/internal/ports/auth"
)

// RegisterRoutes monta las rutas de mascotas sobre el router recibido.
func RegisterRoutes(r chi.Router, svc *Service) {
	h := &handler{svc: svc}

	r.Route("/mascotas", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{petID}", h.get)
		r.Put("/{petID}", h.update)

		r.With(middleware.Require(auth.CapMascotasDelete)).
			Delete("/{petID}", h.delete)
		r.With(middleware.Require(auth.CapMascotasTransfer)).
			Post("/{petID}/transferir", h.transfer)
	})
}

type handler struct {
	svc *Service
}

type ownerResponse struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono,omitempty"`
}

type petResponse struct {
	ID              string                    `json:"id"`
	Nombre          string                    `json:"nombre"`
	Especie         Species                   `json:"especie"`
	Raza            string                    `json:"raza"`
	FechaNacimiento time.Time                 `json:"fecha_nacimiento"`
	Sexo            Sex                       `json:"sexo"`
	Color           string                    `json:"color"`
	Foto            string                    `json:"foto,omitempty"`
	Esterilizado    bool                      `json:"esterilizado"`
	Propietario     *ownerResponse            `json:"propietario"`
	Historial       *histories.MedicalHistory `json:"historial_medico"`
	FechaRegistro   time.Time                 `json:"fecha_registro"`
}

func toPetResponse(d Detailed) petResponse {
	resp := petResponse{
		ID:              d.Pet.ID,
		Nombre:          d.Pet.Nombre,
		Especie:         d.Pet.Especie,
		Raza:            d.Pet.Raza,
		FechaNacimiento: d.Pet.FechaNacimiento,
		Sexo:            d.Pet.Sexo,
		Color:           d.Pet.Color,
		Foto:            d.Pet.Foto,
		Esterilizado:    d.Pet.Esterilizado,
		Historial:       d.Historial,
		FechaRegistro:   d.Pet.FechaRegistro,
	}
	if d.Propietario.ID != "" {
		resp.Propietario = &ownerResponse{
			ID:       d.Propietario.ID,
			Nombre:   d.Propietario.Nombre,
			Email:    d.Propietario.Email,
			Telefono: d.Propietario.Telefono,
		}
	}
	return resp
}

// parseFecha acepta fecha con hora (RFC 3339) o solo fecha.
func parseFecha(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	items, err := h.svc.List(r.Context(), claims)
	if err != nil {
		writePetError(w, err)
		return
	}

	out := make([]petResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toPetResponse(d))
	}

	mensaje := "Mascotas obtenidas exitosamente"
	if len(out) == 0 {
		mensaje = "No hay mascotas registradas"
	}
	respond.OK(w, http.StatusOK, mensaje, out)
}

type createPetRequest struct {
	Nombre          string `json:"nombre"`
	Especie         string `json:"especie"`
	Raza            string `json:"raza"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Sexo            string `json:"sexo"`
	Color           string `json:"color"`
	Foto            string `json:"foto"`
	Esterilizado    bool   `json:"esterilizado"`
	PropietarioID   string `json:"id_propietario"`
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	var req createPetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	in := CreateInput{
		Nombre:        req.Nombre,
		Especie:       req.Especie,
		Raza:          req.Raza,
		Sexo:          req.Sexo,
		Color:         req.Color,
		Foto:          req.Foto,
		Esterilizado:  req.Esterilizado,
		PropietarioID: req.PropietarioID,
	}
	if req.FechaNacimiento != "" {
		if t, ok := parseFecha(req.FechaNacimiento); ok {
			in.FechaNacimiento = t
		} else {
			respond.Error(w, http.StatusBadRequest, "Datos de entrada inválidos",
				"la fecha de nacimiento no tiene un formato válido")
			return
		}
	}

	d, err := h.svc.Create(r.Context(), claims, in)
	if err != nil {
		writePetError(w, err)
		return
	}
	respond.OK(w, http.StatusCreated, "Mascota registrada exitosamente", toPetResponse(d))
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "petID"), claims)
	if err != nil {
		writePetError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Mascota obtenida exitosamente", toPetResponse(d))
}

type updatePetRequest struct {
	Nombre          *string `json:"nombre"`
	Especie         *string `json:"especie"`
	Raza            *string `json:"raza"`
	FechaNacimiento *string `json:"fecha_nacimiento"`
	Sexo            *string `json:"sexo"`
	Color           *string `json:"color"`
	Foto            *string `json:"foto"`
	Esterilizado    *bool   `json:"esterilizado"`
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	var req updatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	in := UpdateInput{
		Nombre:       req.Nombre,
		Especie:      req.Especie,
		Raza:         req.Raza,
		Sexo:         req.Sexo,
		Color:        req.Color,
		Foto:         req.Foto,
		Esterilizado: req.Esterilizado,
	}
	if req.FechaNacimiento != nil {
		if t, ok := parseFecha(*req.FechaNacimiento); ok {
			in.FechaNacimiento = &t
		} else {
			respond.Error(w, http.StatusBadRequest, "Datos de entrada inválidos",
				"la fecha de nacimiento no tiene un formato válido")
			return
		}
	}

	d, err := h.svc.Update(r.Context(), chi.URLParam(r, "petID"), claims, in)
	if err != nil {
		writePetError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Mascota actualizada exitosamente", toPetResponse(d))
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "petID")); err != nil {
		writePetError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Mascota eliminada exitosamente", nil)
}

type transferRequest struct {
	NuevoPropietarioID string `json:"id_nuevo_propietario"`
}

func (h *handler) transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	d, err := h.svc.Transfer(r.Context(), chi.URLParam(r, "petID"), req.NuevoPropietarioID)
	if err != nil {
		writePetError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "Mascota transferida exitosamente", toPetResponse(d))
}

func writePetError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		respond.Error(w, http.StatusBadRequest, "Datos de entrada inválidos", verr.Errores...)
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Mascota no encontrada")
	case errors.Is(err, ErrOwnerNotFound):
		respond.Error(w, http.StatusNotFound, "Propietario no encontrado")
	case errors.Is(err, ErrForbidden):
		respond.Error(w, http.StatusForbidden, "Acceso denegado. No tienes permisos suficientes.")
	default:
		respond.Internal(w, "Error interno del servidor", err)
	}
}
