package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"vetclinic-api/internal/domain/validation"
	"vetclinic-api/internal/middleware"
	"vetclinic-api/internal/platform/respond"
	"vetclinic-api/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service, issuer auth.Issuer) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/registro", registerHandler(svc, issuer))
		ar.Post("/login", loginHandler(svc, issuer))
		ar.With(middleware.RequireAuth).Get("/perfil", profileHandler(svc))
	})

	r.Route("/usuarios", func(ur chi.Router) {
		ur.With(middleware.Require(auth.CapUsuariosList)).Get("/", listHandler(svc))
		ur.With(middleware.RequireAuth).Get("/{userID}", getHandler(svc))
		ur.With(middleware.RequireAuth).Put("/{userID}", updateHandler(svc))
		ur.With(middleware.Require(auth.CapUsuariosDelete)).Delete("/{userID}", deleteHandler(svc))
	})
}

type petSummaryResponse struct {
	ID      string `json:"id"`
	Nombre  string `json:"nombre"`
	Especie string `json:"especie"`
	Raza    string `json:"raza"`
}

type userResponse struct {
	ID            string               `json:"id"`
	Nombre        string               `json:"nombre"`
	Email         string               `json:"email"`
	Telefono      string               `json:"telefono"`
	Direccion     string               `json:"direccion"`
	Rol           string               `json:"rol"`
	Mascotas      []petSummaryResponse `json:"mascotas"`
	FechaRegistro time.Time            `json:"fecha_registro"`
}

type authResponse struct {
	Usuario userResponse `json:"usuario"`
	Token   string       `json:"token"`
}

type registerRequest struct {
	Nombre    string `json:"nombre"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Rol       string `json:"rol"`
}

func registerHandler(svc *Service, issuer auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput(req))
		if err != nil {
			writeUserError(w, err)
			return
		}

		token, err := issuer.Issue(u.ID)
		if err != nil {
			respond.Internal(w, "Error al generar el token", err)
			return
		}

		respond.OK(w, http.StatusCreated, "Usuario registrado exitosamente", authResponse{
			Usuario: toUserResponse(u, nil),
			Token:   token,
		})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginHandler(svc *Service, issuer auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeUserError(w, err)
			return
		}

		token, err := issuer.Issue(u.ID)
		if err != nil {
			respond.Internal(w, "Error al generar el token", err)
			return
		}

		respond.OK(w, http.StatusOK, "Login exitoso", authResponse{
			Usuario: toUserResponse(u, nil),
			Token:   token,
		})
	}
}

func profileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		u, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			writeUserError(w, err)
			return
		}

		pets, err := svc.PetsOf(r.Context(), u.ID)
		if err != nil {
			respond.Internal(w, "Error al obtener perfil", err)
			return
		}

		respond.OK(w, http.StatusOK, "Perfil obtenido exitosamente", toUserResponse(u, pets))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pagina, _ := strconv.Atoi(r.URL.Query().Get("pagina"))
		limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))

		var filter ListFilter
		if rol := r.URL.Query().Get("rol"); rol != "" {
			parsed, ok := auth.ParseRole(rol)
			if !ok {
				respond.Error(w, http.StatusBadRequest, "El rol de filtro no es válido")
				return
			}
			filter.Rol = parsed
		}

		items, meta, err := svc.List(r.Context(), filter, pagina, limite)
		if err != nil {
			respond.Internal(w, "Error al obtener usuarios", err)
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			pets, err := svc.PetsOf(r.Context(), u.ID)
			if err != nil {
				respond.Internal(w, "Error al obtener usuarios", err)
				return
			}
			out = append(out, toUserResponse(u, pets))
		}

		mensaje := "Usuarios obtenidos exitosamente"
		if len(out) == 0 {
			mensaje = "No hay usuarios registrados"
		}
		respond.OKMeta(w, http.StatusOK, mensaje, out, map[string]any{
			"total":   meta.Total,
			"pagina":  meta.Pagina,
			"limite":  meta.Limite,
			"hasNext": meta.HasNext,
			"hasPrev": meta.HasPrev,
		})
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Get(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeUserError(w, err)
			return
		}

		pets, err := svc.PetsOf(r.Context(), u.ID)
		if err != nil {
			respond.Internal(w, "Error al obtener usuario", err)
			return
		}

		respond.OK(w, http.StatusOK, "Usuario obtenido exitosamente", toUserResponse(u, pets))
	}
}

type updateRequest struct {
	Nombre    *string `json:"nombre"`
	Email     *string `json:"email"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Decodificar primero a raw para detectar un intento de escribir
		// password por esta vía: se rechaza, no se ignora en silencio.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			respond.Error(w, http.StatusBadRequest, "JSON inválido")
			return
		}
		if _, present := raw["password"]; present {
			respond.Error(w, http.StatusBadRequest, "La contraseña no puede modificarse por esta vía")
			return
		}

		var req updateRequest
		b, _ := json.Marshal(raw)
		if err := json.Unmarshal(b, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		u, err := svc.Update(r.Context(), chi.URLParam(r, "userID"), UpdateInput(req))
		if err != nil {
			writeUserError(w, err)
			return
		}

		pets, err := svc.PetsOf(r.Context(), u.ID)
		if err != nil {
			respond.Internal(w, "Error al actualizar usuario", err)
			return
		}

		respond.OK(w, http.StatusOK, "Usuario actualizado exitosamente", toUserResponse(u, pets))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Delete(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeUserError(w, err)
			return
		}

		respond.OK(w, http.StatusOK, "Usuario eliminado exitosamente", map[string]any{
			"mascotas_eliminadas": res.MascotasEliminadas,
			"citas_canceladas":    res.CitasCanceladas,
		})
	}
}

func toUserResponse(u User, pets []PetSummary) userResponse {
	out := userResponse{
		ID:            u.ID,
		Nombre:        u.Nombre,
		Email:         u.Email,
		Telefono:      u.Telefono,
		Direccion:     u.Direccion,
		Rol:           string(u.Rol),
		Mascotas:      make([]petSummaryResponse, 0, len(pets)),
		FechaRegistro: u.FechaRegistro,
	}
	for _, p := range pets {
		out.Mascotas = append(out.Mascotas, petSummaryResponse(p))
	}
	return out
}

func writeUserError(w http.ResponseWriter, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		respond.Error(w, http.StatusBadRequest, "Error de validación", ve.Errores...)
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Usuario no encontrado")
	case errors.Is(err, ErrEmailTaken):
		respond.Error(w, http.StatusBadRequest, "El email ya está registrado")
	case errors.Is(err, ErrBadCredentials):
		respond.Error(w, http.StatusUnauthorized, "Credenciales inválidas")
	default:
		respond.Internal(w, "Error interno del servidor", err)
	}
}
