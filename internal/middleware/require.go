package middleware

import (
	"net/http"

	"vetclinic-api/internal/platform/respond"
	"vetclinic-api/internal/ports/auth"
)

// RequireAuth corta con 401 si el request no trae claims válidas.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetClaims(r.Context()); !ok {
			respond.Error(w, http.StatusUnauthorized, "Acceso denegado. No se proporcionó un token de autenticación válido.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Require corta con 401 sin claims y con 403 si el rol no tiene la
// capability. El chequeo de rol vive una sola vez acá, contra la tabla
// declarativa, en vez de repetirse en cada service.
func Require(cap auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Acceso denegado. No se proporcionó un token de autenticación válido.")
				return
			}
			if !auth.Allowed(claims.Role, cap) {
				respond.Error(w, http.StatusForbidden, "Acceso denegado. No tienes permisos suficientes.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
