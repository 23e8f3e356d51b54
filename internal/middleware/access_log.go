package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"vetclinic-api/internal/domain/accesslogs"
	"vetclinic-api/internal/platform/logger"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// AccessLog registra cada request en el log de accesos después de la
// respuesta, best-effort: un fallo al guardar se loguea y nunca afecta
// al request.
func AccessLog(repo accesslogs.Repository, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			entry := accesslogs.Entry{
				ID:         uuid.NewString(),
				Endpoint:   r.URL.Path,
				Metodo:     r.Method,
				IP:         r.RemoteAddr,
				UserAgent:  r.UserAgent(),
				StatusCode: sw.status,
				Fecha:      time.Now(),
			}
			if claims, ok := GetClaims(r.Context()); ok {
				entry.UsuarioID = claims.UserID
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := repo.Append(ctx, entry); err != nil {
					log.Error("error al guardar log de acceso", map[string]any{"error": err.Error()})
				}
			}()
		})
	}
}
