// Package respond implementa el envelope estándar de la API:
//
//	{ "success": true,  "mensaje": "...", "data": ..., "meta": ... }
//	{ "success": false, "mensaje": "...", "statusCode": n, "errores": [...] }
//
// Antes este writeJSON vivía duplicado en cada handler; con cinco módulos
// ya conviene el helper común.
package respond

import (
	"encoding/json"
	"net/http"

	"vetclinic-api/internal/platform/logger"
)

var (
	errLog      logger.Logger
	showDetails bool
)

// Configure conecta el logger de errores internos y el modo de detalle
// (SHOW_ERROR_DETAILS). Se llama una vez al armar el router.
func Configure(log logger.Logger, details bool) {
	errLog = log
	showDetails = details
}

type successEnvelope struct {
	Success bool   `json:"success"`
	Mensaje string `json:"mensaje"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

type errorEnvelope struct {
	Success    bool     `json:"success"`
	Mensaje    string   `json:"mensaje"`
	StatusCode int      `json:"statusCode"`
	Errores    []string `json:"errores,omitempty"`
}

func OK(w http.ResponseWriter, status int, mensaje string, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Mensaje: mensaje, Data: data})
}

// OKMeta agrega meta (paginación) al envelope de éxito.
func OKMeta(w http.ResponseWriter, status int, mensaje string, data, meta any) {
	writeJSON(w, status, successEnvelope{Success: true, Mensaje: mensaje, Data: data, Meta: meta})
}

func Error(w http.ResponseWriter, status int, mensaje string, errores ...string) {
	writeJSON(w, status, errorEnvelope{Success: false, Mensaje: mensaje, StatusCode: status, Errores: errores})
}

// Internal registra el error real del lado del servidor y responde 500
// con un mensaje genérico. Con SHOW_ERROR_DETAILS el detalle viaja
// además en errores, solo para desarrollo.
func Internal(w http.ResponseWriter, mensaje string, err error) {
	detalle := ""
	if err != nil {
		detalle = err.Error()
	}
	if errLog != nil {
		errLog.Error("error interno", map[string]any{"mensaje": mensaje, "error": detalle})
	}
	if showDetails && detalle != "" {
		Error(w, http.StatusInternalServerError, mensaje, detalle)
		return
	}
	Error(w, http.StatusInternalServerError, mensaje)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
