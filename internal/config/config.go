package config

import (
	"os"
	"strconv"
	"time"
)

// Config agrupa toda la configuración de proceso. Se carga una sola vez
// desde env en main; el resto del código recibe valores, no lee env.
type Config struct {
	Port string

	// Si MongoURI está vacío se usan repos in-memory (modo dev).
	MongoURI string
	MongoDB  string

	JWTSecret string
	JWTExpire time.Duration

	BcryptCost int

	DefaultPageSize int
	MaxPageSize     int

	// Si está activo, los errores internos se devuelven con detalle
	// en el envelope. Solo para desarrollo.
	ShowErrorDetails bool
}

func Load() Config {
	return Config{
		Port:             getEnv("PORT", "3000"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "clinica_veterinaria"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-cambiar-en-produccion"),
		JWTExpire:        getDuration("JWT_EXPIRE", 24*time.Hour),
		BcryptCost:       getInt("BCRYPT_COST", 10),
		DefaultPageSize:  getInt("DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:      getInt("MAX_PAGE_SIZE", 200),
		ShowErrorDetails: os.Getenv("SHOW_ERROR_DETAILS") == "true",
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
