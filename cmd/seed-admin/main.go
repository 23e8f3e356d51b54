// seed-admin crea el primer usuario administrador. Se invoca a mano por un
// operador (nunca desde el arranque de la API) y se niega si ya existe un
// admin, así el sistema nunca arranca con credenciales fijas.
//
// Uso:
//
//	ADMIN_EMAIL=... ADMIN_PASSWORD=... go run ./cmd/seed-admin
package main

import (
	"context"
	"os"
	"time"

	"vetclinic-api/internal/adapters/storage/mongodb"
	"vetclinic-api/internal/config"
	"vetclinic-api/internal/domain/users"
	"vetclinic-api/internal/platform/logger"
)

func main() {
	cfg := config.Load()
	log := logger.NewFromEnv()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Error("ADMIN_EMAIL y ADMIN_PASSWORD son requeridos", nil)
		os.Exit(2)
	}
	if cfg.MongoURI == "" {
		log.Error("MONGO_URI es requerido: sembrar un store in-memory no tiene sentido", nil)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Error("no se pudo conectar a mongo", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Error("no se pudieron crear los índices", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// SeedAdmin solo usa el repositorio de usuarios; los colaboradores de
	// cascada no entran en juego acá.
	svc := users.NewService(mongodb.NewUserRepository(db), nil, nil, users.Config{
		BcryptCost: cfg.BcryptCost,
	})

	u, err := svc.SeedAdmin(ctx, users.RegisterInput{
		Nombre:    getEnv("ADMIN_NOMBRE", "Administrador"),
		Email:     email,
		Password:  password,
		Telefono:  getEnv("ADMIN_TELEFONO", "0000000"),
		Direccion: getEnv("ADMIN_DIRECCION", "Clínica Veterinaria"),
	})
	if err != nil {
		log.Error("no se pudo crear el admin", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log.Info("admin creado", map[string]any{"id": u.ID, "email": u.Email})
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
