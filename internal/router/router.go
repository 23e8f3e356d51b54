// Package router es la composición de la API: elige el storage, arma los
// services con sus adapters y monta todas las rutas bajo /api.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"

	"vetclinic-api/internal/adapters/auth/jwtauth"
	"vetclinic-api/internal/adapters/storage/memory"
	"vetclinic-api/internal/adapters/storage/mongodb"
	"vetclinic-api/internal/config"
	"vetclinic-api/internal/domain/accesslogs"
	"vetclinic-api/internal/domain/appointments"
	"vetclinic-api/internal/domain/histories"
	"vetclinic-api/internal/domain/pets"
	"vetclinic-api/internal/domain/users"
	"vetclinic-api/internal/middleware"
	"vetclinic-api/internal/platform/logger"
	"vetclinic-api/internal/platform/respond"
)

type Options struct {
	Config config.Config
	Log    logger.Logger

	// DB en nil usa repositorios in-memory (desarrollo y tests).
	DB *mongo.Database
}

// Services expone los services armados; los usa cmd/seed-admin y los tests.
type Services struct {
	Users        *users.Service
	Pets         *pets.Service
	Histories    *histories.Service
	Appointments *appointments.Service
}

func New(opts Options) (http.Handler, *Services) {
	cfg := opts.Config
	log := opts.Log

	respond.Configure(log, cfg.ShowErrorDetails)

	var (
		userRepo users.Repository
		petRepo  pets.Repository
		histRepo histories.Repository
		citaRepo appointments.Repository
		logRepo  accesslogs.Repository
	)
	if opts.DB != nil {
		userRepo = mongodb.NewUserRepository(opts.DB)
		petRepo = mongodb.NewPetRepository(opts.DB)
		histRepo = mongodb.NewHistoryRepository(opts.DB)
		citaRepo = mongodb.NewAppointmentRepository(opts.DB)
		logRepo = mongodb.NewAccessLogRepository(opts.DB)
	} else {
		userRepo = memory.NewUserRepository()
		petRepo = memory.NewPetRepository()
		histRepo = memory.NewHistoryRepository()
		citaRepo = memory.NewAppointmentRepository()
		logRepo = memory.NewAccessLogRepository()
	}

	// El orden importa: el service de citas no depende de ningún otro y el
	// de usuarios lo usa para el borrado en cascada.
	citasSvc := appointments.NewService(citaRepo,
		&appointmentPetDirectory{pets: petRepo},
		&appointmentVetDirectory{users: userRepo})
	histSvc := histories.NewService(histRepo,
		&historyPetDirectory{pets: petRepo, users: userRepo})
	petsSvc := pets.NewService(petRepo,
		&petOwnerDirectory{users: userRepo},
		&petHistoryStore{histories: histRepo})
	usersSvc := users.NewService(userRepo,
		&userPetDirectory{pets: petRepo, histories: histRepo},
		citasSvc,
		users.Config{
			BcryptCost:      cfg.BcryptCost,
			DefaultPageSize: cfg.DefaultPageSize,
			MaxPageSize:     cfg.MaxPageSize,
		})

	issuer := jwtauth.NewIssuer(cfg.JWTSecret, cfg.JWTExpire)
	verifier := jwtauth.NewVerifier(cfg.JWTSecret, usersSvc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AuthContext(verifier))
	r.Use(middleware.AccessLog(logRepo, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.OK(w, http.StatusOK, "ok", nil)
	})

	r.Route("/api", func(api chi.Router) {
		users.RegisterRoutes(api, usersSvc, issuer)
		pets.RegisterRoutes(api, petsSvc)
		histories.RegisterRoutes(api, histSvc)
		appointments.RegisterRoutes(api, citasSvc)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, "Ruta no encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "Método no permitido")
	})

	return r, &Services{
		Users:        usersSvc,
		Pets:         petsSvc,
		Histories:    histSvc,
		Appointments: citasSvc,
	}
}
