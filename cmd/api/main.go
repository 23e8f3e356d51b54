package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"vetclinic-api/internal/adapters/storage/mongodb"
	"vetclinic-api/internal/config"
	"vetclinic-api/internal/platform/logger"
	"vetclinic-api/internal/router"
)

func main() {
	cfg := config.Load()
	log := logger.NewFromEnv()

	var db *mongo.Database
	if cfg.MongoURI != "" {
		var err error
		db, err = mongodb.Open(context.Background(), cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Error("no se pudo conectar a mongo", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		if err := mongodb.EnsureIndexes(context.Background(), db); err != nil {
			log.Error("no se pudieron crear los índices", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		log.Info("storage mongodb", map[string]any{"db": cfg.MongoDB})
	} else {
		log.Warn("sin MONGO_URI: usando repositorios in-memory, los datos se pierden al reiniciar", nil)
	}

	handler, _ := router.New(router.Options{Config: cfg, Log: log, DB: db})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api escuchando", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("el servidor terminó con error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("apagando", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown forzado", map[string]any{"error": err.Error()})
	}
}
