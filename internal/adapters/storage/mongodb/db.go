// Package mongodb implementa los repositorios sobre MongoDB con el driver
// oficial. Las colecciones son usuarios, mascotas, historiales, citas y
// logs_acceso; los documentos usan los tags bson de los modelos de dominio.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	colUsuarios    = "usuarios"
	colMascotas    = "mascotas"
	colHistoriales = "historiales"
	colCitas       = "citas"
	colLogsAcceso  = "logs_acceso"
)

// Open conecta y verifica con un ping antes de devolver la base.
func Open(ctx context.Context, uri, database string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("conectando a mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping a mongo: %w", err)
	}
	return client.Database(database), nil
}

// EnsureIndexes crea los índices que asumen los repositorios. Es
// idempotente; se invoca en el arranque.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	if _, err := db.Collection(colUsuarios).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("índice de usuarios: %w", err)
	}

	if _, err := db.Collection(colMascotas).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id_propietario", Value: 1}},
	}); err != nil {
		return fmt.Errorf("índice de mascotas: %w", err)
	}

	if _, err := db.Collection(colHistoriales).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id_mascota", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("índice de historiales: %w", err)
	}

	if _, err := db.Collection(colCitas).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id_veterinario", Value: 1}, {Key: "fecha_hora", Value: 1}},
	}); err != nil {
		return fmt.Errorf("índice de citas: %w", err)
	}

	if _, err := db.Collection(colLogsAcceso).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "fecha", Value: -1}},
	}); err != nil {
		return fmt.Errorf("índice de logs: %w", err)
	}

	return nil
}
