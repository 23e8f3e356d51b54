package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vetclinic-api/internal/domain/histories"
)

type HistoryRepository struct {
	col *mongo.Collection
}

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{col: db.Collection(colHistoriales)}
}

func (r *HistoryRepository) Create(ctx context.Context, h histories.MedicalHistory) error {
	_, err := r.col.InsertOne(ctx, h)
	if mongo.IsDuplicateKeyError(err) {
		// Índice único por id_mascota: gana la primera escritura.
		return histories.ErrConflict
	}
	return err
}

func (r *HistoryRepository) GetByID(ctx context.Context, id string) (histories.MedicalHistory, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *HistoryRepository) GetByPet(ctx context.Context, petID string) (histories.MedicalHistory, error) {
	return r.findOne(ctx, bson.M{"id_mascota": petID})
}

func (r *HistoryRepository) findOne(ctx context.Context, filter bson.M) (histories.MedicalHistory, error) {
	var h histories.MedicalHistory
	err := r.col.FindOne(ctx, filter).Decode(&h)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return histories.MedicalHistory{}, histories.ErrNotFound
	}
	return h, err
}

func (r *HistoryRepository) List(ctx context.Context) ([]histories.MedicalHistory, error) {
	return r.find(ctx, bson.M{})
}

func (r *HistoryRepository) ListByPets(ctx context.Context, petIDs []string) ([]histories.MedicalHistory, error) {
	if len(petIDs) == 0 {
		return []histories.MedicalHistory{}, nil
	}
	return r.find(ctx, bson.M{"id_mascota": bson.M{"$in": petIDs}})
}

func (r *HistoryRepository) find(ctx context.Context, filter bson.M) ([]histories.MedicalHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fecha_creacion", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []histories.MedicalHistory{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *HistoryRepository) Update(ctx context.Context, h histories.MedicalHistory) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": h.ID}, h)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return histories.ErrNotFound
	}
	return nil
}

func (r *HistoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return histories.ErrNotFound
	}
	return nil
}
