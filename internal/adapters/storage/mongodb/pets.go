package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vetclinic-api/internal/domain/pets"
)

type PetRepository struct {
	col *mongo.Collection
}

func NewPetRepository(db *mongo.Database) *PetRepository {
	return &PetRepository{col: db.Collection(colMascotas)}
}

func (r *PetRepository) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *PetRepository) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	var p pets.Pet
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetRepository) List(ctx context.Context) ([]pets.Pet, error) {
	return r.find(ctx, bson.M{})
}

func (r *PetRepository) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	return r.find(ctx, bson.M{"id_propietario": ownerID})
}

func (r *PetRepository) find(ctx context.Context, filter bson.M) ([]pets.Pet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fecha_registro", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []pets.Pet{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PetRepository) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetRepository) SetHistoryRef(ctx context.Context, petID, historyID string) error {
	return r.setRef(ctx, petID, bson.M{"$set": bson.M{"historial_medico": historyID}})
}

func (r *PetRepository) ClearHistoryRef(ctx context.Context, petID string) error {
	return r.setRef(ctx, petID, bson.M{"$unset": bson.M{"historial_medico": ""}})
}

func (r *PetRepository) setRef(ctx context.Context, petID string, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": petID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return pets.ErrNotFound
	}
	return nil
}
