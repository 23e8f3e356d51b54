package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vetclinic-api/internal/domain/appointments"
)

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(colCitas)}
}

func (r *AppointmentRepository) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	var a appointments.Appointment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return a, err
}

func (r *AppointmentRepository) List(ctx context.Context) ([]appointments.Appointment, error) {
	return r.find(ctx, bson.M{})
}

func (r *AppointmentRepository) ListByPets(ctx context.Context, petIDs []string) ([]appointments.Appointment, error) {
	if len(petIDs) == 0 {
		return []appointments.Appointment{}, nil
	}
	return r.find(ctx, bson.M{"id_mascota": bson.M{"$in": petIDs}})
}

func (r *AppointmentRepository) ListByVet(ctx context.Context, vetID string) ([]appointments.Appointment, error) {
	return r.find(ctx, bson.M{"id_veterinario": vetID})
}

func (r *AppointmentRepository) find(ctx context.Context, filter bson.M) ([]appointments.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fecha_hora", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []appointments.Appointment{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) HasConflict(ctx context.Context, vetID string, from, to time.Time, excludeID string) (bool, error) {
	filter := bson.M{
		"id_veterinario": vetID,
		"estado":         bson.M{"$ne": appointments.StatusCancelada},
		"fecha_hora":     bson.M{"$gt": from, "$lt": to},
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	err := r.col.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *AppointmentRepository) ListUpcoming(ctx context.Context, petIDs []string, after time.Time) ([]appointments.Appointment, error) {
	if len(petIDs) == 0 {
		return []appointments.Appointment{}, nil
	}
	return r.find(ctx, bson.M{
		"id_mascota": bson.M{"$in": petIDs},
		"fecha_hora": bson.M{"$gt": after},
		"estado": bson.M{"$in": []appointments.Status{
			appointments.StatusProgramada,
			appointments.StatusConfirmada,
		}},
	})
}
