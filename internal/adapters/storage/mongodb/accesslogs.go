package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"vetclinic-api/internal/domain/accesslogs"
)

type AccessLogRepository struct {
	col *mongo.Collection
}

func NewAccessLogRepository(db *mongo.Database) *AccessLogRepository {
	return &AccessLogRepository{col: db.Collection(colLogsAcceso)}
}

func (r *AccessLogRepository) Append(ctx context.Context, e accesslogs.Entry) error {
	_, err := r.col.InsertOne(ctx, e)
	return err
}
