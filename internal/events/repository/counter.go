package repository

import (
	"context"
	"fmt"

	eventserrors "chefly/internal/events/errors"
	"chefly/pkg/config"
	"chefly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CounterCollectionName = "Counters"
)

type mongoCounterRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type CounterRepository interface {
	Ensure(ctx context.Context, name string, base int64) error
	Next(ctx context.Context, name string) (int64, error)
}

func NewMongoCounterRepository(cfg *config.Config) CounterRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCounterRepository{
		cfg:        cfg,
		collection: db.Collection(CounterCollectionName),
	}
}

// Ensure seeds the named sequence at its base offset. A no-op when the
// counter already exists, so it is safe to run on every startup.
func (r *mongoCounterRepository) Ensure(ctx context.Context, name string, base int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$setOnInsert": bson.M{"value": base}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to seed counter %s: %w", name, err)
	}
	return nil
}

// Next atomically increments the named sequence and returns the new
// value. The returned numbers are unique and strictly increasing across
// concurrent callers; Mongo serializes the document-level $inc.
func (r *mongoCounterRepository) Next(ctx context.Context, name string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter model.Counter
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", eventserrors.ErrCounterUnavailable, err)
	}

	return counter.Value, nil
}
