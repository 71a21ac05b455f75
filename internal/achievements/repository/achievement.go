package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"chefly/pkg/config"
	"chefly/pkg/model"
)

const (
	CollectionName = "Achievements"
)

// AchievementRepository reads the achievement catalog. The catalog is
// administrator-maintained; this service only consumes it.
type AchievementRepository interface {
	FindAll(ctx context.Context) ([]*model.Achievement, error)
}

type mongoAchievementRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAchievementRepository(cfg *config.Config) AchievementRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAchievementRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAchievementRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAchievementRepository) FindAll(ctx context.Context) ([]*model.Achievement, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer cursor.Close(ctx)

	var achievements []*model.Achievement
	if err := cursor.All(ctx, &achievements); err != nil {
		return nil, fmt.Errorf("failed to decode achievements: %w", err)
	}
	return achievements, nil
}
