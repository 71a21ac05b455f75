package repository

import (
	"context"
	"fmt"

	"chefly/pkg/config"
	"chefly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "MenuItems"
)

type mongoMenuRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type MenuRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]*model.MenuItem, error)
}

func NewMongoMenuRepository(cfg *config.Config) MenuRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMenuRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// FindByIDs resolves catalog items in one query. Unknown ids are simply
// absent from the result; callers decide whether that is an error.
func (r *mongoMenuRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.MenuItem, error) {
	if len(ids) == 0 {
		return []*model.MenuItem{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("invalid menu item id %s: %w", id, err)
		}
		objectIDs = append(objectIDs, oid)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find menu items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*model.MenuItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}

	return items, nil
}
