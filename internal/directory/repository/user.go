package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	directoryerrors "chefly/internal/directory/errors"
	"chefly/pkg/config"
	"chefly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Users"
)

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindChef(ctx context.Context, id string) (*model.User, error)
	GrantAchievement(ctx context.Context, chefID, achievementID string) (bool, error)
	ApplyReviewStats(ctx context.Context, chefID string, averageRating float64, rating int, expectReviewCount int64) error
	IncrementCompletedOrders(ctx context.Context, chefID string) error
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, id)
	}

	var user model.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, directoryerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func (r *mongoUserRepository) FindChef(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, id)
	}

	var user model.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "role": model.RoleChef}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, directoryerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find chef: %w", err)
	}

	return &user, nil
}

// GrantAchievement adds an achievement id to the chef's set. $addToSet
// keeps grants idempotent under concurrent evaluator runs; the boolean
// reports whether this call was the one that granted it.
func (r *mongoUserRepository) GrantAchievement(ctx context.Context, chefID, achievementID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(chefID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, chefID)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "role": model.RoleChef},
		bson.M{"$addToSet": bson.M{"achievements": achievementID}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to grant achievement: %w", err)
	}

	if result.MatchedCount == 0 {
		return false, directoryerrors.ErrNotFound
	}
	return result.ModifiedCount == 1, nil
}

// ApplyReviewStats folds one rating into the chef's review aggregates,
// conditioned on the review count the caller read so two concurrent
// reviews cannot both fold into the same running mean. Only the
// review-owned fields are written; completed_orders stays untouched so
// a concurrent completion increment is never overwritten.
func (r *mongoUserRepository) ApplyReviewStats(ctx context.Context, chefID string, averageRating float64, rating int, expectReviewCount int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(chefID)
	if err != nil {
		return fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, chefID)
	}

	inc := bson.M{"stats.review_count": int64(1)}
	switch rating {
	case 5:
		inc["stats.five_stars"] = int64(1)
	case 4:
		inc["stats.four_stars"] = int64(1)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":                objectID,
			"role":               model.RoleChef,
			"stats.review_count": expectReviewCount,
		},
		bson.M{
			"$set": bson.M{
				"stats.average_rating": averageRating,
				"updated_at":           time.Now().UTC().Truncate(time.Millisecond),
			},
			"$inc": inc,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update chef stats: %w", err)
	}

	if result.MatchedCount == 0 {
		return directoryerrors.ErrStaleStats
	}
	return nil
}

func (r *mongoUserRepository) IncrementCompletedOrders(ctx context.Context, chefID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(chefID)
	if err != nil {
		return fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, chefID)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "role": model.RoleChef},
		bson.M{"$inc": bson.M{"stats.completed_orders": int64(1)}},
	)
	if err != nil {
		return fmt.Errorf("failed to increment completed orders: %w", err)
	}

	if result.MatchedCount == 0 {
		return directoryerrors.ErrNotFound
	}
	return nil
}
