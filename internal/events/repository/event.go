package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventserrors "chefly/internal/events/errors"
	"chefly/pkg/config"
	"chefly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Events"
)

type mongoEventRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id string) (*model.Event, error)
	FindByParty(ctx context.Context, role, userID string, limit int, offset int64) ([]*model.Event, error)
	CountByParty(ctx context.Context, role, userID string) (int64, error)
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus, reason string) error
	AppendAttendance(ctx context.Context, id string, record model.AttendanceRecord) error
	FindConfirmedBetween(ctx context.Context, from, to time.Time) ([]*model.Event, error)
	FindConfirmedForParty(ctx context.Context, role, userID string, from, to time.Time) ([]*model.Event, error)
	ClaimReminder(ctx context.Context, id, offsetKey string) (bool, error)
	ReleaseReminder(ctx context.Context, id, offsetKey string) error
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEventRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoEventRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func partyField(role string) string {
	if role == model.RoleChef {
		return "chef_id"
	}
	return "customer_id"
}

func (r *mongoEventRepository) Create(ctx context.Context, event *model.Event) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	event.CreatedAt = now
	event.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid.Hex()
	}
	return nil
}

func (r *mongoEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	var event model.Event
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, eventserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	return &event, nil
}

func (r *mongoEventRepository) FindByParty(ctx context.Context, role, userID string, limit int, offset int64) ([]*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{partyField(role): userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	return events, nil
}

func (r *mongoEventRepository) CountByParty(ctx context.Context, role, userID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{partyField(role): userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// UpdateStatus applies a transition conditioned on the previously read
// status. A zero match after the event was seen means another writer won
// the race; the caller maps that to an invalid-state failure.
func (r *mongoEventRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus, reason string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	set := bson.M{
		"status":     toStatus,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if reason != "" {
		set["reason"] = reason
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": fromStatus},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	if result.MatchedCount == 0 {
		return eventserrors.ErrStaleStatus
	}
	return nil
}

func (r *mongoEventRepository) AppendAttendance(ctx context.Context, id string, record model.AttendanceRecord) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$push": bson.M{"attendance": record},
			"$set":  bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to append attendance: %w", err)
	}

	if result.MatchedCount == 0 {
		return eventserrors.ErrNotFound
	}
	return nil
}

func (r *mongoEventRepository) FindConfirmedBetween(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	return r.findConfirmed(ctx, bson.M{
		"status":     model.StatusConfirmed,
		"start_time": bson.M{"$gte": from, "$lte": to},
	})
}

func (r *mongoEventRepository) FindConfirmedForParty(ctx context.Context, role, userID string, from, to time.Time) ([]*model.Event, error) {
	return r.findConfirmed(ctx, bson.M{
		"status":         model.StatusConfirmed,
		partyField(role): userID,
		"start_time":     bson.M{"$gte": from, "$lte": to},
	})
}

func (r *mongoEventRepository) findConfirmed(ctx context.Context, filter bson.M) ([]*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find confirmed events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode confirmed events: %w", err)
	}

	return events, nil
}

// ClaimReminder atomically records that a reminder window was handled for
// this event. $addToSet modifies the document only when the offset key is
// new, so exactly one scanner wins the claim per (event, offset) pair.
func (r *mongoEventRepository) ClaimReminder(ctx context.Context, id, offsetKey string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$addToSet": bson.M{"reminders_sent": offsetKey}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder: %w", err)
	}

	if result.MatchedCount == 0 {
		return false, eventserrors.ErrNotFound
	}
	return result.ModifiedCount == 1, nil
}

// ReleaseReminder hands a claimed reminder window back, so a later scan
// inside the window can retry after a transient dispatch-side failure.
func (r *mongoEventRepository) ReleaseReminder(ctx context.Context, id, offsetKey string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$pull": bson.M{"reminders_sent": offsetKey}},
	)
	if err != nil {
		return fmt.Errorf("failed to release reminder: %w", err)
	}
	return nil
}
