package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventserrors "turfslot/internal/events/errors"
	"turfslot/pkg/config"
	mongotx "turfslot/pkg/db/mongo"
	"turfslot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const EventBlocksCollection = "EventBlocks"

type EventRepository interface {
	Create(ctx context.Context, event *model.EventBlock) error
	FindByID(ctx context.Context, id string) (*model.EventBlock, error)
	// UpdateState persists the activation fields only.
	UpdateState(ctx context.Context, event *model.EventBlock) error
	// FindActive returns active events on any of groundIDs (all grounds when
	// empty) whose range intersects [from, to]. A zero bound is open.
	FindActive(ctx context.Context, groundIDs []string, from, to time.Time) ([]*model.EventBlock, error)
}

type mongoEventRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	return &mongoEventRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(EventBlocksCollection),
	}
}

func (r *mongoEventRepository) Create(ctx context.Context, event *model.EventBlock) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	event.CreatedAt, event.UpdatedAt = now, now
	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to create event block: %w", err)
	}
	event.ID = mongotx.HexID(result.InsertedID)
	return nil
}

func (r *mongoEventRepository) FindByID(ctx context.Context, id string) (*model.EventBlock, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	var event model.EventBlock
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, eventserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event block: %w", err)
	}
	return &event, nil
}

func (r *mongoEventRepository) UpdateState(ctx context.Context, event *model.EventBlock) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(event.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, event.ID)
	}

	event.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{"$set": bson.M{
		"state":            event.State,
		"state_changed_at": event.StateChangedAt,
		"updated_at":       event.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update event block: %w", err)
	}
	if result.MatchedCount == 0 {
		return eventserrors.ErrNotFound
	}
	return nil
}

func (r *mongoEventRepository) FindActive(ctx context.Context, groundIDs []string, from, to time.Time) ([]*model.EventBlock, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"state": model.StateActive}
	if len(groundIDs) > 0 {
		filter["ground_ids"] = bson.M{"$in": groundIDs}
	}
	if !from.IsZero() {
		filter["end_date"] = bson.M{"$gte": from}
	}
	if !to.IsZero() {
		// to is a calendar day; the event must start no later than its end.
		filter["start_date"] = bson.M{"$lte": to.Add(24*time.Hour - time.Millisecond)}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find event blocks: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.EventBlock
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode event blocks: %w", err)
	}
	return events, nil
}
