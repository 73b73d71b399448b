package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "turfslot/internal/catalog/errors"
	"turfslot/pkg/config"
	mongotx "turfslot/pkg/db/mongo"
	"turfslot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	GroundsCollection = "Grounds"
	SlotsCollection   = "Slots"
)

type CatalogRepository interface {
	CreateGround(ctx context.Context, ground *model.Ground) error
	FindGround(ctx context.Context, id string) (*model.Ground, error)
	FindGrounds(ctx context.Context, limit int, offset int64) ([]*model.Ground, error)
	CountGrounds(ctx context.Context) (int64, error)
	UpdateGround(ctx context.Context, ground *model.Ground) error

	CreateSlots(ctx context.Context, slots []*model.Slot) error
	FindSlot(ctx context.Context, id string) (*model.Slot, error)
	FindSlotsByGround(ctx context.Context, groundID string) ([]*model.Slot, error)
	UpdateSlot(ctx context.Context, slot *model.Slot) error
}

type mongoCatalogRepository struct {
	cfg     *config.Config
	grounds *mongo.Collection
	slots   *mongo.Collection
}

func NewMongoCatalogRepository(cfg *config.Config) CatalogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCatalogRepository{
		cfg:     cfg,
		grounds: db.Collection(GroundsCollection),
		slots:   db.Collection(SlotsCollection),
	}
}

func (r *mongoCatalogRepository) CreateGround(ctx context.Context, ground *model.Ground) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	ground.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.grounds.InsertOne(ctx, ground)
	if err != nil {
		return fmt.Errorf("failed to create ground: %w", err)
	}
	ground.ID = mongotx.HexID(result.InsertedID)
	return nil
}

func (r *mongoCatalogRepository) FindGround(ctx context.Context, id string) (*model.Ground, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var ground model.Ground
	if err := r.grounds.FindOne(ctx, bson.M{"_id": oid}).Decode(&ground); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrGroundNotFound
		}
		return nil, fmt.Errorf("failed to find ground: %w", err)
	}
	return &ground, nil
}

func (r *mongoCatalogRepository) FindGrounds(ctx context.Context, limit int, offset int64) ([]*model.Ground, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.grounds.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find grounds: %w", err)
	}
	defer cursor.Close(ctx)

	var grounds []*model.Ground
	if err := cursor.All(ctx, &grounds); err != nil {
		return nil, fmt.Errorf("failed to decode grounds: %w", err)
	}
	return grounds, nil
}

func (r *mongoCatalogRepository) CountGrounds(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.grounds.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count grounds: %w", err)
	}
	return count, nil
}

func (r *mongoCatalogRepository) UpdateGround(ctx context.Context, ground *model.Ground) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(ground.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, ground.ID)
	}

	update := bson.M{"$set": bson.M{
		"name":                  ground.Name,
		"supports_ad_hoc_slots": ground.SupportsAdHocSlots,
		"supports_academy":      ground.SupportsAcademy,
		"supports_membership":   ground.SupportsMembership,
		"active":                ground.Active,
	}}
	result, err := r.grounds.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update ground: %w", err)
	}
	if result.MatchedCount == 0 {
		return catalogerrors.ErrGroundNotFound
	}
	return nil
}

func (r *mongoCatalogRepository) CreateSlots(ctx context.Context, slots []*model.Slot) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(slots))
	for _, s := range slots {
		s.CreatedAt, s.UpdatedAt = now, now
		docs = append(docs, s)
	}

	result, err := r.slots.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to create slots: %w", err)
	}
	for i, id := range result.InsertedIDs {
		slots[i].ID = mongotx.HexID(id)
	}
	return nil
}

func (r *mongoCatalogRepository) FindSlot(ctx context.Context, id string) (*model.Slot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var slot model.Slot
	if err := r.slots.FindOne(ctx, bson.M{"_id": oid}).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}
	return &slot, nil
}

func (r *mongoCatalogRepository) FindSlotsByGround(ctx context.Context, groundID string) ([]*model.Slot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.slots.Find(ctx, bson.M{"ground_id": groundID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *mongoCatalogRepository) UpdateSlot(ctx context.Context, slot *model.Slot) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(slot.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, slot.ID)
	}

	slot.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{"$set": bson.M{
		"label":      slot.Label,
		"price":      slot.Price,
		"active":     slot.Active,
		"updated_at": slot.UpdatedAt,
	}}
	result, err := r.slots.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update slot: %w", err)
	}
	if result.MatchedCount == 0 {
		return catalogerrors.ErrSlotNotFound
	}
	return nil
}
