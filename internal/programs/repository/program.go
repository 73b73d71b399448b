package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	programserrors "turfslot/internal/programs/errors"
	"turfslot/pkg/config"
	mongotx "turfslot/pkg/db/mongo"
	"turfslot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AcademiesCollection   = "Academies"
	MembershipsCollection = "Memberships"
)

// ProgramRepository stores academies and memberships in separate
// collections selected by kind.
type ProgramRepository interface {
	Create(ctx context.Context, program *model.Program) error
	FindByID(ctx context.Context, kind model.ProgramKind, id string) (*model.Program, error)
	Update(ctx context.Context, program *model.Program) error

	// FindActive returns active programs on any of groundIDs, or on every
	// ground when groundIDs is empty.
	FindActive(ctx context.Context, kind model.ProgramKind, groundIDs []string) ([]*model.Program, error)
	FindByGround(ctx context.Context, kind model.ProgramKind, groundID string) ([]*model.Program, error)
}

type mongoProgramRepository struct {
	cfg         *config.Config
	collections map[model.ProgramKind]*mongo.Collection
}

func NewMongoProgramRepository(cfg *config.Config) ProgramRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProgramRepository{
		cfg: cfg,
		collections: map[model.ProgramKind]*mongo.Collection{
			model.ProgramAcademy:    db.Collection(AcademiesCollection),
			model.ProgramMembership: db.Collection(MembershipsCollection),
		},
	}
}

func (r *mongoProgramRepository) collection(kind model.ProgramKind) (*mongo.Collection, error) {
	coll, ok := r.collections[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", programserrors.ErrUnknownKind, kind)
	}
	return coll, nil
}

func (r *mongoProgramRepository) Create(ctx context.Context, program *model.Program) error {
	coll, err := r.collection(program.Kind)
	if err != nil {
		return err
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	program.CreatedAt, program.UpdatedAt = now, now
	result, err := coll.InsertOne(ctx, program)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", program.Kind, err)
	}
	program.ID = mongotx.HexID(result.InsertedID)
	return nil
}

func (r *mongoProgramRepository) FindByID(ctx context.Context, kind model.ProgramKind, id string) (*model.Program, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", programserrors.ErrInvalidID, id)
	}

	var program model.Program
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&program); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, programserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s: %w", kind, err)
	}
	return &program, nil
}

func (r *mongoProgramRepository) Update(ctx context.Context, program *model.Program) error {
	coll, err := r.collection(program.Kind)
	if err != nil {
		return err
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(program.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", programserrors.ErrInvalidID, program.ID)
	}

	program.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{"$set": bson.M{
		"name":             program.Name,
		"morning_slot_ids": program.MorningSlotIDs,
		"evening_slot_ids": program.EveningSlotIDs,
		"active_days":      program.ActiveDays,
		"due_date":         program.DueDate,
		"state":            program.State,
		"state_changed_at": program.StateChangedAt,
		"updated_at":       program.UpdatedAt,
	}}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", program.Kind, err)
	}
	if result.MatchedCount == 0 {
		return programserrors.ErrNotFound
	}
	return nil
}

func (r *mongoProgramRepository) FindActive(ctx context.Context, kind model.ProgramKind, groundIDs []string) ([]*model.Program, error) {
	filter := bson.M{"state": model.StateActive}
	if len(groundIDs) > 0 {
		filter["ground_id"] = bson.M{"$in": groundIDs}
	}
	return r.find(ctx, kind, filter, options.Find())
}

func (r *mongoProgramRepository) FindByGround(ctx context.Context, kind model.ProgramKind, groundID string) ([]*model.Program, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, kind, bson.M{"ground_id": groundID}, opts)
}

func (r *mongoProgramRepository) find(ctx context.Context, kind model.ProgramKind, filter bson.M, opts *options.FindOptions) ([]*model.Program, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s programs: %w", kind, err)
	}
	defer cursor.Close(ctx)

	var programs []*model.Program
	if err := cursor.All(ctx, &programs); err != nil {
		return nil, fmt.Errorf("failed to decode %s programs: %w", kind, err)
	}
	return programs, nil
}
