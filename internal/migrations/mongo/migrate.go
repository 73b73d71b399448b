package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepo "turfslot/internal/bookings/repository"
	catalogrepo "turfslot/internal/catalog/repository"
	directoryrepo "turfslot/internal/directory/repository"
	eventsrepo "turfslot/internal/events/repository"
	"turfslot/internal/migrations/mongo/validators"
	programsrepo "turfslot/internal/programs/repository"
	reservationsrepo "turfslot/internal/reservations/repository"
	"turfslot/pkg/lock"
	"turfslot/pkg/logger"
)

var (
	SlotsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "ground_id", Value: 1}, {Key: "start_time", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "ground_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "date", Value: -1}}},
	}

	ReservationSlotsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "ground_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "booking_status", Value: 1},
		}},
		{Keys: bson.D{{Key: "reservation_id", Value: 1}}},
	}

	ProgramsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "ground_id", Value: 1}}},
	}

	EventBlocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "state", Value: 1},
			{Key: "ground_ids", Value: 1},
			{Key: "start_date", Value: 1},
			{Key: "end_date", Value: 1},
		}},
	}

	// Expired lock documents are reaped by the server once expires_at passes.
	ClaimLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections maps every collection the allocation service touches to its
// schema validator and indexes.
func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		catalogrepo.GroundsCollection:               {Validator: validators.GroundValidator},
		catalogrepo.SlotsCollection:                 {Indexes: SlotsIndexes, Validator: validators.SlotValidator},
		directoryrepo.CustomersCollection:           {Validator: validators.CustomerValidator},
		directoryrepo.SportsCollection:              {Validator: validators.SportValidator},
		bookingsrepo.CollectionName:                 {Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		reservationsrepo.ReservationsCollection:     {Validator: validators.ReservationValidator},
		reservationsrepo.ReservationSlotsCollection: {Indexes: ReservationSlotsIndexes, Validator: validators.ReservationSlotValidator},
		programsrepo.AcademiesCollection:            {Indexes: ProgramsIndexes, Validator: validators.AcademyValidator},
		programsrepo.MembershipsCollection:          {Indexes: ProgramsIndexes, Validator: validators.MembershipValidator},
		eventsrepo.EventBlocksCollection:            {Indexes: EventBlocksIndexes, Validator: validators.EventBlockValidator},
		lock.ClaimLocksCollection:                   {Indexes: ClaimLocksIndexes, Validator: validators.ClaimLockValidator},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if len(def.Indexes) == 0 {
			continue
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Debug("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
