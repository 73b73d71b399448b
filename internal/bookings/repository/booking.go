package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "turfslot/internal/bookings/errors"
	"turfslot/pkg/config"
	mongotx "turfslot/pkg/db/mongo"
	"turfslot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error

	// FindHolding returns booked and completed bookings on any of groundIDs
	// (all grounds when empty) dated within [from, to]. A zero bound is open.
	FindHolding(ctx context.Context, groundIDs []string, from, to time.Time) ([]*model.Booking, error)

	FindByGround(ctx context.Context, groundID string, from, to time.Time, limit int, offset int64) ([]*model.Booking, error)
	CountByGround(ctx context.Context, groundID string, from, to time.Time) (int64, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt, booking.UpdatedAt = now, now
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ID = mongotx.HexID(result.InsertedID)
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectID(booking.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, booking.ID)
	}

	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"date":       booking.Date,
			"slot_ids":   booking.SlotIDs,
			"amount":     booking.Amount,
			"status":     booking.Status,
			"updated_at": booking.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) FindHolding(ctx context.Context, groundIDs []string, from, to time.Time) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := dateFilter(from, to)
	filter["status"] = bson.M{"$in": []model.BookingStatus{model.StatusBooked, model.StatusCompleted}}
	if len(groundIDs) > 0 {
		filter["ground_id"] = bson.M{"$in": groundIDs}
	}

	return r.find(ctx, filter, options.Find())
}

func (r *mongoBookingRepository) FindByGround(
	ctx context.Context,
	groundID string,
	from, to time.Time,
	limit int, offset int64,
) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := dateFilter(from, to)
	filter["ground_id"] = groundID

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})

	return r.find(ctx, filter, opts)
}

func (r *mongoBookingRepository) CountByGround(ctx context.Context, groundID string, from, to time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := dateFilter(from, to)
	filter["ground_id"] = groundID

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings by ground: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func dateFilter(from, to time.Time) bson.M {
	filter := bson.M{}
	dates := bson.M{}
	if !from.IsZero() {
		dates["$gte"] = from
	}
	if !to.IsZero() {
		dates["$lte"] = to
	}
	if len(dates) > 0 {
		filter["date"] = dates
	}
	return filter
}
