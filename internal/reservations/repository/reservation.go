package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "turfslot/internal/reservations/errors"
	"turfslot/pkg/config"
	mongotx "turfslot/pkg/db/mongo"
	"turfslot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ReservationsCollection     = "Reservations"
	ReservationSlotsCollection = "ReservationSlots"
)

type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation *model.Reservation) error
	FindReservation(ctx context.Context, id string) (*model.Reservation, error)
	// DeleteReservations removes headers and their children, returning the
	// number of headers removed.
	DeleteReservations(ctx context.Context, ids []string) (int64, error)

	CreateSlots(ctx context.Context, slots []*model.ReservationSlot) error
	FindSlot(ctx context.Context, id string) (*model.ReservationSlot, error)
	FindSlotsByReservation(ctx context.Context, reservationID string) ([]*model.ReservationSlot, error)
	UpdateSlot(ctx context.Context, slot *model.ReservationSlot) error

	// FindBookedSlots returns children still booked on any of groundIDs (all
	// grounds when empty) dated within [from, to]. A zero bound is open.
	FindBookedSlots(ctx context.Context, groundIDs []string, from, to time.Time) ([]*model.ReservationSlot, error)
}

type mongoReservationRepository struct {
	cfg          *config.Config
	reservations *mongo.Collection
	slots        *mongo.Collection
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:          cfg,
		reservations: db.Collection(ReservationsCollection),
		slots:        db.Collection(ReservationSlotsCollection),
	}
}

func (r *mongoReservationRepository) CreateReservation(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	reservation.CreatedAt, reservation.UpdatedAt = now, now
	result, err := r.reservations.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	reservation.ID = mongotx.HexID(result.InsertedID)
	return nil
}

func (r *mongoReservationRepository) FindReservation(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	var reservation model.Reservation
	if err := r.reservations.FindOne(ctx, bson.M{"_id": oid}).Decode(&reservation); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &reservation, nil
}

func (r *mongoReservationRepository) DeleteReservations(ctx context.Context, ids []string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oids, err := mongotx.ObjectIDs(ids)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", reservationserrors.ErrInvalidID, err)
	}

	if _, err := r.slots.DeleteMany(ctx, bson.M{"reservation_id": bson.M{"$in": ids}}); err != nil {
		return 0, fmt.Errorf("failed to delete reservation slots: %w", err)
	}
	result, err := r.reservations.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reservations: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoReservationRepository) CreateSlots(ctx context.Context, slots []*model.ReservationSlot) error {
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
		return fmt.Errorf("failed to create reservation slots: %w", err)
	}
	for i, id := range result.InsertedIDs {
		slots[i].ID = mongotx.HexID(id)
	}
	return nil
}

func (r *mongoReservationRepository) FindSlot(ctx context.Context, id string) (*model.ReservationSlot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	var slot model.ReservationSlot
	if err := r.slots.FindOne(ctx, bson.M{"_id": oid}).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to find reservation slot: %w", err)
	}
	return &slot, nil
}

func (r *mongoReservationRepository) FindSlotsByReservation(ctx context.Context, reservationID string) ([]*model.ReservationSlot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
	return r.findSlots(ctx, bson.M{"reservation_id": reservationID}, opts)
}

func (r *mongoReservationRepository) UpdateSlot(ctx context.Context, slot *model.ReservationSlot) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(slot.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, slot.ID)
	}

	slot.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{"$set": bson.M{
		"date":           slot.Date,
		"slot_ids":       slot.SlotIDs,
		"booking_status": slot.BookingStatus,
		"updated_at":     slot.UpdatedAt,
	}}
	result, err := r.slots.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation slot: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationserrors.ErrSlotNotFound
	}
	return nil
}

func (r *mongoReservationRepository) FindBookedSlots(ctx context.Context, groundIDs []string, from, to time.Time) ([]*model.ReservationSlot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"booking_status": model.StatusBooked}
	if len(groundIDs) > 0 {
		filter["ground_id"] = bson.M{"$in": groundIDs}
	}
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

	return r.findSlots(ctx, filter, options.Find())
}

func (r *mongoReservationRepository) findSlots(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.ReservationSlot, error) {
	cursor, err := r.slots.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservation slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.ReservationSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode reservation slots: %w", err)
	}
	return slots, nil
}
