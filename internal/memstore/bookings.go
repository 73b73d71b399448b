package memstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	bookingserrors "turfslot/internal/bookings/errors"
	"turfslot/internal/bookings/repository"
	"turfslot/pkg/model"
)

type bookingRepository struct {
	s *Store
}

func (s *Store) Bookings() repository.BookingRepository {
	return &bookingRepository{s: s}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	booking.ID = newID()
	ts := now()
	booking.CreatedAt, booking.UpdatedAt = ts, ts
	stored := *booking
	stored.SlotIDs = slices.Clone(booking.SlotIDs)
	r.s.write(ctx, func(t *tables) { t.bookings[booking.ID] = stored })
	return nil
}

func (r *bookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	var (
		b  model.Booking
		ok bool
	)
	r.s.read(func(t *tables) { b, ok = t.bookings[id] })
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	b.SlotIDs = slices.Clone(b.SlotIDs)
	return &b, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	if !validID(booking.ID) {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, booking.ID)
	}
	booking.UpdatedAt = now()
	var found bool
	r.s.write(ctx, func(t *tables) {
		stored, ok := t.bookings[booking.ID]
		if found = ok; !ok {
			return
		}
		stored.Date = booking.Date
		stored.SlotIDs = slices.Clone(booking.SlotIDs)
		stored.Amount = booking.Amount
		stored.Status = booking.Status
		stored.UpdatedAt = booking.UpdatedAt
		t.bookings[booking.ID] = stored
	})
	if !found {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) FindHolding(_ context.Context, groundIDs []string, from, to time.Time) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool {
		return b.Status != model.StatusCancelled && inAny(b.GroundID, groundIDs) && withinDates(b.Date, from, to)
	}), nil
}

func (r *bookingRepository) FindByGround(_ context.Context, groundID string, from, to time.Time, limit int, offset int64) ([]*model.Booking, error) {
	out := r.filter(func(b *model.Booking) bool {
		return b.GroundID == groundID && withinDates(b.Date, from, to)
	})
	sortBy(out, func(a, b *model.Booking) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return page(out, limit, offset), nil
}

func (r *bookingRepository) CountByGround(_ context.Context, groundID string, from, to time.Time) (int64, error) {
	out := r.filter(func(b *model.Booking) bool {
		return b.GroundID == groundID && withinDates(b.Date, from, to)
	})
	return int64(len(out)), nil
}

func (r *bookingRepository) filter(keep func(b *model.Booking) bool) []*model.Booking {
	var out []*model.Booking
	r.s.read(func(t *tables) {
		for _, b := range t.bookings {
			if keep(&b) {
				b.SlotIDs = slices.Clone(b.SlotIDs)
				out = append(out, &b)
			}
		}
	})
	return out
}
