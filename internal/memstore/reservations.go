package memstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	reservationserrors "turfslot/internal/reservations/errors"
	"turfslot/internal/reservations/repository"
	"turfslot/pkg/model"
)

type reservationRepository struct {
	s *Store
}

func (s *Store) Reservations() repository.ReservationRepository {
	return &reservationRepository{s: s}
}

func (r *reservationRepository) CreateReservation(ctx context.Context, reservation *model.Reservation) error {
	reservation.ID = newID()
	ts := now()
	reservation.CreatedAt, reservation.UpdatedAt = ts, ts
	r.s.write(ctx, func(t *tables) { t.reservations[reservation.ID] = *reservation })
	return nil
}

func (r *reservationRepository) FindReservation(_ context.Context, id string) (*model.Reservation, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}
	var (
		res model.Reservation
		ok  bool
	)
	r.s.read(func(t *tables) { res, ok = t.reservations[id] })
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	return &res, nil
}

func (r *reservationRepository) DeleteReservations(ctx context.Context, ids []string) (int64, error) {
	for _, id := range ids {
		if !validID(id) {
			return 0, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
		}
	}
	var n int64
	r.s.write(ctx, func(t *tables) {
		for id, slot := range t.reservationSlots {
			if slices.Contains(ids, slot.ReservationID) {
				delete(t.reservationSlots, id)
			}
		}
		for _, id := range ids {
			if _, ok := t.reservations[id]; ok {
				delete(t.reservations, id)
				n++
			}
		}
	})
	return n, nil
}

func (r *reservationRepository) CreateSlots(ctx context.Context, slots []*model.ReservationSlot) error {
	ts := now()
	r.s.write(ctx, func(t *tables) {
		for _, slot := range slots {
			slot.ID = newID()
			slot.CreatedAt, slot.UpdatedAt = ts, ts
			stored := *slot
			stored.SlotIDs = slices.Clone(slot.SlotIDs)
			t.reservationSlots[slot.ID] = stored
		}
	})
	return nil
}

func (r *reservationRepository) FindSlot(_ context.Context, id string) (*model.ReservationSlot, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}
	var (
		slot model.ReservationSlot
		ok   bool
	)
	r.s.read(func(t *tables) { slot, ok = t.reservationSlots[id] })
	if !ok {
		return nil, reservationserrors.ErrSlotNotFound
	}
	slot.SlotIDs = slices.Clone(slot.SlotIDs)
	return &slot, nil
}

func (r *reservationRepository) FindSlotsByReservation(_ context.Context, reservationID string) ([]*model.ReservationSlot, error) {
	out := r.filter(func(s *model.ReservationSlot) bool { return s.ReservationID == reservationID })
	sortBy(out, func(a, b *model.ReservationSlot) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out, nil
}

func (r *reservationRepository) UpdateSlot(ctx context.Context, slot *model.ReservationSlot) error {
	if !validID(slot.ID) {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, slot.ID)
	}
	slot.UpdatedAt = now()
	var found bool
	r.s.write(ctx, func(t *tables) {
		stored, ok := t.reservationSlots[slot.ID]
		if found = ok; !ok {
			return
		}
		stored.Date = slot.Date
		stored.SlotIDs = slices.Clone(slot.SlotIDs)
		stored.BookingStatus = slot.BookingStatus
		stored.UpdatedAt = slot.UpdatedAt
		t.reservationSlots[slot.ID] = stored
	})
	if !found {
		return reservationserrors.ErrSlotNotFound
	}
	return nil
}

func (r *reservationRepository) FindBookedSlots(_ context.Context, groundIDs []string, from, to time.Time) ([]*model.ReservationSlot, error) {
	return r.filter(func(s *model.ReservationSlot) bool {
		return s.BookingStatus == model.StatusBooked && inAny(s.GroundID, groundIDs) && withinDates(s.Date, from, to)
	}), nil
}

func (r *reservationRepository) filter(keep func(s *model.ReservationSlot) bool) []*model.ReservationSlot {
	var out []*model.ReservationSlot
	r.s.read(func(t *tables) {
		for _, slot := range t.reservationSlots {
			if keep(&slot) {
				slot.SlotIDs = slices.Clone(slot.SlotIDs)
				out = append(out, &slot)
			}
		}
	})
	return out
}
