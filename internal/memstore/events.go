package memstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	eventserrors "turfslot/internal/events/errors"
	"turfslot/internal/events/repository"
	"turfslot/pkg/calendar"
	"turfslot/pkg/model"
)

type eventRepository struct {
	s *Store
}

func (s *Store) Events() repository.EventRepository {
	return &eventRepository{s: s}
}

func cloneEvent(e model.EventBlock) model.EventBlock {
	e.GroundIDs = slices.Clone(e.GroundIDs)
	e.SlotIDs = slices.Clone(e.SlotIDs)
	return e
}

func (r *eventRepository) Create(ctx context.Context, event *model.EventBlock) error {
	event.ID = newID()
	ts := now()
	event.CreatedAt, event.UpdatedAt = ts, ts
	r.s.write(ctx, func(t *tables) { t.events[event.ID] = cloneEvent(*event) })
	return nil
}

func (r *eventRepository) FindByID(_ context.Context, id string) (*model.EventBlock, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}
	var (
		e  model.EventBlock
		ok bool
	)
	r.s.read(func(t *tables) { e, ok = t.events[id] })
	if !ok {
		return nil, eventserrors.ErrNotFound
	}
	e = cloneEvent(e)
	return &e, nil
}

func (r *eventRepository) UpdateState(ctx context.Context, event *model.EventBlock) error {
	if !validID(event.ID) {
		return fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, event.ID)
	}
	event.UpdatedAt = now()
	var found bool
	r.s.write(ctx, func(t *tables) {
		stored, ok := t.events[event.ID]
		if found = ok; !ok {
			return
		}
		stored.Activation = event.Activation
		stored.UpdatedAt = event.UpdatedAt
		t.events[event.ID] = stored
	})
	if !found {
		return eventserrors.ErrNotFound
	}
	return nil
}

func (r *eventRepository) FindActive(_ context.Context, groundIDs []string, from, to time.Time) ([]*model.EventBlock, error) {
	var out []*model.EventBlock
	r.s.read(func(t *tables) {
		for _, e := range t.events {
			if !e.IsActive() || !sharesAny(e.GroundIDs, groundIDs) {
				continue
			}
			if !from.IsZero() && e.EndDate.Before(from) {
				continue
			}
			if !to.IsZero() && e.StartDate.After(calendar.EndOfDay(to)) {
				continue
			}
			c := cloneEvent(e)
			out = append(out, &c)
		}
	})
	sortBy(out, func(a, b *model.EventBlock) bool { return a.StartDate.Before(b.StartDate) })
	return out, nil
}
