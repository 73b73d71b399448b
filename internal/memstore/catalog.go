package memstore

import (
	"context"
	"fmt"

	catalogerrors "turfslot/internal/catalog/errors"
	"turfslot/internal/catalog/repository"
	"turfslot/pkg/model"
)

type catalogRepository struct {
	s *Store
}

func (s *Store) Catalog() repository.CatalogRepository {
	return &catalogRepository{s: s}
}

func (r *catalogRepository) CreateGround(ctx context.Context, ground *model.Ground) error {
	ground.ID = newID()
	ground.CreatedAt = now()
	r.s.write(ctx, func(t *tables) { t.grounds[ground.ID] = *ground })
	return nil
}

func (r *catalogRepository) FindGround(_ context.Context, id string) (*model.Ground, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}
	var (
		ground model.Ground
		ok     bool
	)
	r.s.read(func(t *tables) { ground, ok = t.grounds[id] })
	if !ok {
		return nil, catalogerrors.ErrGroundNotFound
	}
	return &ground, nil
}

func (r *catalogRepository) FindGrounds(_ context.Context, limit int, offset int64) ([]*model.Ground, error) {
	var out []*model.Ground
	r.s.read(func(t *tables) {
		for _, g := range t.grounds {
			out = append(out, &g)
		}
	})
	sortBy(out, func(a, b *model.Ground) bool { return a.Name < b.Name })
	return page(out, limit, offset), nil
}

func (r *catalogRepository) CountGrounds(context.Context) (int64, error) {
	var n int
	r.s.read(func(t *tables) { n = len(t.grounds) })
	return int64(n), nil
}

func (r *catalogRepository) UpdateGround(ctx context.Context, ground *model.Ground) error {
	if !validID(ground.ID) {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, ground.ID)
	}
	var found bool
	r.s.write(ctx, func(t *tables) {
		stored, ok := t.grounds[ground.ID]
		if found = ok; !ok {
			return
		}
		stored.Name = ground.Name
		stored.SupportsAdHocSlots = ground.SupportsAdHocSlots
		stored.SupportsAcademy = ground.SupportsAcademy
		stored.SupportsMembership = ground.SupportsMembership
		stored.Active = ground.Active
		t.grounds[ground.ID] = stored
	})
	if !found {
		return catalogerrors.ErrGroundNotFound
	}
	return nil
}

func (r *catalogRepository) CreateSlots(ctx context.Context, slots []*model.Slot) error {
	ts := now()
	r.s.write(ctx, func(t *tables) {
		for _, slot := range slots {
			slot.ID = newID()
			slot.CreatedAt, slot.UpdatedAt = ts, ts
			t.slots[slot.ID] = *slot
		}
	})
	return nil
}

func (r *catalogRepository) FindSlot(_ context.Context, id string) (*model.Slot, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}
	var (
		slot model.Slot
		ok   bool
	)
	r.s.read(func(t *tables) { slot, ok = t.slots[id] })
	if !ok {
		return nil, catalogerrors.ErrSlotNotFound
	}
	return &slot, nil
}

func (r *catalogRepository) FindSlotsByGround(_ context.Context, groundID string) ([]*model.Slot, error) {
	var out []*model.Slot
	r.s.read(func(t *tables) {
		for _, slot := range t.slots {
			if slot.GroundID == groundID {
				out = append(out, &slot)
			}
		}
	})
	sortBy(out, func(a, b *model.Slot) bool { return a.StartTime < b.StartTime })
	return out, nil
}

func (r *catalogRepository) UpdateSlot(ctx context.Context, slot *model.Slot) error {
	if !validID(slot.ID) {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, slot.ID)
	}
	slot.UpdatedAt = now()
	var found bool
	r.s.write(ctx, func(t *tables) {
		stored, ok := t.slots[slot.ID]
		if found = ok; !ok {
			return
		}
		stored.Label = slot.Label
		stored.Price = slot.Price
		stored.Active = slot.Active
		stored.UpdatedAt = slot.UpdatedAt
		t.slots[slot.ID] = stored
	})
	if !found {
		return catalogerrors.ErrSlotNotFound
	}
	return nil
}
