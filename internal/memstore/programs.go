package memstore

import (
	"context"
	"fmt"
	"slices"

	programserrors "turfslot/internal/programs/errors"
	"turfslot/internal/programs/repository"
	"turfslot/pkg/model"
)

type programRepository struct {
	s *Store
}

func (s *Store) Programs() repository.ProgramRepository {
	return &programRepository{s: s}
}

func cloneProgram(p model.Program) model.Program {
	p.MorningSlotIDs = slices.Clone(p.MorningSlotIDs)
	p.EveningSlotIDs = slices.Clone(p.EveningSlotIDs)
	p.ActiveDays = slices.Clone(p.ActiveDays)
	if p.DueDate != nil {
		due := *p.DueDate
		p.DueDate = &due
	}
	return p
}

func (r *programRepository) Create(ctx context.Context, program *model.Program) error {
	if !program.Kind.Valid() {
		return fmt.Errorf("%w: %s", programserrors.ErrUnknownKind, program.Kind)
	}
	program.ID = newID()
	ts := now()
	program.CreatedAt, program.UpdatedAt = ts, ts
	r.s.write(ctx, func(t *tables) { t.programs[program.Kind][program.ID] = cloneProgram(*program) })
	return nil
}

func (r *programRepository) FindByID(_ context.Context, kind model.ProgramKind, id string) (*model.Program, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", programserrors.ErrUnknownKind, kind)
	}
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", programserrors.ErrInvalidID, id)
	}
	var (
		p  model.Program
		ok bool
	)
	r.s.read(func(t *tables) { p, ok = t.programs[kind][id] })
	if !ok {
		return nil, programserrors.ErrNotFound
	}
	p = cloneProgram(p)
	return &p, nil
}

func (r *programRepository) Update(ctx context.Context, program *model.Program) error {
	if !program.Kind.Valid() {
		return fmt.Errorf("%w: %s", programserrors.ErrUnknownKind, program.Kind)
	}
	if !validID(program.ID) {
		return fmt.Errorf("%w: %s", programserrors.ErrInvalidID, program.ID)
	}
	program.UpdatedAt = now()
	var found bool
	r.s.write(ctx, func(t *tables) {
		stored, ok := t.programs[program.Kind][program.ID]
		if found = ok; !ok {
			return
		}
		next := cloneProgram(*program)
		next.GroundID, next.SportID, next.CreatedAt = stored.GroundID, stored.SportID, stored.CreatedAt
		t.programs[program.Kind][program.ID] = next
	})
	if !found {
		return programserrors.ErrNotFound
	}
	return nil
}

func (r *programRepository) FindActive(_ context.Context, kind model.ProgramKind, groundIDs []string) ([]*model.Program, error) {
	return r.filter(kind, func(p *model.Program) bool {
		return p.IsActive() && inAny(p.GroundID, groundIDs)
	})
}

func (r *programRepository) FindByGround(_ context.Context, kind model.ProgramKind, groundID string) ([]*model.Program, error) {
	out, err := r.filter(kind, func(p *model.Program) bool { return p.GroundID == groundID })
	if err != nil {
		return nil, err
	}
	sortBy(out, func(a, b *model.Program) bool { return a.CreatedAt.Before(b.CreatedAt) })
	return out, nil
}

func (r *programRepository) filter(kind model.ProgramKind, keep func(p *model.Program) bool) ([]*model.Program, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", programserrors.ErrUnknownKind, kind)
	}
	var out []*model.Program
	r.s.read(func(t *tables) {
		for _, p := range t.programs[kind] {
			if keep(&p) {
				c := cloneProgram(p)
				out = append(out, &c)
			}
		}
	})
	return out, nil
}
