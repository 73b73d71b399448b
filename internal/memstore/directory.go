package memstore

import (
	"context"
	"fmt"

	directoryerrors "turfslot/internal/directory/errors"
	"turfslot/internal/directory/repository"
	"turfslot/pkg/model"
)

type directoryRepository struct {
	s *Store
}

func (s *Store) Directory() repository.DirectoryRepository {
	return &directoryRepository{s: s}
}

// PutCustomer stores c, assigning an id when it has none. Customers are
// owned by the CRM; this is the only way to add them here.
func (s *Store) PutCustomer(c *model.Customer) {
	if c.ID == "" {
		c.ID = newID()
	}
	s.write(context.Background(), func(t *tables) { t.customers[c.ID] = *c })
}

func (s *Store) PutSport(sp *model.Sport) {
	if sp.ID == "" {
		sp.ID = newID()
	}
	s.write(context.Background(), func(t *tables) { t.sports[sp.ID] = *sp })
}

func (r *directoryRepository) FindCustomer(_ context.Context, id string) (*model.Customer, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, id)
	}
	var (
		c  model.Customer
		ok bool
	)
	r.s.read(func(t *tables) { c, ok = t.customers[id] })
	if !ok {
		return nil, directoryerrors.ErrCustomerNotFound
	}
	return &c, nil
}

func (r *directoryRepository) FindSport(_ context.Context, id string) (*model.Sport, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, id)
	}
	var (
		sp model.Sport
		ok bool
	)
	r.s.read(func(t *tables) { sp, ok = t.sports[id] })
	if !ok {
		return nil, directoryerrors.ErrSportNotFound
	}
	return &sp, nil
}
