// Package memstore keeps every claim store in process memory. It backs
// STORE_BACKEND=memory and the service scenario tests.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	mongotx "turfslot/pkg/db/mongo"
	"turfslot/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type tables struct {
	grounds          map[string]model.Ground
	slots            map[string]model.Slot
	customers        map[string]model.Customer
	sports           map[string]model.Sport
	bookings         map[string]model.Booking
	reservations     map[string]model.Reservation
	reservationSlots map[string]model.ReservationSlot
	programs         map[model.ProgramKind]map[string]model.Program
	events           map[string]model.EventBlock
}

func newTables() *tables {
	return &tables{
		grounds:          make(map[string]model.Ground),
		slots:            make(map[string]model.Slot),
		customers:        make(map[string]model.Customer),
		sports:           make(map[string]model.Sport),
		bookings:         make(map[string]model.Booking),
		reservations:     make(map[string]model.Reservation),
		reservationSlots: make(map[string]model.ReservationSlot),
		programs: map[model.ProgramKind]map[string]model.Program{
			model.ProgramAcademy:    make(map[string]model.Program),
			model.ProgramMembership: make(map[string]model.Program),
		},
		events: make(map[string]model.EventBlock),
	}
}

// clone copies the maps. Stored values never share slices with callers, so
// copying the values is enough.
func (t *tables) clone() *tables {
	return &tables{
		grounds:          maps(t.grounds),
		slots:            maps(t.slots),
		customers:        maps(t.customers),
		sports:           maps(t.sports),
		bookings:         maps(t.bookings),
		reservations:     maps(t.reservations),
		reservationSlots: maps(t.reservationSlots),
		programs: map[model.ProgramKind]map[string]model.Program{
			model.ProgramAcademy:    maps(t.programs[model.ProgramAcademy]),
			model.ProgramMembership: maps(t.programs[model.ProgramMembership]),
		},
		events: maps(t.events),
	}
}

func maps[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store is safe for concurrent use. Transactions are serialized and roll
// back to a snapshot when the transaction function fails. Writes made
// outside a transaction wait for the running one, so a rollback only ever
// discards the transaction's own writes.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *tables
}

type txKey struct{}

func New() *Store {
	return &Store{data: newTables()}
}

func (s *Store) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// inTx reports whether ctx was handed out by a transaction on s.
func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// Name and Ping let the store stand in as a health check.
func (s *Store) Name() string {
	return "memstore"
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) read(fn func(t *tables)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(ctx context.Context, fn func(t *tables)) {
	if !s.inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func validID(id string) bool {
	_, err := mongotx.ObjectID(id)
	return err == nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func withinDates(d, from, to time.Time) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

func inAny(id string, ids []string) bool {
	return len(ids) == 0 || slices.Contains(ids, id)
}

func sharesAny(a, b []string) bool {
	if len(b) == 0 {
		return true
	}
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit int, offset int64) []T {
	if offset >= int64(len(items)) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortBy[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
