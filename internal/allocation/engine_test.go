package allocation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"turfslot/internal/claims"
	"turfslot/internal/memstore"
	programrepository "turfslot/internal/programs/repository"
	"turfslot/internal/settlement"
	"turfslot/pkg/config"
	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/kafka"
	"turfslot/pkg/lock"
	"turfslot/pkg/logger"
	"turfslot/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const venueID = "65a000000000000000000001"

type fixture struct {
	t         *testing.T
	ctx       context.Context
	cfg       *config.Config
	horizon   claims.Horizon
	store     *memstore.Store
	engine    *Engine
	published *claims.RecordingPublisher
	now       time.Time
	ground    *model.Ground
	slots     []*model.Slot
	customer  *model.Customer
}

func newFixture(t *testing.T, tweak ...func(*config.Config)) *fixture {
	t.Helper()
	cfg := &config.Config{
		Log:                  logger.Discard(),
		BookingHorizonDays:   30,
		DefaultSlotPrice:     800,
		ProgramOverlapScope:  config.ProgramScopeGlobal,
		EventDuplicatePolicy: config.EventPolicyExact,
	}
	for _, fn := range tweak {
		fn(cfg)
	}

	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		cfg:       cfg,
		store:     memstore.New(),
		published: &claims.RecordingPublisher{},
		// Saturday.
		now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.horizon = claims.Horizon{Location: time.UTC, Days: cfg.BookingHorizonDays, Now: func() time.Time { return f.now }}
	f.rebuild(MemoryStores(f.store))

	f.ground, f.slots = f.newGround(true, true, true)
	f.customer = &model.Customer{Name: "Asha", Phone: "+919876543210", Active: true}
	f.store.PutCustomer(f.customer)
	return f
}

func (f *fixture) rebuild(stores Stores) {
	f.engine = New(f.cfg, stores, lock.NewMemoryLocker(2*time.Second), f.published, f.horizon)
}

// hookedPrograms runs a one-shot hook after the next read, letting a test
// slip another command in between a service's read and its commit.
type hookedPrograms struct {
	programrepository.ProgramRepository
	afterFind func()
	afterList func()
}

func (p *hookedPrograms) FindByID(ctx context.Context, kind model.ProgramKind, id string) (*model.Program, error) {
	program, err := p.ProgramRepository.FindByID(ctx, kind, id)
	if hook := p.afterFind; hook != nil {
		p.afterFind = nil
		hook()
	}
	return program, err
}

func (p *hookedPrograms) FindByGround(ctx context.Context, kind model.ProgramKind, groundID string) ([]*model.Program, error) {
	programs, err := p.ProgramRepository.FindByGround(ctx, kind, groundID)
	if hook := p.afterList; hook != nil {
		p.afterList = nil
		hook()
	}
	return programs, err
}

func (f *fixture) hookPrograms() *hookedPrograms {
	stores := MemoryStores(f.store)
	hooked := &hookedPrograms{ProgramRepository: stores.Programs}
	stores.Programs = hooked
	f.rebuild(stores)
	return hooked
}

func (f *fixture) newGround(adHoc, academy, membership bool) (*model.Ground, []*model.Slot) {
	f.t.Helper()
	ground := &model.Ground{
		Name:               "Ground",
		VenueID:            venueID,
		SupportsAdHocSlots: adHoc,
		SupportsAcademy:    academy,
		SupportsMembership: membership,
	}
	slots, err := f.engine.Catalog.CreateGround(f.ctx, ground)
	require.NoError(f.t, err)
	require.Len(f.t, slots, 16)
	return ground, slots
}

func (f *fixture) slotIDs(idx ...int) []string {
	ids := make([]string, 0, len(idx))
	for _, i := range idx {
		ids = append(ids, f.slots[i].ID)
	}
	return ids
}

func (f *fixture) book(date string, idx ...int) (*model.Booking, error) {
	return f.engine.Bookings.Create(f.ctx, &model.BookingRequest{
		GroundID:   f.ground.ID,
		CustomerID: f.customer.ID,
		Date:       date,
		SlotIDs:    f.slotIDs(idx...),
	})
}

func (f *fixture) reserve(entries ...model.ReservationEntry) (*model.ReservationDetail, error) {
	return f.engine.Reservations.Create(f.ctx, &model.ReservationRequest{
		GroundID:    f.ground.ID,
		Entries:     entries,
		Customer:    model.ReservationCustomer{Name: "Ravi", Phone: "98765 43210"},
		TotalAmount: 1600,
		Payment:     model.Payment{Method: "upi", PaidAmount: 800},
	})
}

func (f *fixture) entry(date string, idx ...int) model.ReservationEntry {
	return model.ReservationEntry{Date: date, SlotIDs: f.slotIDs(idx...)}
}

func (f *fixture) program(kind model.ProgramKind, days []string, idx ...int) (*model.Program, error) {
	return f.engine.Programs.Register(f.ctx, kind, &model.ProgramRequest{
		GroundID:       f.ground.ID,
		Name:           "Morning batch",
		MorningSlotIDs: f.slotIDs(idx...),
		ActiveDays:     days,
	})
}

func (f *fixture) event(start, end string, idx ...int) (*model.EventBlock, error) {
	return f.engine.Events.Create(f.ctx, &model.EventRequest{
		Name:      "Summer cup",
		GroundIDs: []string{f.ground.ID},
		SlotIDs:   f.slotIDs(idx...),
		StartDate: start,
		EndDate:   end,
	})
}

// held returns the catalog indexes that are unavailable on date.
func (f *fixture) held(date string) []int {
	f.t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(f.t, err)
	view, err := f.engine.Availability.GetAvailability(f.ctx, f.ground.ID, d)
	require.NoError(f.t, err)
	require.Len(f.t, view, len(f.slots))

	var out []int
	for i, s := range view {
		require.Equal(f.t, f.slots[i].ID, s.SlotID)
		if !s.Available {
			out = append(out, i)
		}
	}
	return out
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.HasCode(err, code), "want %s, got %v", code, err)
}

func TestAvailability_FoldsEveryClaimKind(t *testing.T) {
	f := newFixture(t)

	_, err := f.book("2024-06-03", 0)
	require.NoError(t, err)
	_, err = f.reserve(f.entry("2024-06-03", 1))
	require.NoError(t, err)
	_, err = f.program(model.ProgramAcademy, []string{"mon"}, 2)
	require.NoError(t, err)
	_, err = f.program(model.ProgramMembership, nil, 3)
	require.NoError(t, err)
	_, err = f.event("2024-06-02", "2024-06-04", 4)
	require.NoError(t, err)

	// Monday: every kind holds its slot.
	assert.Equal(t, []int{0, 1, 2, 3, 4}, f.held("2024-06-03"))
	// Tuesday: event and membership only.
	assert.Equal(t, []int{3, 4}, f.held("2024-06-04"))
	// Wednesday: membership only.
	assert.Equal(t, []int{3}, f.held("2024-06-05"))
	// Next Monday: academy and membership.
	assert.Equal(t, []int{2, 3}, f.held("2024-06-10"))

	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	first, err := f.engine.Availability.GetAvailability(f.ctx, f.ground.ID, monday)
	require.NoError(t, err)
	second, err := f.engine.Availability.GetAvailability(f.ctx, f.ground.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAvailability_InactiveCatalogEntryIsUnavailable(t *testing.T) {
	f := newFixture(t)
	inactive := false
	_, err := f.engine.Catalog.UpdateSlot(f.ctx, f.slots[5].ID, &model.SlotUpdate{Active: &inactive})
	require.NoError(t, err)

	assert.Equal(t, []int{5}, f.held("2024-06-03"))

	_, err = f.book("2024-06-03", 5)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestAvailability_PriceToday(t *testing.T) {
	f := newFixture(t)
	price := model.WeekPrice{100, 200, 300, 400, 500, 600, 700}
	_, err := f.engine.Catalog.UpdateSlot(f.ctx, f.slots[0].ID, &model.SlotUpdate{Price: &price})
	require.NoError(t, err)

	view, err := f.engine.Availability.GetAvailability(f.ctx, f.ground.ID, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(200), view[0].PriceToday)
	assert.Equal(t, "06:00 - 07:00", view[0].Label)

	booking, err := f.book("2024-06-03", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(200+800), booking.Amount)
}

func TestAvailability_InactiveGround(t *testing.T) {
	f := newFixture(t)
	inactive := false
	require.NoError(t, f.engine.Catalog.UpdateGround(f.ctx, f.ground.ID, &model.GroundUpdate{Active: &inactive}))

	_, err := f.engine.Availability.GetAvailability(f.ctx, f.ground.ID, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestBooking_SameSlotSameDateConflicts(t *testing.T) {
	f := newFixture(t)
	first, err := f.book("2024-06-03", 0)
	require.NoError(t, err)

	_, err = f.book("2024-06-03", 0, 5)
	requireCode(t, err, apperrors.CodeConflict)
	details := apperrors.AsAppError(err).Details
	assert.Equal(t, string(claims.KindBooking), details["claim_kind"])
	assert.Equal(t, first.ID, details["claim_id"])
	assert.Equal(t, []string{f.slots[0].ID}, details["slot_ids"])

	_, err = f.book("2024-06-04", 0)
	assert.NoError(t, err)
}

func TestBooking_EventBlocksWholeGround(t *testing.T) {
	f := newFixture(t)
	_, err := f.event("2024-06-01", "2024-06-03", 1)
	require.NoError(t, err)

	_, err = f.book("2024-06-02", 7)
	requireCode(t, err, apperrors.CodeConflict)
	assert.Equal(t, string(claims.KindEvent), apperrors.AsAppError(err).Details["claim_kind"])

	_, err = f.book("2024-06-04", 1)
	assert.NoError(t, err)
}

func TestBooking_Horizon(t *testing.T) {
	f := newFixture(t)

	_, err := f.book("2024-05-31", 0)
	requireCode(t, err, apperrors.CodeInvalidRange)
	_, err = f.book("2024-07-02", 0)
	requireCode(t, err, apperrors.CodeInvalidRange)

	_, err = f.book("2024-06-01", 0)
	assert.NoError(t, err)
	_, err = f.book("2024-07-01", 0)
	assert.NoError(t, err)
}

func TestBooking_RequiresCapabilityAndCustomer(t *testing.T) {
	f := newFixture(t)
	f.ground, f.slots = f.newGround(false, true, true)

	_, err := f.book("2024-06-03", 0)
	requireCode(t, err, apperrors.CodeCapabilityDisabled)

	f.ground, f.slots = f.newGround(true, true, true)
	f.store.PutCustomer(&model.Customer{ID: "65a0000000000000000000ff", Name: "Gone", Active: false})
	_, err = f.engine.Bookings.Create(f.ctx, &model.BookingRequest{
		GroundID:   f.ground.ID,
		CustomerID: "65a0000000000000000000ff",
		Date:       "2024-06-03",
		SlotIDs:    f.slotIDs(0),
	})
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestBooking_SlotFromAnotherGround(t *testing.T) {
	f := newFixture(t)
	_, otherSlots := f.newGround(true, true, true)

	_, err := f.engine.Bookings.Create(f.ctx, &model.BookingRequest{
		GroundID:   f.ground.ID,
		CustomerID: f.customer.ID,
		Date:       "2024-06-03",
		SlotIDs:    []string{otherSlots[0].ID},
	})
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestBooking_UpdateExcludesItselfAndCancelReleases(t *testing.T) {
	f := newFixture(t)
	booking, err := f.book("2024-06-03", 0)
	require.NoError(t, err)

	updated, err := f.engine.Bookings.Update(f.ctx, booking.ID, &model.BookingUpdate{SlotIDs: f.slotIDs(0, 1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1600), updated.Amount)
	assert.Equal(t, []int{0, 1}, f.held("2024-06-03"))

	cancelled, err := f.engine.Bookings.Update(f.ctx, booking.ID, &model.BookingUpdate{Status: model.StatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Empty(t, f.held("2024-06-03"))

	_, err = f.engine.Bookings.Update(f.ctx, booking.ID, &model.BookingUpdate{SlotIDs: f.slotIDs(2)})
	requireCode(t, err, apperrors.CodeConflict)

	events := f.published.Events()
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, claims.EventReleased, last.Type)
	assert.Equal(t, booking.ID, last.ID)
	assert.Equal(t, "2024-06-03", last.Date)
}

func TestBooking_CompleteIsIdempotentAndKeepsHolding(t *testing.T) {
	f := newFixture(t)
	booking, err := f.book("2024-06-03", 0)
	require.NoError(t, err)

	changed, err := f.engine.Bookings.Complete(f.ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.engine.Bookings.Complete(f.ctx, booking.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, []int{0}, f.held("2024-06-03"))
	_, err = f.book("2024-06-03", 0)
	requireCode(t, err, apperrors.CodeConflict)
}

func TestBooking_ConcurrentCreatesAdmitOne(t *testing.T) {
	f := newFixture(t)

	var (
		wg      sync.WaitGroup
		success atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.book("2024-06-03", 0); err == nil {
				success.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), success.Load())
	assert.Equal(t, []int{0}, f.held("2024-06-03"))
}

func TestReservation_BatchEntriesCheckedPairwise(t *testing.T) {
	f := newFixture(t)

	_, err := f.reserve(f.entry("2024-06-03", 0, 1), f.entry("2024-06-03", 1, 2))
	requireCode(t, err, apperrors.CodeConflict)
	assert.Equal(t, []int{0, 1}, apperrors.AsAppError(err).Details["entries"])
	assert.Empty(t, f.held("2024-06-03"))

	detail, err := f.reserve(f.entry("2024-06-03", 0, 1), f.entry("2024-06-04", 1, 2))
	require.NoError(t, err)
	require.Len(t, detail.Slots, 2)
	assert.Equal(t, "+919876543210", detail.Customer.Phone)
	assert.Equal(t, []int{0, 1}, f.held("2024-06-03"))
	assert.Equal(t, []int{1, 2}, f.held("2024-06-04"))
}

func TestReservation_ConflictsWithStandingClaims(t *testing.T) {
	f := newFixture(t)
	_, err := f.program(model.ProgramMembership, nil, 3)
	require.NoError(t, err)

	_, err = f.reserve(f.entry("2024-06-05", 4), f.entry("2024-06-06", 3))
	requireCode(t, err, apperrors.CodeConflict)
	assert.Equal(t, string(claims.KindMembership), apperrors.AsAppError(err).Details["claim_kind"])
	assert.Equal(t, []int{3}, f.held("2024-06-05"))
}

func TestReservation_SlotLifecycle(t *testing.T) {
	f := newFixture(t)
	detail, err := f.reserve(f.entry("2024-06-03", 0))
	require.NoError(t, err)

	added, err := f.engine.Reservations.AddSlot(f.ctx, detail.ID, &model.ReservationEntry{Date: "2024-06-04", SlotIDs: f.slotIDs(0)})
	require.NoError(t, err)

	date := "2024-06-05"
	edited, err := f.engine.Reservations.EditSlot(f.ctx, added.ID, &model.ReservationSlotUpdate{Date: &date})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-05", edited.Date.Format("2006-01-02"))
	assert.Empty(t, f.held("2024-06-04"))
	assert.Equal(t, []int{0}, f.held("2024-06-05"))

	_, err = f.engine.Reservations.CancelSlot(f.ctx, added.ID)
	require.NoError(t, err)
	assert.Empty(t, f.held("2024-06-05"))

	changed, err := f.engine.Reservations.CompleteSlot(f.ctx, detail.Slots[0].ID)
	require.NoError(t, err)
	assert.True(t, changed)
	// Completed reservation slots no longer hold capacity.
	assert.Empty(t, f.held("2024-06-03"))

	_, err = f.engine.Reservations.CancelSlot(f.ctx, added.ID)
	requireCode(t, err, apperrors.CodeConflict)
}

func TestReservation_CancelAndRemove(t *testing.T) {
	f := newFixture(t)
	first, err := f.reserve(f.entry("2024-06-03", 0), f.entry("2024-06-04", 0))
	require.NoError(t, err)
	second, err := f.reserve(f.entry("2024-06-03", 1))
	require.NoError(t, err)

	cancelled, err := f.engine.Reservations.CancelReservation(f.ctx, first.ID)
	require.NoError(t, err)
	for _, s := range cancelled.Slots {
		assert.Equal(t, model.StatusCancelled, s.BookingStatus)
	}
	assert.Equal(t, []int{1}, f.held("2024-06-03"))

	n, err := f.engine.Reservations.Remove(f.ctx, []string{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Empty(t, f.held("2024-06-03"))

	_, err = f.engine.Reservations.GetByID(f.ctx, second.ID)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestPrograms_GlobalScopeComparesSlotIDsOnly(t *testing.T) {
	f := newFixture(t)
	_, err := f.program(model.ProgramAcademy, []string{"mon"}, 2)
	require.NoError(t, err)

	_, err = f.program(model.ProgramAcademy, []string{"tue"}, 2)
	requireCode(t, err, apperrors.CodeConflict)
	_, err = f.program(model.ProgramMembership, nil, 2)
	requireCode(t, err, apperrors.CodeConflict)
}

func TestPrograms_GroundScopeRespectsWeekdays(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.ProgramOverlapScope = config.ProgramScopeGround })
	_, err := f.program(model.ProgramAcademy, []string{"mon"}, 2)
	require.NoError(t, err)

	_, err = f.program(model.ProgramAcademy, []string{"tue"}, 2)
	assert.NoError(t, err)
	_, err = f.program(model.ProgramAcademy, []string{"Monday", "wed"}, 2)
	requireCode(t, err, apperrors.CodeConflict)
	_, err = f.program(model.ProgramMembership, nil, 2)
	requireCode(t, err, apperrors.CodeConflict)
}

func TestPrograms_RejectUpcomingDatedClaims(t *testing.T) {
	f := newFixture(t)
	_, err := f.book("2024-06-03", 6)
	require.NoError(t, err)

	_, err = f.program(model.ProgramAcademy, []string{"mon"}, 6)
	requireCode(t, err, apperrors.CodeConflict)
	assert.Equal(t, string(claims.KindBooking), apperrors.AsAppError(err).Details["claim_kind"])

	_, err = f.program(model.ProgramAcademy, []string{"tue"}, 6)
	assert.NoError(t, err)
}

func TestPrograms_ShapeAndCapability(t *testing.T) {
	f := newFixture(t)

	_, err := f.program(model.ProgramAcademy, nil, 2)
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.program(model.ProgramMembership, []string{"mon"}, 2)
	requireCode(t, err, apperrors.CodeValidation)

	f.ground, f.slots = f.newGround(true, false, true)
	_, err = f.program(model.ProgramAcademy, []string{"mon"}, 2)
	requireCode(t, err, apperrors.CodeCapabilityDisabled)
}

func TestPrograms_UpdateExcludesItselfAndDeactivateReleases(t *testing.T) {
	f := newFixture(t)
	academy, err := f.program(model.ProgramAcademy, []string{"mon"}, 2)
	require.NoError(t, err)

	updated, err := f.engine.Programs.Update(f.ctx, model.ProgramAcademy, academy.ID, &model.ProgramUpdate{
		MorningSlotIDs: f.slotIDs(2, 3),
		ActiveDays:     []string{"mon", "tue"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mon", "tue"}, updated.ActiveDays)
	assert.Equal(t, []int{2, 3}, f.held("2024-06-04"))

	deactivated, err := f.engine.Programs.Deactivate(f.ctx, model.ProgramAcademy, academy.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateInactive, deactivated.State)
	assert.Empty(t, f.held("2024-06-04"))

	_, err = f.program(model.ProgramMembership, nil, 2)
	require.NoError(t, err)
	_, err = f.engine.Programs.Activate(f.ctx, model.ProgramAcademy, academy.ID)
	requireCode(t, err, apperrors.CodeConflict)
}

func TestPrograms_UpdateKeepsConcurrentStateChange(t *testing.T) {
	f := newFixture(t)
	academy, err := f.program(model.ProgramAcademy, []string{"mon"}, 2)
	require.NoError(t, err)

	hooked := f.hookPrograms()
	hooked.afterFind = func() {
		_, err := f.engine.Programs.Deactivate(f.ctx, model.ProgramAcademy, academy.ID)
		require.NoError(t, err)
	}
	name := "Renamed batch"
	updated, err := f.engine.Programs.Update(f.ctx, model.ProgramAcademy, academy.ID, &model.ProgramUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, model.StateInactive, updated.State)

	stored, err := f.engine.Programs.GetByID(f.ctx, model.ProgramAcademy, academy.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateInactive, stored.State)
	assert.Equal(t, name, stored.Name)
	assert.Empty(t, f.held("2024-06-03"))

	hooked.afterFind = func() {
		_, err := f.engine.Programs.Activate(f.ctx, model.ProgramAcademy, academy.ID)
		require.NoError(t, err)
	}
	name = "Juniors"
	updated, err = f.engine.Programs.Update(f.ctx, model.ProgramAcademy, academy.ID, &model.ProgramUpdate{Name: &name})
	require.NoError(t, err)
	assert.True(t, updated.IsActive())
	assert.Equal(t, []int{2}, f.held("2024-06-03"))
}

func TestPrograms_ListSweepRechecksDueDate(t *testing.T) {
	f := newFixture(t)
	due := "2024-06-10"
	membership, err := f.engine.Programs.Register(f.ctx, model.ProgramMembership, &model.ProgramRequest{
		GroundID:       f.ground.ID,
		Name:           "Evening members",
		EveningSlotIDs: f.slotIDs(12),
		DueDate:        &due,
	})
	require.NoError(t, err)

	f.now = time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC)
	hooked := f.hookPrograms()
	extended := "2024-06-30"
	hooked.afterList = func() {
		_, err := f.engine.Programs.Update(f.ctx, model.ProgramMembership, membership.ID, &model.ProgramUpdate{DueDate: &extended})
		require.NoError(t, err)
	}

	listed, err := f.engine.Programs.List(f.ctx, model.ProgramMembership, f.ground.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsActive())
	require.NotNil(t, listed[0].DueDate)
	assert.Equal(t, "2024-06-30", listed[0].DueDate.Format("2006-01-02"))
	assert.Equal(t, []int{12}, f.held("2024-06-12"))
}

func TestPrograms_ListSweepsOverdue(t *testing.T) {
	f := newFixture(t)
	due := "2024-06-10"
	membership, err := f.engine.Programs.Register(f.ctx, model.ProgramMembership, &model.ProgramRequest{
		GroundID:       f.ground.ID,
		Name:           "Evening members",
		EveningSlotIDs: f.slotIDs(12),
		DueDate:        &due,
	})
	require.NoError(t, err)

	listed, err := f.engine.Programs.List(f.ctx, model.ProgramMembership, f.ground.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsActive())

	f.now = time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, []int{12}, f.held("2024-06-12"))

	listed, err = f.engine.Programs.List(f.ctx, model.ProgramMembership, f.ground.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].IsActive())
	assert.Empty(t, f.held("2024-06-12"))

	_, err = f.engine.Programs.Activate(f.ctx, model.ProgramMembership, membership.ID)
	requireCode(t, err, apperrors.CodeInvalidRange)

	past := "2024-06-01"
	_, err = f.engine.Programs.Update(f.ctx, model.ProgramMembership, membership.ID, &model.ProgramUpdate{DueDate: &past})
	requireCode(t, err, apperrors.CodeInvalidRange)
}

func TestEvents_ExactDuplicatePolicy(t *testing.T) {
	f := newFixture(t)
	_, err := f.event("2024-06-10", "2024-06-12", 8)
	require.NoError(t, err)

	_, err = f.event("2024-06-10", "2024-06-12", 9)
	requireCode(t, err, apperrors.CodeConflict)

	_, err = f.event("2024-06-11", "2024-06-13", 8)
	assert.NoError(t, err)
}

func TestEvents_OverlapPolicy(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.EventDuplicatePolicy = config.EventPolicyOverlap })
	_, err := f.event("2024-06-10", "2024-06-12", 8)
	require.NoError(t, err)

	_, err = f.event("2024-06-12", "2024-06-14", 8)
	requireCode(t, err, apperrors.CodeConflict)
	_, err = f.event("2024-06-12", "2024-06-14", 9)
	assert.NoError(t, err)
	_, err = f.event("2024-06-13", "2024-06-14", 8)
	assert.NoError(t, err)
}

func TestEvents_RangeAndDeactivate(t *testing.T) {
	f := newFixture(t)

	_, err := f.event("2024-06-03", "2024-06-01", 8)
	requireCode(t, err, apperrors.CodeInvalidRange)

	event, err := f.event("2024-06-01", "2024-06-03", 8)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 23, 59, 59, int(999*time.Millisecond), time.UTC), event.EndDate)
	assert.Empty(t, f.held("2024-05-31"))
	assert.Equal(t, []int{8}, f.held("2024-06-01"))
	assert.Equal(t, []int{8}, f.held("2024-06-03"))
	assert.Empty(t, f.held("2024-06-04"))

	_, err = f.engine.Events.Deactivate(f.ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, f.held("2024-06-02"))
	_, err = f.book("2024-06-02", 8)
	assert.NoError(t, err)
}

func TestSettlement_CompletesBookingsAndSlots(t *testing.T) {
	f := newFixture(t)
	booking, err := f.book("2024-06-03", 0)
	require.NoError(t, err)
	detail, err := f.reserve(f.entry("2024-06-04", 1))
	require.NoError(t, err)

	h := f.engine.Settlement()
	for _, n := range []settlement.Notice{
		{ClaimKind: claims.KindBooking, ClaimID: booking.ID},
		{ClaimKind: claims.KindReservationSlot, ClaimID: detail.Slots[0].ID},
		{ClaimKind: claims.KindBooking, ClaimID: booking.ID},
	} {
		msg, err := kafka.NewMessage().WithKey(n.ClaimID).WithJSON(n).Build()
		require.NoError(t, err)
		require.NoError(t, h.Handle(f.ctx, msg))
	}

	got, err := f.engine.Bookings.GetByID(f.ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	reservation, err := f.engine.Reservations.GetByID(f.ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, reservation.Slots[0].BookingStatus)
}
