package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "turfslot/internal/bookings/errors"
	"turfslot/internal/bookings/repository"
	"turfslot/internal/bookings/validator"
	catalogservice "turfslot/internal/catalog/service"
	"turfslot/internal/claims"
	"turfslot/pkg/calendar"
	"turfslot/pkg/config"
	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/lock"
	"turfslot/pkg/model"
	"turfslot/pkg/sanitizer"
	"turfslot/pkg/validation"
)

// Catalog is the slot catalog as seen by claim commands.
type Catalog interface {
	ActiveGround(ctx context.Context, id string) (*model.Ground, error)
	ResolveSlots(ctx context.Context, groundID string, ids []string) ([]*model.Slot, error)
}

type Customers interface {
	ActiveCustomer(ctx context.Context, id string) (*model.Customer, error)
}

// rivalKinds are the claims a booking may not share a slot with. Events
// are checked separately because they block the whole ground.
var rivalKinds = []claims.Kind{
	claims.KindBooking,
	claims.KindReservationSlot,
	claims.KindAcademy,
	claims.KindMembership,
}

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByGround(ctx context.Context, groundID string, from, to time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)

	// Complete moves a booked booking to completed. It reports false when
	// the booking was already terminal.
	Complete(ctx context.Context, id string) (bool, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	catalog   Catalog
	customers Customers
	coord     *claims.Coordinator
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	catalog Catalog,
	customers Customers,
	coord *claims.Coordinator,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		catalog:   catalog,
		customers: customers,
		coord:     coord,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	s.sanitize(req)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"ground_id", req.GroundID,
			"customer_id", req.CustomerID,
			"error", err,
		)
		return nil, validation.AsAppError(err, "Booking validation failed")
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	booking := &model.Booking{
		GroundID:   req.GroundID,
		CustomerID: req.CustomerID,
		Date:       date,
		SlotIDs:    req.SlotIDs,
		Status:     model.StatusBooked,
	}

	slots, err := s.admit(ctx, booking, true)
	if err != nil {
		return nil, err
	}

	err = s.coord.Commit(ctx, lock.GroundKeys(booking.GroundID), func(txCtx context.Context) error {
		if err := s.verifyAvailable(txCtx, booking); err != nil {
			return err
		}
		booking.Amount = amount(slots, booking.Date)
		return s.repo.Create(txCtx, booking)
	})
	if err != nil {
		return nil, s.commitError("create", booking, err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"ground_id", booking.GroundID,
		"date", calendar.Format(booking.Date),
		"slots", len(booking.SlotIDs),
		"amount", booking.Amount,
	)
	s.coord.Announce(ctx, claims.NewEvent(claims.EventCreated, repository.ClaimOf(booking)))
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	return s.find(ctx, id)
}

func (s *bookingService) ListByGround(ctx context.Context, groundID string, from, to time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if groundID == "" {
		return nil, 0, apperrors.InvalidInput("Ground ID cannot be empty")
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, 0, apperrors.InvalidRange("'to' must not be before 'from'")
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		count             int64
		bookings          []*model.Booking
		errCount, errFind error
		wg                sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		if count, err = s.repo.CountByGround(ctx, groundID, from, to); err != nil {
			s.cfg.Log.Error("Failed to count bookings", "ground_id", groundID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if bookings, err = s.repo.FindByGround(ctx, groundID, from, to, limit, offset); err != nil {
			s.cfg.Log.Error("Failed to list bookings", "ground_id", groundID, "error", err)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	s.sanitizeUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, validation.AsAppError(err, "Invalid update input")
	}

	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status.Terminal() {
		return nil, terminalError(existing)
	}

	if updates.Status == model.StatusCancelled {
		return s.cancel(ctx, existing)
	}

	merged := *existing
	if updates.Date != nil {
		date, err := calendar.ParseDate(*updates.Date)
		if err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		merged.Date = date
	}
	if updates.SlotIDs != nil {
		merged.SlotIDs = updates.SlotIDs
	}
	if merged.Date.Equal(existing.Date) && sameIDs(merged.SlotIDs, existing.SlotIDs) {
		return existing, nil
	}

	slots, err := s.admit(ctx, &merged, false)
	if err != nil {
		return nil, err
	}

	err = s.coord.Commit(ctx, lock.GroundKeys(merged.GroundID), func(txCtx context.Context) error {
		current, err := s.find(txCtx, id)
		if err != nil {
			return err
		}
		if current.Status.Terminal() {
			return terminalError(current)
		}
		if err := s.verifyAvailable(txCtx, &merged); err != nil {
			return err
		}
		merged.Amount = amount(slots, merged.Date)
		return s.repo.Update(txCtx, &merged)
	})
	if err != nil {
		return nil, s.commitError("update", &merged, err)
	}

	s.cfg.Log.Info("Booking updated successfully",
		"id", id,
		"date", calendar.Format(merged.Date),
		"slots", len(merged.SlotIDs),
		"amount", merged.Amount,
	)
	s.coord.Announce(ctx, claims.NewEvent(claims.EventUpdated, repository.ClaimOf(&merged)))
	return &merged, nil
}

func (s *bookingService) Complete(ctx context.Context, id string) (bool, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return false, err
	}

	var completed *model.Booking
	err = s.coord.Commit(ctx, lock.GroundKeys(existing.GroundID), func(txCtx context.Context) error {
		current, err := s.find(txCtx, id)
		if err != nil {
			return err
		}
		if current.Status.Terminal() {
			return nil
		}
		current.Status = model.StatusCompleted
		if err := s.repo.Update(txCtx, current); err != nil {
			return err
		}
		completed = current
		return nil
	})
	if err != nil {
		return false, s.commitError("complete", existing, err)
	}
	if completed == nil {
		return false, nil
	}

	s.cfg.Log.Info("Booking completed", "id", id, "ground_id", completed.GroundID)
	s.coord.Announce(ctx, claims.NewEvent(claims.EventUpdated, repository.ClaimOf(completed)))
	return true, nil
}

// cancel is terminal and skips every availability check.
func (s *bookingService) cancel(ctx context.Context, existing *model.Booking) (*model.Booking, error) {
	var cancelled *model.Booking
	err := s.coord.Commit(ctx, lock.GroundKeys(existing.GroundID), func(txCtx context.Context) error {
		current, err := s.find(txCtx, existing.ID)
		if err != nil {
			return err
		}
		if current.Status.Terminal() {
			return terminalError(current)
		}
		current.Status = model.StatusCancelled
		if err := s.repo.Update(txCtx, current); err != nil {
			return err
		}
		cancelled = current
		return nil
	})
	if err != nil {
		return nil, s.commitError("cancel", existing, err)
	}

	s.cfg.Log.Info("Booking cancelled", "id", cancelled.ID, "ground_id", cancelled.GroundID)
	s.coord.Announce(ctx, claims.NewEvent(claims.EventReleased, repository.ClaimOf(cancelled)))
	return cancelled, nil
}

// admit runs the checks that need no lock: existence, capability, horizon.
func (s *bookingService) admit(ctx context.Context, booking *model.Booking, withCustomer bool) ([]*model.Slot, error) {
	ground, err := s.catalog.ActiveGround(ctx, booking.GroundID)
	if err != nil {
		return nil, err
	}
	slots, err := s.catalog.ResolveSlots(ctx, ground.ID, booking.SlotIDs)
	if err != nil {
		return nil, err
	}
	if withCustomer {
		if _, err := s.customers.ActiveCustomer(ctx, booking.CustomerID); err != nil {
			return nil, err
		}
	}
	if err := catalogservice.RequireCapability(ground, model.CapabilityAdHocSlots); err != nil {
		return nil, err
	}
	if err := s.coord.Horizon.Check(booking.Date); err != nil {
		return nil, err
	}
	return slots, nil
}

// verifyAvailable rejects any active event on the ground that day, then any
// other claim holding one of the requested slots.
func (s *bookingService) verifyAvailable(ctx context.Context, booking *model.Booking) error {
	probe := repository.ClaimOf(booking)

	err := s.coord.Detector.Verify(ctx, probe, claims.CheckOptions{
		Kinds:       []claims.Kind{claims.KindEvent},
		WholeGround: true,
	})
	if err != nil {
		return err
	}

	var exclude []claims.Ref
	if booking.ID != "" {
		exclude = append(exclude, probe.Ref)
	}
	return s.coord.Detector.Verify(ctx, probe, claims.CheckOptions{
		Kinds:   rivalKinds,
		Exclude: exclude,
	})
}

func (s *bookingService) find(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) commitError(op string, booking *model.Booking, err error) error {
	if apperrors.IsAppError(err) && !apperrors.HasCode(err, apperrors.CodeInternal) {
		s.cfg.Log.Warn("Booking rejected",
			"operation", op,
			"id", booking.ID,
			"ground_id", booking.GroundID,
			"error", err,
		)
		return err
	}
	s.cfg.Log.Error("Failed to "+op+" booking",
		"id", booking.ID,
		"ground_id", booking.GroundID,
		"error", err,
	)
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to "+op+" booking", err)
}

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.GroundID = sanitizer.NormalizeID(req.GroundID)
	req.CustomerID = sanitizer.NormalizeID(req.CustomerID)
	req.SlotIDs = sanitizer.NormalizeIDs(req.SlotIDs)
	req.Date = sanitizer.TrimAndNormalize(req.Date)
}

func (s *bookingService) sanitizeUpdate(u *model.BookingUpdate) {
	if u.SlotIDs != nil {
		u.SlotIDs = sanitizer.NormalizeIDs(u.SlotIDs)
	}
	if u.Date != nil {
		date := sanitizer.TrimAndNormalize(*u.Date)
		u.Date = &date
	}
}

func terminalError(b *model.Booking) error {
	return apperrors.Conflict(fmt.Sprintf("booking is already %s", b.Status)).
		WithDetails(map[string]any{"id": b.ID, "status": string(b.Status)})
}

func amount(slots []*model.Slot, date time.Time) int64 {
	var total int64
	for _, slot := range slots {
		total += catalogservice.PriceFor(slot, date)
	}
	return total
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return len(claims.Intersect(a, b)) == len(a)
}
