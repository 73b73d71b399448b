package service

import (
	"context"
	"errors"
	"fmt"

	catalogservice "turfslot/internal/catalog/service"
	"turfslot/internal/claims"
	reservationserrors "turfslot/internal/reservations/errors"
	"turfslot/internal/reservations/repository"
	"turfslot/internal/reservations/validator"
	"turfslot/pkg/calendar"
	"turfslot/pkg/config"
	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/locale"
	"turfslot/pkg/lock"
	"turfslot/pkg/model"
	"turfslot/pkg/sanitizer"
	"turfslot/pkg/validation"
)

type Catalog interface {
	ActiveGround(ctx context.Context, id string) (*model.Ground, error)
	ResolveSlots(ctx context.Context, groundID string, ids []string) ([]*model.Slot, error)
}

type ReservationService interface {
	Create(ctx context.Context, req *model.ReservationRequest) (*model.ReservationDetail, error)
	GetByID(ctx context.Context, id string) (*model.ReservationDetail, error)

	AddSlot(ctx context.Context, reservationID string, entry *model.ReservationEntry) (*model.ReservationSlot, error)
	EditSlot(ctx context.Context, slotID string, updates *model.ReservationSlotUpdate) (*model.ReservationSlot, error)
	CancelSlot(ctx context.Context, slotID string) (*model.ReservationSlot, error)
	// CompleteSlot moves a booked child to completed. It reports false when
	// the child was already terminal.
	CompleteSlot(ctx context.Context, slotID string) (bool, error)

	CancelReservation(ctx context.Context, id string) (*model.ReservationDetail, error)
	// Remove hard-deletes reservations and their children regardless of
	// status.
	Remove(ctx context.Context, ids []string) (int64, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	catalog   Catalog
	coord     *claims.Coordinator
	validator *validator.ReservationValidator
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	catalog Catalog,
	coord *claims.Coordinator,
	validator *validator.ReservationValidator,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		catalog:   catalog,
		coord:     coord,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, req *model.ReservationRequest) (*model.ReservationDetail, error) {
	s.sanitize(req)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed",
			"ground_id", req.GroundID,
			"entries", len(req.Entries),
			"error", err,
		)
		return nil, validation.AsAppError(err, "Reservation validation failed")
	}

	children := make([]*model.ReservationSlot, 0, len(req.Entries))
	for i := range req.Entries {
		child, err := s.newChild(req.GroundID, &req.Entries[i])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if err := s.admit(ctx, req.GroundID, children...); err != nil {
		return nil, err
	}

	probes := make([]claims.Claim, 0, len(children))
	for _, child := range children {
		probes = append(probes, repository.ClaimOf(child))
	}
	if err := claims.CheckBatch(probes); err != nil {
		s.cfg.Log.Warn("Reservation entries collide with each other", "ground_id", req.GroundID, "error", err)
		return nil, err
	}

	reservation := &model.Reservation{
		GroundID:    req.GroundID,
		Customer:    req.Customer,
		TotalAmount: req.TotalAmount,
		Payment:     req.Payment,
	}

	err := s.coord.Commit(ctx, lock.GroundKeys(req.GroundID), func(txCtx context.Context) error {
		for _, child := range children {
			if err := s.verifyAvailable(txCtx, child); err != nil {
				return err
			}
		}
		if err := s.repo.CreateReservation(txCtx, reservation); err != nil {
			return err
		}
		for _, child := range children {
			child.ReservationID = reservation.ID
		}
		return s.repo.CreateSlots(txCtx, children)
	})
	if err != nil {
		return nil, s.commitError("create", req.GroundID, err)
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"ground_id", reservation.GroundID,
		"entries", len(children),
		"total_amount", reservation.TotalAmount,
	)
	s.announce(ctx, claims.EventCreated, children...)
	return &model.ReservationDetail{Reservation: *reservation, Slots: children}, nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.ReservationDetail, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	return s.detail(ctx, id)
}

func (s *reservationService) AddSlot(ctx context.Context, reservationID string, entry *model.ReservationEntry) (*model.ReservationSlot, error) {
	s.sanitizeEntry(entry)
	if err := s.validator.ValidateEntry(entry); err != nil {
		s.cfg.Log.Warn("Reservation entry validation failed", "reservation_id", reservationID, "error", err)
		return nil, validation.AsAppError(err, "Reservation entry validation failed")
	}

	reservation, err := s.findReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	child, err := s.newChild(reservation.GroundID, entry)
	if err != nil {
		return nil, err
	}
	child.ReservationID = reservation.ID
	if err := s.admit(ctx, reservation.GroundID, child); err != nil {
		return nil, err
	}

	err = s.coord.Commit(ctx, lock.GroundKeys(reservation.GroundID), func(txCtx context.Context) error {
		if err := s.verifyAvailable(txCtx, child); err != nil {
			return err
		}
		return s.repo.CreateSlots(txCtx, []*model.ReservationSlot{child})
	})
	if err != nil {
		return nil, s.commitError("add slot to", reservation.GroundID, err)
	}

	s.cfg.Log.Info("Reservation slot added",
		"reservation_id", reservation.ID,
		"slot_id", child.ID,
		"date", calendar.Format(child.Date),
	)
	s.announce(ctx, claims.EventCreated, child)
	return child, nil
}

func (s *reservationService) EditSlot(ctx context.Context, slotID string, updates *model.ReservationSlotUpdate) (*model.ReservationSlot, error) {
	s.sanitizeSlotUpdate(updates)
	if err := s.validator.ValidateSlotUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation slot update validation failed", "slot_id", slotID, "error", err)
		return nil, validation.AsAppError(err, "Invalid update input")
	}

	existing, err := s.findSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if existing.BookingStatus.Terminal() {
		return nil, terminalError(existing)
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
	if err := s.admit(ctx, merged.GroundID, &merged); err != nil {
		return nil, err
	}

	err = s.coord.Commit(ctx, lock.GroundKeys(merged.GroundID), func(txCtx context.Context) error {
		current, err := s.findSlot(txCtx, slotID)
		if err != nil {
			return err
		}
		if current.BookingStatus.Terminal() {
			return terminalError(current)
		}
		if err := s.verifyAvailable(txCtx, &merged); err != nil {
			return err
		}
		return s.repo.UpdateSlot(txCtx, &merged)
	})
	if err != nil {
		return nil, s.commitError("edit slot of", merged.GroundID, err)
	}

	s.cfg.Log.Info("Reservation slot updated",
		"reservation_id", merged.ReservationID,
		"slot_id", merged.ID,
		"date", calendar.Format(merged.Date),
	)
	s.announce(ctx, claims.EventUpdated, &merged)
	return &merged, nil
}

func (s *reservationService) CancelSlot(ctx context.Context, slotID string) (*model.ReservationSlot, error) {
	existing, err := s.findSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	var cancelled *model.ReservationSlot
	err = s.coord.Commit(ctx, lock.GroundKeys(existing.GroundID), func(txCtx context.Context) error {
		current, err := s.findSlot(txCtx, slotID)
		if err != nil {
			return err
		}
		if current.BookingStatus.Terminal() {
			return terminalError(current)
		}
		current.BookingStatus = model.StatusCancelled
		if err := s.repo.UpdateSlot(txCtx, current); err != nil {
			return err
		}
		cancelled = current
		return nil
	})
	if err != nil {
		return nil, s.commitError("cancel slot of", existing.GroundID, err)
	}

	s.cfg.Log.Info("Reservation slot cancelled", "reservation_id", cancelled.ReservationID, "slot_id", cancelled.ID)
	s.announce(ctx, claims.EventReleased, cancelled)
	return cancelled, nil
}

func (s *reservationService) CompleteSlot(ctx context.Context, slotID string) (bool, error) {
	existing, err := s.findSlot(ctx, slotID)
	if err != nil {
		return false, err
	}

	var completed *model.ReservationSlot
	err = s.coord.Commit(ctx, lock.GroundKeys(existing.GroundID), func(txCtx context.Context) error {
		current, err := s.findSlot(txCtx, slotID)
		if err != nil {
			return err
		}
		if current.BookingStatus.Terminal() {
			return nil
		}
		current.BookingStatus = model.StatusCompleted
		if err := s.repo.UpdateSlot(txCtx, current); err != nil {
			return err
		}
		completed = current
		return nil
	})
	if err != nil {
		return false, s.commitError("complete slot of", existing.GroundID, err)
	}
	if completed == nil {
		return false, nil
	}

	s.cfg.Log.Info("Reservation slot completed", "reservation_id", completed.ReservationID, "slot_id", completed.ID)
	s.announce(ctx, claims.EventUpdated, completed)
	return true, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, id string) (*model.ReservationDetail, error) {
	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		released []*model.ReservationSlot
		children []*model.ReservationSlot
	)
	err = s.coord.Commit(ctx, lock.GroundKeys(reservation.GroundID), func(txCtx context.Context) error {
		found, err := s.repo.FindSlotsByReservation(txCtx, id)
		if err != nil {
			return err
		}
		children = found
		for _, child := range children {
			if child.BookingStatus.Terminal() {
				continue
			}
			child.BookingStatus = model.StatusCancelled
			if err := s.repo.UpdateSlot(txCtx, child); err != nil {
				return err
			}
			released = append(released, child)
		}
		return nil
	})
	if err != nil {
		return nil, s.commitError("cancel", reservation.GroundID, err)
	}

	s.cfg.Log.Info("Reservation cancelled",
		"id", id,
		"ground_id", reservation.GroundID,
		"released_slots", len(released),
	)
	s.announce(ctx, claims.EventReleased, released...)
	return &model.ReservationDetail{Reservation: *reservation, Slots: children}, nil
}

func (s *reservationService) Remove(ctx context.Context, ids []string) (int64, error) {
	ids = sanitizer.NormalizeIDs(ids)
	if err := s.validator.ValidateIDs(ids); err != nil {
		return 0, validation.AsAppError(err, "Invalid reservation IDs")
	}

	var grounds []string
	for _, id := range ids {
		reservation, err := s.repo.FindReservation(ctx, id)
		if err != nil {
			if errors.Is(err, reservationserrors.ErrNotFound) {
				continue
			}
			return 0, s.commitError("remove", "", err)
		}
		grounds = append(grounds, reservation.GroundID)
	}

	var (
		removed  int64
		released []*model.ReservationSlot
	)
	err := s.coord.Commit(ctx, lock.GroundKeys(grounds...), func(txCtx context.Context) error {
		for _, id := range ids {
			children, err := s.repo.FindSlotsByReservation(txCtx, id)
			if err != nil {
				return err
			}
			for _, child := range children {
				if child.BookingStatus == model.StatusBooked {
					released = append(released, child)
				}
			}
		}
		n, err := s.repo.DeleteReservations(txCtx, ids)
		removed = n
		return err
	})
	if err != nil {
		return 0, s.commitError("remove", "", err)
	}

	s.cfg.Log.Info("Reservations removed",
		"requested", len(ids),
		"removed", removed,
		"released_slots", len(released),
	)
	s.announce(ctx, claims.EventReleased, released...)
	return removed, nil
}

func (s *reservationService) newChild(groundID string, entry *model.ReservationEntry) (*model.ReservationSlot, error) {
	date, err := calendar.ParseDate(entry.Date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	return &model.ReservationSlot{
		GroundID:      groundID,
		Date:          date,
		SlotIDs:       entry.SlotIDs,
		BookingStatus: model.StatusBooked,
	}, nil
}

// admit checks existence, capability and horizon for every child.
func (s *reservationService) admit(ctx context.Context, groundID string, children ...*model.ReservationSlot) error {
	ground, err := s.catalog.ActiveGround(ctx, groundID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if _, err := s.catalog.ResolveSlots(ctx, ground.ID, child.SlotIDs); err != nil {
			return err
		}
	}
	if err := catalogservice.RequireCapability(ground, model.CapabilityAdHocSlots); err != nil {
		return err
	}
	for _, child := range children {
		if err := s.coord.Horizon.Check(child.Date); err != nil {
			return err
		}
	}
	return nil
}

// verifyAvailable checks child against every live claim except itself.
func (s *reservationService) verifyAvailable(ctx context.Context, child *model.ReservationSlot) error {
	probe := repository.ClaimOf(child)
	opts := claims.CheckOptions{}
	if child.ID != "" {
		opts.Exclude = []claims.Ref{probe.Ref}
	}
	return s.coord.Detector.Verify(ctx, probe, opts)
}

func (s *reservationService) detail(ctx context.Context, id string) (*model.ReservationDetail, error) {
	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := s.repo.FindSlotsByReservation(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservation slots", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservation slots", err)
	}
	return &model.ReservationDetail{Reservation: *reservation, Slots: children}, nil
}

func (s *reservationService) findReservation(ctx context.Context, id string) (*model.Reservation, error) {
	reservation, err := s.repo.FindReservation(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, reservationserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Reservation", id)
		case errors.Is(err, reservationserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}
	return reservation, nil
}

func (s *reservationService) findSlot(ctx context.Context, id string) (*model.ReservationSlot, error) {
	slot, err := s.repo.FindSlot(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, reservationserrors.ErrSlotNotFound):
			return nil, apperrors.NotFoundWithID("Reservation slot", id)
		case errors.Is(err, reservationserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid reservation slot ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation slot", err)
	}
	return slot, nil
}

func (s *reservationService) announce(ctx context.Context, t claims.EventType, children ...*model.ReservationSlot) {
	events := make([]claims.Event, 0, len(children))
	for _, child := range children {
		events = append(events, claims.NewEvent(t, repository.ClaimOf(child)))
	}
	s.coord.Announce(ctx, events...)
}

func (s *reservationService) commitError(op, groundID string, err error) error {
	if apperrors.IsAppError(err) && !apperrors.HasCode(err, apperrors.CodeInternal) {
		s.cfg.Log.Warn("Reservation command rejected",
			"operation", op,
			"ground_id", groundID,
			"error", err,
		)
		return err
	}
	s.cfg.Log.Error(fmt.Sprintf("Failed to %s reservation", op),
		"ground_id", groundID,
		"error", err,
	)
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(fmt.Sprintf("Failed to %s reservation", op), err)
}

func (s *reservationService) sanitize(req *model.ReservationRequest) {
	req.GroundID = sanitizer.NormalizeID(req.GroundID)
	req.Customer.Name = sanitizer.NormalizeName(req.Customer.Name)
	req.Customer.Phone = sanitizer.NormalizePhone(req.Customer.Phone, locale.RegionsFor(s.cfg.TimeZone)...)
	req.Customer.Email = sanitizer.NormalizeEmail(req.Customer.Email)
	req.Payment.Reference = sanitizer.TrimAndNormalize(req.Payment.Reference)
	for i := range req.Entries {
		s.sanitizeEntry(&req.Entries[i])
	}
}

func (s *reservationService) sanitizeEntry(entry *model.ReservationEntry) {
	entry.Date = sanitizer.TrimAndNormalize(entry.Date)
	entry.SlotIDs = sanitizer.NormalizeIDs(entry.SlotIDs)
}

func (s *reservationService) sanitizeSlotUpdate(u *model.ReservationSlotUpdate) {
	if u.SlotIDs != nil {
		u.SlotIDs = sanitizer.NormalizeIDs(u.SlotIDs)
	}
	if u.Date != nil {
		date := sanitizer.TrimAndNormalize(*u.Date)
		u.Date = &date
	}
}

func terminalError(slot *model.ReservationSlot) error {
	return apperrors.Conflict(fmt.Sprintf("reservation slot is already %s", slot.BookingStatus)).
		WithDetails(map[string]any{"id": slot.ID, "booking_status": string(slot.BookingStatus)})
}
