package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"turfslot/internal/claims"
	eventserrors "turfslot/internal/events/errors"
	"turfslot/internal/events/repository"
	"turfslot/internal/events/validator"
	"turfslot/pkg/calendar"
	"turfslot/pkg/config"
	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/lock"
	"turfslot/pkg/model"
	"turfslot/pkg/sanitizer"
	"turfslot/pkg/validation"
)

type Catalog interface {
	ActiveGround(ctx context.Context, id string) (*model.Ground, error)
	ListSlots(ctx context.Context, groundID string) ([]*model.Slot, error)
}

type EventService interface {
	Create(ctx context.Context, req *model.EventRequest) (*model.EventBlock, error)
	GetByID(ctx context.Context, id string) (*model.EventBlock, error)
	Deactivate(ctx context.Context, id string) (*model.EventBlock, error)
}

type eventService struct {
	repo      repository.EventRepository
	catalog   Catalog
	coord     *claims.Coordinator
	validator *validator.EventValidator
	cfg       *config.Config
}

func NewEventService(
	repo repository.EventRepository,
	catalog Catalog,
	coord *claims.Coordinator,
	validator *validator.EventValidator,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:      repo,
		catalog:   catalog,
		coord:     coord,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *eventService) Create(ctx context.Context, req *model.EventRequest) (*model.EventBlock, error) {
	s.sanitize(req)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Event validation failed", "name", req.Name, "error", err)
		return nil, validation.AsAppError(err, "Event validation failed")
	}

	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	end, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if end.Before(start) {
		return nil, apperrors.InvalidRange("end_date cannot be before start_date").
			WithDetails(map[string]any{"start_date": req.StartDate, "end_date": req.EndDate})
	}

	event := &model.EventBlock{
		Name:       req.Name,
		GroundIDs:  req.GroundIDs,
		SlotIDs:    req.SlotIDs,
		StartDate:  calendar.Day(start),
		EndDate:    calendar.EndOfDay(end),
		Activation: model.NewActivation(time.Now().UTC().Truncate(time.Millisecond)),
	}

	if err := s.admit(ctx, event); err != nil {
		return nil, err
	}

	err = s.coord.Commit(ctx, lock.GroundKeys(event.GroundIDs...), func(txCtx context.Context) error {
		if err := s.verifyAvailable(txCtx, event); err != nil {
			return err
		}
		return s.repo.Create(txCtx, event)
	})
	if err != nil {
		return nil, s.commitError("create", event, err)
	}

	s.cfg.Log.Info("Event block created successfully",
		"id", event.ID,
		"grounds", event.GroundIDs,
		"slots", len(event.SlotIDs),
		"start_date", calendar.Format(event.StartDate),
		"end_date", calendar.Format(event.EndDate),
	)
	s.coord.Announce(ctx, claims.NewEvent(claims.EventCreated, repository.ClaimOf(event)))
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*model.EventBlock, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}
	return s.find(ctx, id)
}

func (s *eventService) Deactivate(ctx context.Context, id string) (*model.EventBlock, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var changed bool
	err = s.coord.Commit(ctx, lock.GroundKeys(event.GroundIDs...), func(txCtx context.Context) error {
		current, err := s.find(txCtx, id)
		if err != nil {
			return err
		}
		event = current
		if changed = event.Deactivate(time.Now().UTC().Truncate(time.Millisecond)); !changed {
			return nil
		}
		return s.repo.UpdateState(txCtx, event)
	})
	if err != nil {
		return nil, s.commitError("deactivate", event, err)
	}

	if changed {
		s.cfg.Log.Info("Event block deactivated", "id", id, "grounds", event.GroundIDs)
		s.coord.Announce(ctx, claims.NewEvent(claims.EventReleased, repository.ClaimOf(event)))
	}
	return event, nil
}

// admit checks every ground is active and every slot is an active catalog
// entry of one of them.
func (s *eventService) admit(ctx context.Context, event *model.EventBlock) error {
	offered := claims.NewSet()
	for _, groundID := range event.GroundIDs {
		if _, err := s.catalog.ActiveGround(ctx, groundID); err != nil {
			return err
		}
		slots, err := s.catalog.ListSlots(ctx, groundID)
		if err != nil {
			return err
		}
		for _, slot := range slots {
			if slot.Active {
				offered.Add(slot.ID)
			}
		}
	}

	var missing []string
	for _, id := range event.SlotIDs {
		if !offered.Has(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return apperrors.NotFound("Slot").WithDetails(map[string]any{
			"slot_ids":   missing,
			"ground_ids": event.GroundIDs,
		})
	}
	return nil
}

// verifyAvailable applies the configured duplicate policy. exact rejects an
// active event with the same grounds and range; overlap rejects any live
// claim sharing a ground and a slot within the range.
func (s *eventService) verifyAvailable(ctx context.Context, event *model.EventBlock) error {
	if s.cfg.EventDuplicatePolicy == config.EventPolicyOverlap {
		return s.coord.Detector.Verify(ctx, repository.ClaimOf(event), claims.CheckOptions{
			From: s.coord.Horizon.Today(),
		})
	}

	existing, err := s.repo.FindActive(ctx, event.GroundIDs, event.StartDate, calendar.Day(event.EndDate))
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.StartDate.Equal(event.StartDate) && other.EndDate.Equal(event.EndDate) && sameGrounds(other.GroundIDs, event.GroundIDs) {
			return apperrors.Conflict("an active event already blocks these grounds for this range").
				WithDetails(map[string]any{
					"claim_kind": string(claims.KindEvent),
					"claim_id":   other.ID,
					"start_date": calendar.Format(other.StartDate),
					"end_date":   calendar.Format(other.EndDate),
				})
		}
	}
	return nil
}

func (s *eventService) find(ctx context.Context, id string) (*model.EventBlock, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, eventserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Event", id)
		case errors.Is(err, eventserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid event ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve event", err)
	}
	return event, nil
}

func (s *eventService) commitError(op string, event *model.EventBlock, err error) error {
	if apperrors.IsAppError(err) && !apperrors.HasCode(err, apperrors.CodeInternal) {
		s.cfg.Log.Warn("Event command rejected", "operation", op, "id", event.ID, "grounds", event.GroundIDs, "error", err)
		return err
	}
	s.cfg.Log.Error("Failed to "+op+" event block", "id", event.ID, "grounds", event.GroundIDs, "error", err)
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to "+op+" event block", err)
}

func (s *eventService) sanitize(req *model.EventRequest) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.GroundIDs = sanitizer.NormalizeIDs(req.GroundIDs)
	req.SlotIDs = sanitizer.NormalizeIDs(req.SlotIDs)
	req.StartDate = sanitizer.TrimAndNormalize(req.StartDate)
	req.EndDate = sanitizer.TrimAndNormalize(req.EndDate)
}

func sameGrounds(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
