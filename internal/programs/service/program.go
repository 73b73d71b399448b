package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogservice "turfslot/internal/catalog/service"
	"turfslot/internal/claims"
	programserrors "turfslot/internal/programs/errors"
	"turfslot/internal/programs/repository"
	"turfslot/internal/programs/validator"
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
	ResolveSlots(ctx context.Context, groundID string, ids []string) ([]*model.Slot, error)
}

type Sports interface {
	ActiveSport(ctx context.Context, id string) (*model.Sport, error)
}

var programKinds = []claims.Kind{claims.KindAcademy, claims.KindMembership}

// datedAndEvents are the non-program claims a program may not overlap from
// today on.
var datedAndEvents = []claims.Kind{claims.KindBooking, claims.KindReservationSlot, claims.KindEvent}

// ProgramService is the registry of standing weekly claims.
type ProgramService interface {
	Register(ctx context.Context, kind model.ProgramKind, req *model.ProgramRequest) (*model.Program, error)
	GetByID(ctx context.Context, kind model.ProgramKind, id string) (*model.Program, error)
	Update(ctx context.Context, kind model.ProgramKind, id string, updates *model.ProgramUpdate) (*model.Program, error)
	Deactivate(ctx context.Context, kind model.ProgramKind, id string) (*model.Program, error)
	Activate(ctx context.Context, kind model.ProgramKind, id string) (*model.Program, error)

	// List returns every program of kind on groundID, first deactivating
	// the active ones whose due date has passed.
	List(ctx context.Context, kind model.ProgramKind, groundID string) ([]*model.Program, error)
}

type programService struct {
	repo      repository.ProgramRepository
	catalog   Catalog
	sports    Sports
	coord     *claims.Coordinator
	validator *validator.ProgramValidator
	cfg       *config.Config
}

func NewProgramService(
	repo repository.ProgramRepository,
	catalog Catalog,
	sports Sports,
	coord *claims.Coordinator,
	validator *validator.ProgramValidator,
	cfg *config.Config,
) ProgramService {
	return &programService{
		repo:      repo,
		catalog:   catalog,
		sports:    sports,
		coord:     coord,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *programService) Register(ctx context.Context, kind model.ProgramKind, req *model.ProgramRequest) (*model.Program, error) {
	if !kind.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown program kind: %s", kind))
	}
	s.sanitize(req)
	if err := s.validator.Validate(kind, req); err != nil {
		s.cfg.Log.Warn("Program validation failed",
			"kind", kind,
			"ground_id", req.GroundID,
			"error", err,
		)
		return nil, validation.AsAppError(err, "Program validation failed")
	}

	program := &model.Program{
		Kind:           kind,
		GroundID:       req.GroundID,
		SportID:        req.SportID,
		Name:           req.Name,
		MorningSlotIDs: req.MorningSlotIDs,
		EveningSlotIDs: req.EveningSlotIDs,
		ActiveDays:     req.ActiveDays,
		Activation:     model.NewActivation(time.Now().UTC().Truncate(time.Millisecond)),
	}
	if req.DueDate != nil {
		due, err := s.parseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		program.DueDate = &due
	}

	if err := s.admit(ctx, program); err != nil {
		return nil, err
	}

	err := s.coord.Commit(ctx, s.lockKeys(program.GroundID), func(txCtx context.Context) error {
		if err := s.verifyAvailable(txCtx, program); err != nil {
			return err
		}
		return s.repo.Create(txCtx, program)
	})
	if err != nil {
		return nil, s.commitError("register", program, err)
	}

	s.cfg.Log.Info("Program registered successfully",
		"kind", kind,
		"id", program.ID,
		"ground_id", program.GroundID,
		"slots", len(program.SlotIDs()),
		"active_days", program.ActiveDays,
	)
	s.coord.Announce(ctx, claims.NewEvent(claims.EventCreated, repository.ClaimOf(program)))
	return program, nil
}

func (s *programService) GetByID(ctx context.Context, kind model.ProgramKind, id string) (*model.Program, error) {
	if !kind.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown program kind: %s", kind))
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Program ID cannot be empty")
	}
	return s.find(ctx, kind, id)
}

func (s *programService) Update(ctx context.Context, kind model.ProgramKind, id string, updates *model.ProgramUpdate) (*model.Program, error) {
	existing, err := s.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	s.sanitizeUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Program update validation failed", "kind", kind, "id", id, "error", err)
		return nil, validation.AsAppError(err, "Invalid update input")
	}
	var due *time.Time
	if updates.DueDate != nil {
		parsed, err := s.parseDueDate(*updates.DueDate)
		if err != nil {
			return nil, err
		}
		due = &parsed
	}

	// The merge is applied to the copy read under the lock so a concurrent
	// state change is never written back over.
	merged := applyUpdate(existing, updates, due)
	err = s.coord.Commit(ctx, s.lockKeys(existing.GroundID), func(txCtx context.Context) error {
		current, err := s.find(txCtx, kind, id)
		if err != nil {
			return err
		}
		merged = applyUpdate(current, updates, due)
		if err := s.validator.ValidateMerged(merged); err != nil {
			s.cfg.Log.Warn("Program update validation failed", "kind", kind, "id", id, "error", err)
			return validation.AsAppError(err, "Invalid update input")
		}
		// Only an active program holds capacity, so only it is re-checked.
		if merged.IsActive() {
			if err := s.admit(txCtx, merged); err != nil {
				return err
			}
			if err := s.verifyAvailable(txCtx, merged); err != nil {
				return err
			}
		}
		return s.repo.Update(txCtx, merged)
	})
	if err != nil {
		return nil, s.commitError("update", merged, err)
	}

	s.cfg.Log.Info("Program updated successfully",
		"kind", kind,
		"id", id,
		"slots", len(merged.SlotIDs()),
		"active_days", merged.ActiveDays,
	)
	if merged.IsActive() {
		s.coord.Announce(ctx, claims.NewEvent(claims.EventUpdated, repository.ClaimOf(merged)))
	}
	return merged, nil
}

func applyUpdate(program *model.Program, updates *model.ProgramUpdate, due *time.Time) *model.Program {
	merged := *program
	if updates.Name != nil {
		merged.Name = *updates.Name
	}
	if updates.MorningSlotIDs != nil {
		merged.MorningSlotIDs = updates.MorningSlotIDs
	}
	if updates.EveningSlotIDs != nil {
		merged.EveningSlotIDs = updates.EveningSlotIDs
	}
	if updates.ActiveDays != nil {
		merged.ActiveDays = updates.ActiveDays
	}
	if due != nil {
		merged.DueDate = due
	}
	return &merged
}

func (s *programService) Deactivate(ctx context.Context, kind model.ProgramKind, id string) (*model.Program, error) {
	existing, err := s.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	var changed bool
	err = s.coord.Commit(ctx, lock.GroundKeys(existing.GroundID), func(txCtx context.Context) error {
		current, err := s.find(txCtx, kind, id)
		if err != nil {
			return err
		}
		existing = current
		if changed = existing.Deactivate(time.Now().UTC().Truncate(time.Millisecond)); !changed {
			return nil
		}
		return s.repo.Update(txCtx, existing)
	})
	if err != nil {
		return nil, s.commitError("deactivate", existing, err)
	}

	if changed {
		s.cfg.Log.Info("Program deactivated", "kind", kind, "id", id, "ground_id", existing.GroundID)
		s.coord.Announce(ctx, claims.NewEvent(claims.EventReleased, repository.ClaimOf(existing)))
	}
	return existing, nil
}

func (s *programService) Activate(ctx context.Context, kind model.ProgramKind, id string) (*model.Program, error) {
	existing, err := s.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if existing.IsActive() {
		return existing, nil
	}
	if existing.DueDate != nil && existing.DueDate.Before(s.coord.Horizon.Today()) {
		return nil, apperrors.InvalidRange("due date has passed; set a new due date before reactivating").
			WithDetails(map[string]any{"due_date": calendar.Format(*existing.DueDate)})
	}
	if err := s.admit(ctx, existing); err != nil {
		return nil, err
	}

	var changed bool
	err = s.coord.Commit(ctx, s.lockKeys(existing.GroundID), func(txCtx context.Context) error {
		current, err := s.find(txCtx, kind, id)
		if err != nil {
			return err
		}
		existing = current
		if existing.IsActive() {
			return nil
		}
		if err := s.verifyAvailable(txCtx, existing); err != nil {
			return err
		}
		changed = existing.Activate(time.Now().UTC().Truncate(time.Millisecond))
		return s.repo.Update(txCtx, existing)
	})
	if err != nil {
		return nil, s.commitError("activate", existing, err)
	}

	if changed {
		s.cfg.Log.Info("Program activated", "kind", kind, "id", id, "ground_id", existing.GroundID)
		s.coord.Announce(ctx, claims.NewEvent(claims.EventUpdated, repository.ClaimOf(existing)))
	}
	return existing, nil
}

func (s *programService) List(ctx context.Context, kind model.ProgramKind, groundID string) ([]*model.Program, error) {
	if !kind.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown program kind: %s", kind))
	}
	if groundID == "" {
		return nil, apperrors.InvalidInput("Ground ID cannot be empty")
	}

	programs, err := s.repo.FindByGround(ctx, kind, groundID)
	if err != nil {
		s.cfg.Log.Error("Failed to list programs", "kind", kind, "ground_id", groundID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve programs", err)
	}

	today := s.coord.Horizon.Today()
	var overdue []int
	for i, p := range programs {
		if overdueOn(p, today) {
			overdue = append(overdue, i)
		}
	}
	if len(overdue) == 0 {
		return programs, nil
	}

	var swept []*model.Program
	err = s.coord.Commit(ctx, lock.GroundKeys(groundID), func(txCtx context.Context) error {
		now := time.Now().UTC().Truncate(time.Millisecond)
		for _, i := range overdue {
			current, err := s.repo.FindByID(txCtx, kind, programs[i].ID)
			if err != nil {
				return err
			}
			programs[i] = current
			if !overdueOn(current, today) || !current.Deactivate(now) {
				continue
			}
			if err := s.repo.Update(txCtx, current); err != nil {
				return err
			}
			swept = append(swept, current)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to deactivate overdue programs", "kind", kind, "ground_id", groundID, "error", err)
		return nil, apperrors.Internal("Failed to deactivate overdue programs", err)
	}

	if len(swept) == 0 {
		return programs, nil
	}
	events := make([]claims.Event, 0, len(swept))
	for _, p := range swept {
		events = append(events, claims.NewEvent(claims.EventReleased, repository.ClaimOf(p)))
	}
	s.cfg.Log.Info("Overdue programs deactivated", "kind", kind, "ground_id", groundID, "count", len(swept))
	s.coord.Announce(ctx, events...)
	return programs, nil
}

func overdueOn(p *model.Program, today time.Time) bool {
	return p.IsActive() && p.DueDate != nil && p.DueDate.Before(today)
}

// admit checks ground, sport, slots and the kind's capability flag.
func (s *programService) admit(ctx context.Context, program *model.Program) error {
	ground, err := s.catalog.ActiveGround(ctx, program.GroundID)
	if err != nil {
		return err
	}
	if program.SportID != "" {
		if _, err := s.sports.ActiveSport(ctx, program.SportID); err != nil {
			return err
		}
	}
	if _, err := s.catalog.ResolveSlots(ctx, ground.ID, program.SlotIDs()); err != nil {
		return err
	}
	capability := model.CapabilityAcademy
	if program.Kind == model.ProgramMembership {
		capability = model.CapabilityMembership
	}
	return catalogservice.RequireCapability(ground, capability)
}

// verifyAvailable compares against other programs under the configured
// scope, then against upcoming dated claims and events on the ground.
func (s *programService) verifyAvailable(ctx context.Context, program *model.Program) error {
	probe := repository.ClaimOf(program)
	var exclude []claims.Ref
	if program.ID != "" {
		exclude = []claims.Ref{probe.Ref}
	}

	err := s.coord.Detector.Verify(ctx, probe, claims.CheckOptions{
		Kinds:     programKinds,
		Exclude:   exclude,
		SlotsOnly: s.cfg.ProgramOverlapScope == config.ProgramScopeGlobal,
	})
	if err != nil {
		return err
	}

	return s.coord.Detector.Verify(ctx, probe, claims.CheckOptions{
		Kinds: datedAndEvents,
		From:  s.coord.Horizon.Today(),
	})
}

func (s *programService) lockKeys(groundID string) []string {
	keys := lock.GroundKeys(groundID)
	if s.cfg.ProgramOverlapScope == config.ProgramScopeGlobal {
		keys = append(keys, lock.ProgramsKey)
	}
	return keys
}

func (s *programService) parseDueDate(raw string) (time.Time, error) {
	due, err := calendar.ParseDate(raw)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(err.Error())
	}
	if today := s.coord.Horizon.Today(); due.Before(today) {
		return time.Time{}, apperrors.InvalidRange("due date cannot be in the past").
			WithDetails(map[string]any{"due_date": raw, "today": calendar.Format(today)})
	}
	return due, nil
}

func (s *programService) find(ctx context.Context, kind model.ProgramKind, id string) (*model.Program, error) {
	program, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		switch {
		case errors.Is(err, programserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID(programResource(kind), id)
		case errors.Is(err, programserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid program ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve program", err)
	}
	return program, nil
}

func (s *programService) commitError(op string, program *model.Program, err error) error {
	if apperrors.IsAppError(err) && !apperrors.HasCode(err, apperrors.CodeInternal) {
		s.cfg.Log.Warn("Program command rejected",
			"operation", op,
			"kind", program.Kind,
			"id", program.ID,
			"ground_id", program.GroundID,
			"error", err,
		)
		return err
	}
	s.cfg.Log.Error(fmt.Sprintf("Failed to %s program", op),
		"kind", program.Kind,
		"id", program.ID,
		"ground_id", program.GroundID,
		"error", err,
	)
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(fmt.Sprintf("Failed to %s program", op), err)
}

func (s *programService) sanitize(req *model.ProgramRequest) {
	req.GroundID = sanitizer.NormalizeID(req.GroundID)
	req.SportID = sanitizer.NormalizeID(req.SportID)
	req.Name = sanitizer.NormalizeName(req.Name)
	req.MorningSlotIDs = sanitizer.NormalizeIDs(req.MorningSlotIDs)
	req.EveningSlotIDs = sanitizer.NormalizeIDs(req.EveningSlotIDs)
	if req.ActiveDays != nil {
		req.ActiveDays = sanitizer.NormalizeWeekdays(req.ActiveDays)
	}
	if req.DueDate != nil {
		due := sanitizer.TrimAndNormalize(*req.DueDate)
		req.DueDate = &due
	}
}

func (s *programService) sanitizeUpdate(u *model.ProgramUpdate) {
	if u.Name != nil {
		name := sanitizer.NormalizeName(*u.Name)
		u.Name = &name
	}
	if u.MorningSlotIDs != nil {
		u.MorningSlotIDs = sanitizer.NormalizeIDs(u.MorningSlotIDs)
	}
	if u.EveningSlotIDs != nil {
		u.EveningSlotIDs = sanitizer.NormalizeIDs(u.EveningSlotIDs)
	}
	if u.ActiveDays != nil {
		u.ActiveDays = sanitizer.NormalizeWeekdays(u.ActiveDays)
	}
	if u.DueDate != nil {
		due := sanitizer.TrimAndNormalize(*u.DueDate)
		u.DueDate = &due
	}
}

func programResource(kind model.ProgramKind) string {
	if kind == model.ProgramMembership {
		return "Membership"
	}
	return "Academy"
}
