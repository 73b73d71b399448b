package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	catalogerrors "turfslot/internal/catalog/errors"
	"turfslot/internal/catalog/repository"
	"turfslot/internal/catalog/validator"
	"turfslot/pkg/config"
	mongotx "turfslot/pkg/db/mongo"
	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/model"
	"turfslot/pkg/sanitizer"
	"turfslot/pkg/validation"
)

const (
	firstSlotHour = 6
	lastSlotHour  = 22
)

type CatalogService interface {
	CreateGround(ctx context.Context, ground *model.Ground) ([]*model.Slot, error)
	GetGround(ctx context.Context, id string) (*model.GroundCatalog, error)
	ListGrounds(ctx context.Context, limit int, offset int64) ([]*model.Ground, int64, error)
	UpdateGround(ctx context.Context, id string, updates *model.GroundUpdate) error

	ListSlots(ctx context.Context, groundID string) ([]*model.Slot, error)
	GetSlot(ctx context.Context, id string) (*model.Slot, error)
	UpdateSlot(ctx context.Context, id string, updates *model.SlotUpdate) (*model.Slot, error)

	// ActiveGround returns the ground if it exists and is active.
	ActiveGround(ctx context.Context, id string) (*model.Ground, error)
	// ResolveSlots returns the active catalog entries of groundID for ids,
	// in request order.
	ResolveSlots(ctx context.Context, groundID string, ids []string) ([]*model.Slot, error)
}

type catalogService struct {
	repo      repository.CatalogRepository
	validator *validator.CatalogValidator
	tx        mongotx.TransactionManager
	cfg       *config.Config
}

func NewCatalogService(
	repo repository.CatalogRepository,
	validator *validator.CatalogValidator,
	tx mongotx.TransactionManager,
	cfg *config.Config,
) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: validator,
		tx:        tx,
		cfg:       cfg,
	}
}

// PriceFor is the catalog price of slot on date's weekday.
func PriceFor(slot *model.Slot, date time.Time) int64 {
	return slot.PriceOn(date)
}

// DefaultCatalog builds the fixed hourly windows from 06:00 to 22:00 with
// the same price on every weekday.
func DefaultCatalog(groundID string, price int64) []*model.Slot {
	var week model.WeekPrice
	for i := range week {
		week[i] = price
	}

	slots := make([]*model.Slot, 0, lastSlotHour-firstSlotHour)
	for h := firstSlotHour; h < lastSlotHour; h++ {
		start := fmt.Sprintf("%02d:00", h)
		end := fmt.Sprintf("%02d:00", h+1)
		slots = append(slots, &model.Slot{
			GroundID:  groundID,
			Label:     start + " - " + end,
			StartTime: start,
			EndTime:   end,
			Price:     week,
			Active:    true,
		})
	}
	return slots
}

func (s *catalogService) CreateGround(ctx context.Context, ground *model.Ground) ([]*model.Slot, error) {
	ground.Name = sanitizer.NormalizeName(ground.Name)
	ground.VenueID = sanitizer.NormalizeID(ground.VenueID)
	ground.Active = true

	if err := s.validator.ValidateGround(ground); err != nil {
		s.cfg.Log.Warn("Ground validation failed",
			"name", ground.Name,
			"venue_id", ground.VenueID,
			"error", err,
		)
		return nil, validation.AsAppError(err, "Ground validation failed")
	}

	var slots []*model.Slot
	err := s.tx.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateGround(txCtx, ground); err != nil {
			return err
		}
		slots = DefaultCatalog(ground.ID, s.cfg.DefaultSlotPrice)
		return s.repo.CreateSlots(txCtx, slots)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create ground",
			"name", ground.Name,
			"venue_id", ground.VenueID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create ground", err)
	}

	s.cfg.Log.Info("Ground created with slot catalog",
		"id", ground.ID,
		"name", ground.Name,
		"slots", len(slots),
	)
	return slots, nil
}

func (s *catalogService) GetGround(ctx context.Context, id string) (*model.GroundCatalog, error) {
	ground, err := s.findGround(ctx, id)
	if err != nil {
		return nil, err
	}
	slots, err := s.repo.FindSlotsByGround(ctx, ground.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to list slots", "ground_id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve slots", err)
	}
	return &model.GroundCatalog{Ground: ground, Slots: slots}, nil
}

func (s *catalogService) ListGrounds(ctx context.Context, limit int, offset int64) ([]*model.Ground, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		count            int64
		grounds          []*model.Ground
		errCount, errAll error
		wg               sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		if count, err = s.repo.CountGrounds(ctx); err != nil {
			s.cfg.Log.Error("Failed to count grounds", "error", err)
			errCount = apperrors.Internal("Failed to count grounds", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if grounds, err = s.repo.FindGrounds(ctx, limit, offset); err != nil {
			s.cfg.Log.Error("Failed to list grounds", "limit", limit, "offset", offset, "error", err)
			errAll = apperrors.Internal("Failed to retrieve grounds", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errAll != nil {
		return nil, 0, errAll
	}
	return grounds, count, nil
}

func (s *catalogService) UpdateGround(ctx context.Context, id string, updates *model.GroundUpdate) error {
	if updates.Name != nil {
		name := sanitizer.NormalizeName(*updates.Name)
		updates.Name = &name
	}
	if err := s.validator.ValidateGroundUpdate(updates); err != nil {
		s.cfg.Log.Warn("Ground update validation failed", "id", id, "error", err)
		return validation.AsAppError(err, "Ground update validation failed")
	}

	ground, err := s.findGround(ctx, id)
	if err != nil {
		return err
	}

	if updates.Name != nil {
		ground.Name = *updates.Name
	}
	if updates.SupportsAdHocSlots != nil {
		ground.SupportsAdHocSlots = *updates.SupportsAdHocSlots
	}
	if updates.SupportsAcademy != nil {
		ground.SupportsAcademy = *updates.SupportsAcademy
	}
	if updates.SupportsMembership != nil {
		ground.SupportsMembership = *updates.SupportsMembership
	}
	if updates.Active != nil {
		ground.Active = *updates.Active
	}

	if err := s.repo.UpdateGround(ctx, ground); err != nil {
		if errors.Is(err, catalogerrors.ErrGroundNotFound) {
			return apperrors.NotFoundWithID("Ground", id)
		}
		s.cfg.Log.Error("Failed to update ground", "id", id, "error", err)
		return apperrors.Internal("Failed to update ground", err)
	}

	s.cfg.Log.Info("Ground updated",
		"id", id,
		"active", ground.Active,
		"supports_ad_hoc_slots", ground.SupportsAdHocSlots,
		"supports_academy", ground.SupportsAcademy,
		"supports_membership", ground.SupportsMembership,
	)
	return nil
}

func (s *catalogService) ListSlots(ctx context.Context, groundID string) ([]*model.Slot, error) {
	if _, err := s.findGround(ctx, groundID); err != nil {
		return nil, err
	}
	slots, err := s.repo.FindSlotsByGround(ctx, groundID)
	if err != nil {
		s.cfg.Log.Error("Failed to list slots", "ground_id", groundID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve slots", err)
	}
	return slots, nil
}

func (s *catalogService) GetSlot(ctx context.Context, id string) (*model.Slot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Slot ID cannot be empty")
	}
	slot, err := s.repo.FindSlot(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, catalogerrors.ErrSlotNotFound):
			return nil, apperrors.NotFoundWithID("Slot", id)
		case errors.Is(err, catalogerrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid slot ID format")
		}
		s.cfg.Log.Error("Failed to get slot", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve slot", err)
	}
	return slot, nil
}

func (s *catalogService) UpdateSlot(ctx context.Context, id string, updates *model.SlotUpdate) (*model.Slot, error) {
	if updates.Label != nil {
		label := sanitizer.TrimAndNormalize(*updates.Label)
		updates.Label = &label
	}
	if err := s.validator.ValidateSlotUpdate(updates); err != nil {
		s.cfg.Log.Warn("Slot update validation failed", "id", id, "error", err)
		return nil, validation.AsAppError(err, "Slot update validation failed")
	}

	slot, err := s.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Label != nil {
		slot.Label = *updates.Label
	}
	if updates.Price != nil {
		slot.Price = *updates.Price
	}
	if updates.Active != nil {
		slot.Active = *updates.Active
	}

	if err := s.repo.UpdateSlot(ctx, slot); err != nil {
		if errors.Is(err, catalogerrors.ErrSlotNotFound) {
			return nil, apperrors.NotFoundWithID("Slot", id)
		}
		s.cfg.Log.Error("Failed to update slot", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update slot", err)
	}

	s.cfg.Log.Info("Slot updated",
		"id", id,
		"ground_id", slot.GroundID,
		"active", slot.Active,
	)
	return slot, nil
}

func (s *catalogService) ActiveGround(ctx context.Context, id string) (*model.Ground, error) {
	ground, err := s.findGround(ctx, id)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeInvalidInput) {
			return nil, apperrors.NotFoundWithID("Ground", id)
		}
		return nil, err
	}
	if !ground.Active {
		return nil, apperrors.NotFoundWithID("Ground", id)
	}
	return ground, nil
}

// RequireCapability fails with CAPABILITY_DISABLED when ground lacks c.
func RequireCapability(ground *model.Ground, c model.Capability) error {
	if !ground.Supports(c) {
		return apperrors.CapabilityDisabled("Ground", string(c)).
			WithDetails(map[string]any{"ground_id": ground.ID})
	}
	return nil
}

func (s *catalogService) ResolveSlots(ctx context.Context, groundID string, ids []string) ([]*model.Slot, error) {
	if len(ids) == 0 {
		return nil, apperrors.Validation("At least one slot is required", nil)
	}

	catalog, err := s.repo.FindSlotsByGround(ctx, groundID)
	if err != nil {
		s.cfg.Log.Error("Failed to load slot catalog", "ground_id", groundID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve slots", err)
	}
	byID := make(map[string]*model.Slot, len(catalog))
	for _, slot := range catalog {
		byID[slot.ID] = slot
	}

	out := make([]*model.Slot, 0, len(ids))
	for _, id := range ids {
		slot, ok := byID[id]
		if !ok || !slot.Active {
			return nil, apperrors.NotFoundWithID("Slot", id).
				WithDetails(map[string]any{"ground_id": groundID})
		}
		out = append(out, slot)
	}
	return out, nil
}

func (s *catalogService) findGround(ctx context.Context, id string) (*model.Ground, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Ground ID cannot be empty")
	}
	ground, err := s.repo.FindGround(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, catalogerrors.ErrGroundNotFound):
			return nil, apperrors.NotFoundWithID("Ground", id)
		case errors.Is(err, catalogerrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid ground ID format")
		}
		s.cfg.Log.Error("Failed to get ground", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve ground", err)
	}
	return ground, nil
}
