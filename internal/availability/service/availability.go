package service

import (
	"context"
	"time"

	"turfslot/internal/claims"
	"turfslot/pkg/calendar"
	"turfslot/pkg/config"
	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/model"
)

type Catalog interface {
	ActiveGround(ctx context.Context, id string) (*model.Ground, error)
	ListSlots(ctx context.Context, groundID string) ([]*model.Slot, error)
}

// AvailabilityService answers which catalog entries of a ground are free on
// a date. It is read-only and takes no locks.
type AvailabilityService interface {
	GetAvailability(ctx context.Context, groundID string, date time.Time) ([]*model.SlotAvailability, error)
}

type availabilityService struct {
	catalog  Catalog
	detector *claims.Detector
	cfg      *config.Config
}

func NewAvailabilityService(catalog Catalog, detector *claims.Detector, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		catalog:  catalog,
		detector: detector,
		cfg:      cfg,
	}
}

func (s *availabilityService) GetAvailability(ctx context.Context, groundID string, date time.Time) ([]*model.SlotAvailability, error) {
	if groundID == "" {
		return nil, apperrors.InvalidInput("Ground ID cannot be empty")
	}
	if date.IsZero() {
		return nil, apperrors.InvalidInput("date is required")
	}
	day := calendar.Day(date)

	if _, err := s.catalog.ActiveGround(ctx, groundID); err != nil {
		return nil, err
	}
	slots, err := s.catalog.ListSlots(ctx, groundID)
	if err != nil {
		return nil, err
	}

	excluded, err := s.detector.Excluded(ctx, groundID, day, claims.CheckOptions{})
	if err != nil {
		s.cfg.Log.Error("Failed to fold claims",
			"ground_id", groundID,
			"date", calendar.Format(day),
			"error", err,
		)
		return nil, apperrors.Internal("Failed to compute availability", err)
	}

	out := make([]*model.SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		out = append(out, &model.SlotAvailability{
			SlotID:     slot.ID,
			Label:      slot.Label,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			Price:      slot.Price,
			PriceToday: slot.PriceOn(day),
			Available:  slot.Active && !excluded.Has(slot.ID),
		})
	}

	s.cfg.Log.Debug("Availability computed",
		"ground_id", groundID,
		"date", calendar.Format(day),
		"slots", len(out),
		"held", len(excluded),
	)
	return out, nil
}
