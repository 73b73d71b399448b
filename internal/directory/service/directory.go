package service

import (
	"context"
	"errors"

	directoryerrors "turfslot/internal/directory/errors"
	"turfslot/internal/directory/repository"
	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/logger"
	"turfslot/pkg/model"
)

// DirectoryService answers existence and activeness lookups. Missing,
// malformed and inactive ids all surface as NotFound.
type DirectoryService interface {
	ActiveCustomer(ctx context.Context, id string) (*model.Customer, error)
	ActiveSport(ctx context.Context, id string) (*model.Sport, error)
}

type directoryService struct {
	repo repository.DirectoryRepository
	log  *logger.Logger
}

func NewDirectoryService(repo repository.DirectoryRepository, log *logger.Logger) DirectoryService {
	return &directoryService{repo: repo, log: log}
}

func (s *directoryService) ActiveCustomer(ctx context.Context, id string) (*model.Customer, error) {
	customer, err := s.repo.FindCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, directoryerrors.ErrCustomerNotFound) || errors.Is(err, directoryerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Customer", id)
		}
		s.log.Error("Failed to look up customer", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to look up customer", err)
	}
	if !customer.Active {
		return nil, apperrors.NotFoundWithID("Customer", id)
	}
	return customer, nil
}

func (s *directoryService) ActiveSport(ctx context.Context, id string) (*model.Sport, error) {
	sport, err := s.repo.FindSport(ctx, id)
	if err != nil {
		if errors.Is(err, directoryerrors.ErrSportNotFound) || errors.Is(err, directoryerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Sport", id)
		}
		s.log.Error("Failed to look up sport", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to look up sport", err)
	}
	if !sport.Active {
		return nil, apperrors.NotFoundWithID("Sport", id)
	}
	return sport, nil
}
