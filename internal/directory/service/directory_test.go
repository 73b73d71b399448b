package service

import (
	"context"
	"errors"
	"testing"

	directoryerrors "turfslot/internal/directory/errors"
	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/logger"
	"turfslot/pkg/model"
)

type mockDirectoryRepository struct {
	customers map[string]*model.Customer
	sports    map[string]*model.Sport
	err       error
}

func (m *mockDirectoryRepository) FindCustomer(_ context.Context, id string) (*model.Customer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.customers[id]; ok {
		return c, nil
	}
	return nil, directoryerrors.ErrCustomerNotFound
}

func (m *mockDirectoryRepository) FindSport(_ context.Context, id string) (*model.Sport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.sports[id]; ok {
		return s, nil
	}
	return nil, directoryerrors.ErrSportNotFound
}

func TestActiveCustomer(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	repo := &mockDirectoryRepository{customers: map[string]*model.Customer{
		"c1": {ID: "c1", Name: "Asha", Active: true},
		"c2": {ID: "c2", Name: "Ravi", Active: false},
	}}
	svc := NewDirectoryService(repo, log)

	tests := []struct {
		name     string
		id       string
		wantCode string
	}{
		{"active", "c1", ""},
		{"inactive", "c2", apperrors.CodeNotFound},
		{"missing", "c3", apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ActiveCustomer(context.Background(), tt.id)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestActiveSport_StoreFailure(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	svc := NewDirectoryService(&mockDirectoryRepository{err: errors.New("connection reset")}, log)

	_, err := svc.ActiveSport(context.Background(), "s1")
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
