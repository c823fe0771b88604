package service

import (
	"context"
	"fmt"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/database"
)

// RegistryService mirrors the vehicle registry into the position store.
type RegistryService struct {
	store *PositionStore
	repo  database.VehicleRepository
}

func NewRegistryService(store *PositionStore, repo database.VehicleRepository) *RegistryService {
	return &RegistryService{store: store, repo: repo}
}

// Load pulls the registry from the database into the store and returns the
// registered ids.
func (s *RegistryService) Load(ctx context.Context) ([]string, error) {
	vehicles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	s.store.Register(vehicles)

	ids := make([]string, len(vehicles))
	for i, v := range vehicles {
		ids[i] = v.ID
	}
	return ids, nil
}

func (s *RegistryService) Import(ctx context.Context, vehicles []domain.Vehicle) error {
	seen := make(map[string]bool, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		if seen[v.ID] {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateVehicle, v.ID)
		}
		seen[v.ID] = true
		if v.Status == "" {
			v.Status = domain.StatusStandby
		}
		if !v.Status.Valid() {
			return fmt.Errorf("vehicle %q: %w", v.ID, domain.ErrInvalidStatus)
		}
	}

	if err := s.repo.Upsert(ctx, vehicles); err != nil {
		return err
	}
	s.store.Register(vehicles)
	return nil
}

func (s *RegistryService) List(_ context.Context) []domain.Vehicle {
	return s.store.Snapshot()
}

func (s *RegistryService) SetStatus(ctx context.Context, vehicleID string, status domain.Status) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	if _, ok := s.store.Get(vehicleID); !ok {
		return domain.ErrVehicleNotFound
	}
	if err := s.repo.UpdateStatus(ctx, vehicleID, status); err != nil {
		return err
	}
	return s.store.SetStatus(vehicleID, status)
}

func (s *RegistryService) SetRally(ctx context.Context, vehicleID string, rally bool) error {
	if _, ok := s.store.Get(vehicleID); !ok {
		return domain.ErrVehicleNotFound
	}
	if err := s.repo.UpdateRally(ctx, vehicleID, rally); err != nil {
		return err
	}
	return s.store.SetRally(vehicleID, rally)
}
