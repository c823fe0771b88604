package database

import (
	"context"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type LocationRepository interface {
	Insert(ctx context.Context, loc *domain.VehicleLocation) error
	GetLatest(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.VehicleLocation, error)
}

type VehicleRepository interface {
	List(ctx context.Context) ([]domain.Vehicle, error)
	Upsert(ctx context.Context, vehicles []domain.Vehicle) error
	UpdateStatus(ctx context.Context, vehicleID string, status domain.Status) error
	UpdateRally(ctx context.Context, vehicleID string, rally bool) error
}
