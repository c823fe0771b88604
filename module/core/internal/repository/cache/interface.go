package cache

import (
	"context"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type PositionCache interface {
	SetLatest(ctx context.Context, vl *domain.VehicleLocation) error
	GetLatest(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error)
}
