package service

import (
	"context"
	"log"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/cache"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/database"
)

type LocationService struct {
	store *PositionStore
	repo  database.LocationRepository
	cache cache.PositionCache
}

func NewLocationService(store *PositionStore, repo database.LocationRepository, c cache.PositionCache) *LocationService {
	return &LocationService{store: store, repo: repo, cache: c}
}

// SaveLocation feeds one live report into the store. Reports older than the
// stored position are dropped and reported as not applied. Accepted reports
// go to the history table and the latest-position cache; failures there are
// logged since the position is already live.
func (s *LocationService) SaveLocation(ctx context.Context, vl *domain.VehicleLocation) (bool, error) {
	applied := s.store.UpsertPosition(vl.VehicleID, vl.Location.Lat, vl.Location.Lon, vl.Location.Timestamp)
	if !applied {
		return false, nil
	}

	if err := s.repo.Insert(ctx, vl); err != nil {
		log.Printf("insert location history %s: %v", vl.VehicleID, err)
	}

	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, vl); err != nil {
			log.Printf("cache latest position %s: %v", vl.VehicleID, err)
		}
	}
	return true, nil
}

func (s *LocationService) GetLatest(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error) {
	if loc, ok := s.store.LatestPosition(vehicleID); ok {
		return &domain.VehicleLocation{
			VehicleID: vehicleID,
			Location:  domain.Location{Lat: loc.Point.Lat, Lon: loc.Point.Lng, Timestamp: loc.Timestamp},
		}, nil
	}

	if s.cache != nil {
		if vl, err := s.cache.GetLatest(ctx, vehicleID); err == nil && vl != nil {
			return vl, nil
		}
	}
	return s.repo.GetLatest(ctx, vehicleID)
}

func (s *LocationService) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.VehicleLocation, error) {
	return s.repo.GetHistory(ctx, query)
}

// Warm seeds the store from the cache for the given vehicles. Misses are
// skipped.
func (s *LocationService) Warm(ctx context.Context, vehicleIDs []string) int {
	if s.cache == nil {
		return 0
	}

	warmed := 0
	for _, id := range vehicleIDs {
		vl, err := s.cache.GetLatest(ctx, id)
		if err != nil || vl == nil {
			continue
		}
		if s.store.UpsertPosition(id, vl.Location.Lat, vl.Location.Lon, vl.Location.Timestamp) {
			warmed++
		}
	}
	return warmed
}
