package service

import (
	"context"
	"log"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type locationSaver interface {
	SaveLocation(ctx context.Context, vl *domain.VehicleLocation) (bool, error)
}

type regionChecker interface {
	CheckAndAlert(ctx context.Context, vl *domain.VehicleLocation) error
}

// IngestService is the single entry point for live positions, whichever feed
// they arrive on.
type IngestService struct {
	locations locationSaver
	regions   regionChecker
}

func NewIngestService(locations locationSaver, regions regionChecker) *IngestService {
	return &IngestService{locations: locations, regions: regions}
}

// Ingest stores the position and runs the region check when the position was
// accepted. Stale positions are reported as not applied without error.
func (s *IngestService) Ingest(ctx context.Context, vl *domain.VehicleLocation) (bool, error) {
	applied, err := s.locations.SaveLocation(ctx, vl)
	if err != nil {
		return applied, err
	}
	if !applied || s.regions == nil {
		return applied, nil
	}

	if err := s.regions.CheckAndAlert(ctx, vl); err != nil {
		log.Printf("region check %s: %v", vl.VehicleID, err)
	}
	return true, nil
}
