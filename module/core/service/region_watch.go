package service

import (
	"context"
	"sync"
	"time"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/publisher"
)

// RegionWatchService tracks the district each vehicle is in and publishes an
// alert when it changes.
type RegionWatchService struct {
	publisher publisher.RegionPublisher
	index     *BoundaryIndex

	mu      sync.Mutex
	regions map[string]string
	checked map[string]time.Time
}

func NewRegionWatchService(pub publisher.RegionPublisher, index *BoundaryIndex) *RegionWatchService {
	return &RegionWatchService{
		publisher: pub,
		index:     index,
		regions:   make(map[string]string),
		checked:   make(map[string]time.Time),
	}
}

// CheckAndAlert compares the report's district with the last one seen. A
// report not newer than the last checked one for the vehicle is ignored.
func (s *RegionWatchService) CheckAndAlert(ctx context.Context, vl *domain.VehicleLocation) error {
	current := ""
	if p, ok := s.index.FindContaining(vl.Location.Lat, vl.Location.Lon, s.index.Districts()); ok {
		current = p.Name
	}

	s.mu.Lock()
	if last, ok := s.checked[vl.VehicleID]; ok && !vl.Location.Timestamp.After(last) {
		s.mu.Unlock()
		return nil
	}
	s.checked[vl.VehicleID] = vl.Location.Timestamp
	previous, seen := s.regions[vl.VehicleID]
	s.regions[vl.VehicleID] = current
	s.mu.Unlock()

	if seen && previous == current {
		return nil
	}

	var alerts []*domain.RegionAlert
	if previous != "" {
		alerts = append(alerts, s.alert(vl, domain.RegionExit, previous))
	}
	if current != "" {
		alerts = append(alerts, s.alert(vl, domain.RegionEntry, current))
	}

	for _, a := range alerts {
		if err := s.publisher.PublishAlert(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Region returns the last district seen for the vehicle.
func (s *RegionWatchService) Region(vehicleID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regions[vehicleID]
}

func (s *RegionWatchService) alert(vl *domain.VehicleLocation, event domain.RegionEventType, region string) *domain.RegionAlert {
	return &domain.RegionAlert{
		VehicleID: vl.VehicleID,
		Event:     event,
		Region:    region,
		Location:  vl.Location,
		Timestamp: vl.Location.Timestamp.UnixMilli(),
	}
}
