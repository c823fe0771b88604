package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type geocoder interface {
	Geocode(ctx context.Context, address string) (domain.LatLng, error)
}

type statusSetter interface {
	SetStatus(ctx context.Context, vehicleID string, status domain.Status) error
}

type DispatchCommand struct {
	VehicleID string
	Address   string
	Target    *domain.LatLng
}

// Dispatch is the result handed to the crew: where to go and the link that
// opens their tracking session.
type Dispatch struct {
	ID           string        `json:"id"`
	VehicleID    string        `json:"vehicleId"`
	Target       domain.LatLng `json:"target"`
	Address      string        `json:"address,omitempty"`
	TrackingLink string        `json:"trackingLink"`
	IssuedAt     time.Time     `json:"issuedAt"`
}

type DispatchService struct {
	registry statusSetter
	geocoder geocoder
	now      func() time.Time
}

func NewDispatchService(registry statusSetter, g geocoder) *DispatchService {
	return &DispatchService{registry: registry, geocoder: g, now: time.Now}
}

// Dispatch resolves the target, puts the vehicle en route and builds the
// tracking link.
func (s *DispatchService) Dispatch(ctx context.Context, cmd DispatchCommand) (*Dispatch, error) {
	target, err := s.resolveTarget(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if err := s.registry.SetStatus(ctx, cmd.VehicleID, domain.StatusEnRoute); err != nil {
		return nil, err
	}

	return &Dispatch{
		ID:           uuid.NewString(),
		VehicleID:    cmd.VehicleID,
		Target:       target,
		Address:      cmd.Address,
		TrackingLink: TrackingLink(cmd.VehicleID, target),
		IssuedAt:     s.now(),
	}, nil
}

// Return sends the vehicle back to standby.
func (s *DispatchService) Return(ctx context.Context, vehicleID string) error {
	return s.registry.SetStatus(ctx, vehicleID, domain.StatusStandby)
}

func (s *DispatchService) resolveTarget(ctx context.Context, cmd DispatchCommand) (domain.LatLng, error) {
	if cmd.Target != nil {
		return *cmd.Target, nil
	}
	if cmd.Address == "" {
		return domain.LatLng{}, fmt.Errorf("dispatch %s: target or address required", cmd.VehicleID)
	}
	if s.geocoder == nil {
		return domain.LatLng{}, fmt.Errorf("no geocoder configured: %w", domain.ErrGeocodingFailed)
	}
	return s.geocoder.Geocode(ctx, cmd.Address)
}

// TrackingLink is the relative link a crew opens on their device.
func TrackingLink(vehicleID string, target domain.LatLng) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(target.Lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(target.Lng, 'f', -1, 64))
	return "/track/" + url.PathEscape(vehicleID) + "?" + q.Encode()
}
