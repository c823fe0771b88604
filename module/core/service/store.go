package service

import (
	"sort"
	"sync"
	"time"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type storeEntry struct {
	vehicle     *domain.Vehicle
	point       domain.LatLng
	timestamp   time.Time
	hasPosition bool
}

// MaxUnregistered bounds how many ids without a registry entry the store
// holds positions for.
const MaxUnregistered = 1024

// PositionStore keeps the latest known position and status of every vehicle.
// Positions for ids that are not registered yet are held until the vehicle
// shows up in the registry, up to maxUnregistered of them.
type PositionStore struct {
	mu              sync.RWMutex
	entries         map[string]*storeEntry
	version         uint64
	unregistered    int
	maxUnregistered int
}

func NewPositionStore() *PositionStore {
	return &PositionStore{
		entries:         make(map[string]*storeEntry),
		maxUnregistered: MaxUnregistered,
	}
}

// UpsertPosition applies the position only when timestamp is strictly newer
// than the stored one. It reports whether the update was applied. A new
// unregistered id is refused once the unregistered limit is reached.
func (s *PositionStore) UpsertPosition(vehicleID string, lat, lng float64, timestamp time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[vehicleID]
	if !ok {
		if s.unregistered >= s.maxUnregistered {
			return false
		}
		e = &storeEntry{}
		s.entries[vehicleID] = e
		s.unregistered++
	}
	if e.hasPosition && !timestamp.After(e.timestamp) {
		return false
	}

	e.point = domain.LatLng{Lat: lat, Lng: lng}
	e.timestamp = timestamp
	e.hasPosition = true
	s.version++
	return true
}

// Register replaces the registry fields of each vehicle. Known positions are
// kept, including ones that arrived before the vehicle was registered.
func (s *PositionStore) Register(vehicles []domain.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range vehicles {
		v := v
		v.Position = domain.Unlocated{}
		e, ok := s.entries[v.ID]
		if !ok {
			e = &storeEntry{}
			s.entries[v.ID] = e
		} else if e.vehicle == nil {
			s.unregistered--
		}
		e.vehicle = &v
	}
	s.version++
}

func (s *PositionStore) SetStatus(vehicleID string, status domain.Status) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[vehicleID]
	if !ok || e.vehicle == nil {
		return domain.ErrVehicleNotFound
	}
	e.vehicle.Status = status
	s.version++
	return nil
}

func (s *PositionStore) SetRally(vehicleID string, rally bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[vehicleID]
	if !ok || e.vehicle == nil {
		return domain.ErrVehicleNotFound
	}
	e.vehicle.RallyPoint = rally
	s.version++
	return nil
}

// Get returns a copy of a registered vehicle.
func (s *PositionStore) Get(vehicleID string) (domain.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[vehicleID]
	if !ok || e.vehicle == nil {
		return domain.Vehicle{}, false
	}
	return e.materialize(), true
}

// LatestPosition works for registered and unregistered ids alike.
func (s *PositionStore) LatestPosition(vehicleID string) (domain.Located, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[vehicleID]
	if !ok || !e.hasPosition {
		return domain.Located{}, false
	}
	return domain.Located{Point: e.point, Timestamp: e.timestamp}, true
}

// Snapshot copies every registered vehicle, sorted by id. Later upserts are
// never visible in a snapshot already taken.
func (s *PositionStore) Snapshot() []domain.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Vehicle, 0, len(s.entries))
	for _, e := range s.entries {
		if e.vehicle == nil {
			continue
		}
		out = append(out, e.materialize())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Version changes whenever the store is mutated.
func (s *PositionStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (e *storeEntry) materialize() domain.Vehicle {
	v := *e.vehicle
	if e.hasPosition {
		v.Position = domain.Located{Point: e.point, Timestamp: e.timestamp}
	} else {
		v.Position = domain.Unlocated{}
	}
	return v
}
