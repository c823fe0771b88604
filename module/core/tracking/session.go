// Package tracking runs a crew's live position sharing: a one-shot fix,
// explicit acknowledgement, then a periodic push fed by a continuous watch.
package tracking

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/geo"
)

const DefaultPushInterval = 5 * time.Second

type State int

const (
	Idle State = iota
	Acquiring
	AwaitingAck
	Active
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Acquiring:
		return "acquiring"
	case AwaitingAck:
		return "awaiting_ack"
	case Active:
		return "active"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Geolocator is the device's position source.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (Fix, error)
	// Watch streams fixes until ctx is done.
	Watch(ctx context.Context) (<-chan Fix, <-chan error)
}

type Pusher interface {
	Push(ctx context.Context, report domain.PositionReport) error
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

type Config struct {
	VehicleID    string
	Target       *domain.LatLng
	PushInterval time.Duration
}

// Status is a point-in-time view of the session for display.
type Status struct {
	ID              string
	State           State
	Position        *Fix
	SpeedKmh        float64
	RemainingMeters float64
	ETA             time.Duration
	LastError       error
	Pushes          int
	PushFailures    int
}

type Session struct {
	id        string
	vehicleID string
	target    *domain.LatLng
	interval  time.Duration
	geo       Geolocator
	pusher    Pusher
	newTicker func(time.Duration) Ticker

	latest LatestCell

	mu        sync.Mutex
	state     State
	speed     SpeedEstimator
	remaining float64
	eta       time.Duration
	lastErr   error
	pushes    int
	failures  int
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	// pushMu is held for the whole of a push so End can wait out one in flight.
	pushMu sync.Mutex
}

func NewSession(cfg Config, g Geolocator, p Pusher) *Session {
	interval := cfg.PushInterval
	if interval <= 0 {
		interval = DefaultPushInterval
	}
	return &Session{
		id:        uuid.NewString(),
		vehicleID: cfg.VehicleID,
		target:    cfg.Target,
		interval:  interval,
		geo:       g,
		pusher:    p,
		newTicker: newTimeTicker,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Start requests a one-shot fix. On failure the session stays in Acquiring
// and Start may be called again.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Idle && s.state != Acquiring {
		s.mu.Unlock()
		return fmt.Errorf("start from %s: %w", s.state, domain.ErrInvalidTransition)
	}
	s.state = Acquiring
	s.mu.Unlock()

	fix, err := s.geo.CurrentPosition(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Acquiring {
		return fmt.Errorf("start interrupted by %s: %w", s.state, domain.ErrInvalidTransition)
	}
	if err != nil {
		s.lastErr = fmt.Errorf("%w: %v", domain.ErrGeolocationUnavailable, err)
		return s.lastErr
	}

	s.latest.Store(fix)
	s.updateLocked(fix)
	s.lastErr = nil
	s.state = AwaitingAck
	return nil
}

// Acknowledge is the crew confirming departure. It pushes once right away,
// then every push interval, and keeps the position fresh from the watch.
func (s *Session) Acknowledge(ctx context.Context) error {
	s.mu.Lock()
	if s.state != AwaitingAck {
		s.mu.Unlock()
		return fmt.Errorf("acknowledge from %s: %w", s.state, domain.ErrInvalidTransition)
	}
	if _, ok := s.latest.Load(); !ok {
		s.lastErr = domain.ErrPositionNotAvailable
		s.mu.Unlock()
		return domain.ErrPositionNotAvailable
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = Active
	s.wg.Add(2)
	s.mu.Unlock()

	s.push(runCtx)

	go s.pushLoop(runCtx)
	go s.watchLoop(runCtx)
	return nil
}

// End stops sharing. It must be confirmed. Once End returns no further push
// is sent, including one already due on the current tick.
func (s *Session) End(confirmed bool) error {
	if !confirmed {
		return domain.ErrEndNotConfirmed
	}

	s.mu.Lock()
	if s.state == Ended {
		s.mu.Unlock()
		return fmt.Errorf("end from %s: %w", s.state, domain.ErrInvalidTransition)
	}
	s.state = Ended
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	// A push already past its state check finishes before we return.
	s.pushMu.Lock()
	s.pushMu.Unlock()
	s.wg.Wait()
	return nil
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		ID:              s.id,
		State:           s.state,
		SpeedKmh:        s.speed.Kmh(),
		RemainingMeters: s.remaining,
		ETA:             s.eta,
		LastError:       s.lastErr,
		Pushes:          s.pushes,
		PushFailures:    s.failures,
	}
	if f, ok := s.latest.Load(); ok {
		st.Position = &f
	}
	return st
}

func (s *Session) pushLoop(ctx context.Context) {
	defer s.wg.Done()

	t := s.newTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			s.push(ctx)
		}
	}
}

func (s *Session) watchLoop(ctx context.Context) {
	defer s.wg.Done()

	fixes, errs := s.geo.Watch(ctx)
	for fixes != nil || errs != nil {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-fixes:
			if !ok {
				fixes = nil
				continue
			}
			s.observe(f)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Printf("tracking %s: watch error: %v", s.vehicleID, err)
			s.mu.Lock()
			s.lastErr = fmt.Errorf("%w: %v", domain.ErrGeolocationUnavailable, err)
			s.mu.Unlock()
		}
	}
}

// push sends the latest fix. Failures are logged and counted only; the next
// tick tries again.
func (s *Session) push(ctx context.Context) {
	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	s.mu.Lock()
	active := s.state == Active
	s.mu.Unlock()
	if !active {
		return
	}

	fix, ok := s.latest.Load()
	if !ok {
		return
	}

	err := s.pusher.Push(ctx, domain.PositionReport{
		VehicleID: s.vehicleID,
		Latitude:  fix.Point.Lat,
		Longitude: fix.Point.Lng,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failures++
		log.Printf("tracking %s: push failed: %v", s.vehicleID, err)
		return
	}
	s.pushes++
}

func (s *Session) observe(f Fix) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Active {
		return
	}
	s.latest.Store(f)
	s.updateLocked(f)
	s.lastErr = nil
}

func (s *Session) updateLocked(f Fix) {
	kmh := s.speed.Observe(f)
	if s.target == nil {
		return
	}
	s.remaining = geo.Distance(f.Point, *s.target)
	s.eta = ETA(s.remaining, kmh)
}
