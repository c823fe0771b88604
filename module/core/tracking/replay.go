package tracking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

// Route is a recorded drive used in place of device GPS.
//
//	interval: 2s
//	points:
//	  - {lat: 37.5704, lng: 126.9921}
//	  - {lat: 37.5711, lng: 126.9935}
type Route struct {
	Interval time.Duration   `yaml:"interval"`
	Points   []domain.LatLng `yaml:"points"`
}

func LoadRoute(path string) (*Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route: %w", err)
	}
	return ParseRoute(data)
}

func ParseRoute(data []byte) (*Route, error) {
	var r Route
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse route: %w", err)
	}
	if len(r.Points) == 0 {
		return nil, errors.New("route has no points")
	}
	if r.Interval <= 0 {
		r.Interval = time.Second
	}
	return &r, nil
}

// RouteReplay plays a Route back as a Geolocator. The first point answers
// CurrentPosition; Watch emits the rest one interval apart and then closes.
type RouteReplay struct {
	route *Route
	now   func() time.Time
}

func NewRouteReplay(route *Route) *RouteReplay {
	return &RouteReplay{route: route, now: time.Now}
}

func (r *RouteReplay) CurrentPosition(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	return Fix{Point: r.route.Points[0], Timestamp: r.now()}, nil
}

func (r *RouteReplay) Watch(ctx context.Context) (<-chan Fix, <-chan error) {
	fixes := make(chan Fix)
	errs := make(chan error)

	go func() {
		defer close(fixes)
		defer close(errs)

		t := time.NewTicker(r.route.Interval)
		defer t.Stop()

		for _, p := range r.route.Points[1:] {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			select {
			case <-ctx.Done():
				return
			case fixes <- Fix{Point: p, Timestamp: r.now()}:
			}
		}
	}()

	return fixes, errs
}
