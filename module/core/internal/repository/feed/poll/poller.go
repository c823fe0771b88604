// Package poll pulls live positions from an HTTP endpoint for deployments
// where vehicles are not on MQTT.
package poll

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type ingester interface {
	Ingest(ctx context.Context, vl *domain.VehicleLocation) (bool, error)
}

// Report is one element of the feed's JSON array. Timestamp is epoch ms.
type Report struct {
	VehicleID string  `json:"vehicleId" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Timestamp int64   `json:"timestamp" validate:"gt=0"`
}

type Poller struct {
	url      string
	interval time.Duration
	client   *http.Client
	ingest   ingester
	validate *validator.Validate
}

func NewPoller(url string, interval time.Duration, ing ingester) *Poller {
	return &Poller{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		ingest:   ing,
		validate: validator.New(),
	}
}

// Run polls until ctx is done. The first fetch happens immediately.
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTimer(0)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := p.Tick(ctx); err != nil {
				log.Printf("poll error: %v", err)
			} else if n > 0 {
				log.Printf("poll accepted %d positions", n)
			}
			t.Reset(p.interval)
		}
	}
}

// Tick fetches once and returns how many positions were applied.
func (p *Poller) Tick(ctx context.Context) (int, error) {
	reports, err := p.fetch(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, r := range reports {
		if err := p.validate.Struct(r); err != nil {
			log.Printf("poll: invalid report %q: %v", r.VehicleID, err)
			continue
		}
		ok, err := p.ingest.Ingest(ctx, &domain.VehicleLocation{
			VehicleID: r.VehicleID,
			Location: domain.Location{
				Lat:       r.Latitude,
				Lon:       r.Longitude,
				Timestamp: time.UnixMilli(r.Timestamp),
			},
		})
		if err != nil {
			log.Printf("poll: ingest %s: %v", r.VehicleID, err)
			continue
		}
		if ok {
			applied++
		}
	}
	return applied, nil
}

func (p *Poller) fetch(ctx context.Context) ([]Report, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", p.url, resp.StatusCode)
	}

	var reports []Report
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return reports, nil
}
