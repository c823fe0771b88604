package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/cache"
)

var _ cache.PositionCache = (*PositionCache)(nil)

type client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
}

type cachedPosition struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// PositionCache keeps each vehicle's latest accepted position so a restarted
// server can seed its store.
type PositionCache struct {
	rdb client
	ttl time.Duration
}

func NewPositionCache(rdb *goredis.Client, ttl time.Duration) *PositionCache {
	return &PositionCache{rdb: rdb, ttl: ttl}
}

func positionKey(vehicleID string) string {
	return fmt.Sprintf("vehicle:%s:position", vehicleID)
}

func (c *PositionCache) SetLatest(ctx context.Context, vl *domain.VehicleLocation) error {
	b, err := json.Marshal(cachedPosition{
		Latitude:  vl.Location.Lat,
		Longitude: vl.Location.Lon,
		Timestamp: vl.Location.Timestamp.UnixMilli(),
	})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, positionKey(vl.VehicleID), b, c.ttl).Err()
}

// GetLatest returns nil without error on a cache miss.
func (c *PositionCache) GetLatest(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error) {
	raw, err := c.rdb.Get(ctx, positionKey(vehicleID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p cachedPosition
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode cached position %s: %w", vehicleID, err)
	}
	return &domain.VehicleLocation{
		VehicleID: vehicleID,
		Location: domain.Location{
			Lat:       p.Latitude,
			Lon:       p.Longitude,
			Timestamp: time.UnixMilli(p.Timestamp),
		},
	}, nil
}
