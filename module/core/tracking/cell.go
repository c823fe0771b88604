package tracking

import (
	"sync/atomic"
	"time"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

// Fix is one device position sample.
type Fix struct {
	Point     domain.LatLng
	Timestamp time.Time
}

// LatestCell holds the most recent fix. Writers replace, readers take
// whatever is there at the time; missed samples are not queued.
type LatestCell struct {
	p atomic.Pointer[Fix]
}

func (c *LatestCell) Store(f Fix) {
	c.p.Store(&f)
}

func (c *LatestCell) Load() (Fix, bool) {
	f := c.p.Load()
	if f == nil {
		return Fix{}, false
	}
	return *f, true
}
