package tracking

import (
	"time"

	"github.com/FireFighterProject/fire-dispatch/module/core/geo"
)

const (
	MinSampleGap    = time.Second
	MaxPlausibleKmh = 200.0
	MovingKmh       = 5.0
	FallbackKmh     = 40.0
)

// SpeedEstimator derives speed from consecutive fixes. Samples closer than
// MinSampleGap to the previous one are dropped entirely. Samples implying
// MaxPlausibleKmh or more move the reference point but leave the displayed
// speed unchanged.
type SpeedEstimator struct {
	prev *Fix
	kmh  float64
}

// Observe feeds a fix and returns the current speed in km/h.
func (e *SpeedEstimator) Observe(f Fix) float64 {
	if e.prev == nil {
		e.prev = &f
		return e.kmh
	}

	dt := f.Timestamp.Sub(e.prev.Timestamp)
	if dt < MinSampleGap {
		return e.kmh
	}

	kmh := geo.Distance(e.prev.Point, f.Point) / dt.Seconds() * 3.6
	e.prev = &f
	if kmh >= MaxPlausibleKmh {
		return e.kmh
	}
	e.kmh = kmh
	return e.kmh
}

func (e *SpeedEstimator) Kmh() float64 {
	return e.kmh
}

// EffectiveKmh is the speed used for arrival estimates.
func EffectiveKmh(kmh float64) float64 {
	if kmh > MovingKmh {
		return kmh
	}
	return FallbackKmh
}

// ETA estimates the remaining travel time at the effective speed.
func ETA(remainingMeters, kmh float64) time.Duration {
	mps := EffectiveKmh(kmh) / 3.6
	return time.Duration(remainingMeters / mps * float64(time.Second))
}
