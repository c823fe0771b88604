// Package geo holds the pure geometry helpers used by the boundary index,
// the region aggregator and the tracking session.
package geo

import (
	"math"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

const EarthRadiusMeters = 6371000

// PointInPolygon reports whether (lat, lng) is inside ring using ray casting.
// Rings with fewer than three vertices contain nothing.
func PointInPolygon(lat, lng float64, ring domain.Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, xi := ring[i].Lat, ring[i].Lng
		yj, xj := ring[j].Lat, ring[j].Lng
		if (yi > lat) != (yj > lat) && lng < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PointInRings treats every ring as additive.
func PointInRings(lat, lng float64, rings []domain.Ring) bool {
	for _, r := range rings {
		if PointInPolygon(lat, lng, r) {
			return true
		}
	}
	return false
}

// RectContains reports whether p lies in the closed rectangle spanned by two
// opposite corners given in any order.
func RectContains(c1, c2, p domain.LatLng) bool {
	minLat, maxLat := math.Min(c1.Lat, c2.Lat), math.Max(c1.Lat, c2.Lat)
	minLng, maxLng := math.Min(c1.Lng, c2.Lng), math.Max(c1.Lng, c2.Lng)
	return p.Lat >= minLat && p.Lat <= maxLat && p.Lng >= minLng && p.Lng <= maxLng
}

func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := ToRad(lat2 - lat1)
	dLon := ToRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(ToRad(lat1))*math.Cos(ToRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push a just past 1 near antipodal points
	a = math.Max(0, math.Min(1, a))
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Distance is HaversineMeters over two points.
func Distance(a, b domain.LatLng) float64 {
	return HaversineMeters(a.Lat, a.Lng, b.Lat, b.Lng)
}

func ToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func ToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
