package domain

// Ring is a closed sequence of vertices. The closing vertex may or may not be
// repeated.
type Ring []LatLng

type Tier string

const (
	TierDistrict Tier = "district"
	TierProvince Tier = "province"
)

// BoundaryPolygon is a named administrative region made of one or more rings.
// Rings are a union: a point inside any ring is inside the polygon.
type BoundaryPolygon struct {
	Name  string
	Tier  Tier
	Rings []Ring
}

type RegionEventType string

const (
	RegionEntry RegionEventType = "region_entry"
	RegionExit  RegionEventType = "region_exit"
)

type RegionAlert struct {
	VehicleID string          `json:"vehicle_id"`
	Event     RegionEventType `json:"event"`
	Region    string          `json:"region"`
	Location  Location        `json:"location"`
	Timestamp int64           `json:"timestamp"`
}
