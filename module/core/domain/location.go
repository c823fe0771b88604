package domain

import "time"

// LatLng is a WGS84 coordinate in latitude/longitude order. All internal
// computation uses this order; GeoJSON's lon/lat order is converted at load.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Location struct {
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

func (l Location) Point() LatLng {
	return LatLng{Lat: l.Lat, Lng: l.Lon}
}

type VehicleLocation struct {
	VehicleID string   `json:"vehicle_id"`
	Location  Location `json:"location"`
}

type HistoryQuery struct {
	VehicleID string
	Start     time.Time
	End       time.Time
}

// PositionReport is what a crew device sends to POST /gps/send.
type PositionReport struct {
	VehicleID string  `json:"vehicleId" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}
