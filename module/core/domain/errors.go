package domain

import "errors"

var (
	ErrGeolocationUnavailable = errors.New("GPS 권한이 필요합니다")
	ErrGeocodingFailed        = errors.New("geocoding failed")
	ErrNetworkPushFailed      = errors.New("position push failed")
	ErrMalformedBoundary      = errors.New("malformed boundary data")
	ErrPositionNotAvailable   = errors.New("position not yet available")
	ErrEndNotConfirmed        = errors.New("end of sharing not confirmed")
	ErrInvalidTransition      = errors.New("invalid session transition")
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrInvalidStatus          = errors.New("invalid vehicle status")
	ErrDuplicateVehicle       = errors.New("duplicate vehicle id")
)
