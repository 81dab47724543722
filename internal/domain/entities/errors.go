package entities

import "errors"

// Location resolution errors. Geocoder and device failures are wrapped with
// context by the layer that produces them; callers compare with errors.Is.
var (
	ErrInvalidFormat    = errors.New("invalid address format")
	ErrNotFound         = errors.New("address not found")
	ErrTimeout          = errors.New("location lookup timed out")
	ErrServiceError     = errors.New("geocoding service error")
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("device location unavailable")
	ErrSuperseded       = errors.New("location request superseded by a newer one")
)
