package types

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidConfig    = errors.New("invalid search config")
	ErrSessionNotFound  = errors.New("roulette session not found")
	ErrSearchSuperseded = errors.New("search superseded by a newer search")
	ErrInvalidShareLink = errors.New("invalid share link")

	// Geolocation acquisition failures. They abort a search before any provider call.
	ErrLocationPermissionDenied = errors.New("location permission denied")
	ErrLocationUnavailable      = errors.New("location unavailable")
	ErrLocationUnsupported      = errors.New("geolocation unsupported")
	ErrLocationTimeout          = errors.New("location request timed out")
)
