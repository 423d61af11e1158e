package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrMapUnavailable = errors.New("map unavailable: location was not resolved")
)
