package smoke

import "errors"

// Sentinel kinds for smoke failures.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrNoEvents     = errors.New("no cleanup events listed")
	ErrVerification = errors.New("verification failed")
)
