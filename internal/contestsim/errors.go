package contestsim

import "errors"

// Sentinel kinds for simulator errors.
var (
	ErrInvalidConfig = errors.New("invalid simulator config")
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrMismatch      = errors.New("rankings mismatch")
)
