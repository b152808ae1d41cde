package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoGateway    = errors.New("no data gateway configured")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidLimit = errors.New("invalid ranking limit")
)
