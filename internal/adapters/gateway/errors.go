package gateway

import "errors"

var (
	// ErrUnavailable wraps backend read failures.
	ErrUnavailable = errors.New("gateway: backend unavailable")
	// ErrInvalidSnapshot is returned when a snapshot file cannot be decoded.
	ErrInvalidSnapshot = errors.New("gateway: invalid snapshot")
	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("gateway: closed")
)
