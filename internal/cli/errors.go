package cli

import "errors"

// Sentinel kinds for CLI errors.
var (
	ErrInvalidFlag = errors.New("invalid flag")
)
