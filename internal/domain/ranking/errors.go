package ranking

import "errors"

var (
	// ErrUnknownView is returned when a view name is not recognised.
	ErrUnknownView = errors.New("ranking: unknown view")
	// ErrUserNotRanked is returned when a user has no overall position.
	ErrUserNotRanked = errors.New("ranking: user not ranked")
)
