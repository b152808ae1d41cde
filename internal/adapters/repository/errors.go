package repository

import "errors"

// Sentinel kinds for ranking store errors.
var (
	ErrNotFound = errors.New("rankings not found")
	ErrCorrupt  = errors.New("stored rankings could not be decoded")
	ErrStore    = errors.New("ranking store failed")
)
