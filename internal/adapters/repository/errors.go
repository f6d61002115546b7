package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("food item not found")
	ErrUnavailable   = errors.New("store unavailable")
	ErrUnknownDriver = errors.New("unknown store driver")
)
