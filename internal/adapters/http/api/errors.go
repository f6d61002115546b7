package api

import "errors"

// ErrPanic marks a recovered handler panic in the logs.
var ErrPanic = errors.New("handler panicked")
