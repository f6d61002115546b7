package smoketest

import "errors"

// Sentinel kinds for smoke failures.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMismatch         = errors.New("response does not match")
)
