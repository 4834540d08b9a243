package events

import "errors"

// Sentinel kinds for event list errors.
var (
	ErrDecode      = errors.New("event list decode failed")
	ErrUnknownSort = errors.New("unknown sort field")
)
