package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound          = errors.New("match not found")
	ErrInvalidStage      = errors.New("invalid stage")
	ErrInvalidIdentifier = errors.New("invalid table identifier")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrQuery             = errors.New("store query failed")
)
