package signal

import "errors"

var (
	// ErrSignalNotFound indicates the signal doesn't exist.
	ErrSignalNotFound = errors.New("signal not found")
	// ErrInvalidInput indicates invalid signal input.
	ErrInvalidInput = errors.New("invalid signal input")
)
