package action

import "errors"

var (
	// ErrActionNotFound indicates the action doesn't exist.
	ErrActionNotFound = errors.New("action not found")
	// ErrAlreadyCompleted indicates the current period already has a completion.
	ErrAlreadyCompleted = errors.New("action already completed for this period")
	// ErrCompletionNotFound indicates there is no completion to remove.
	ErrCompletionNotFound = errors.New("completion not found")
	// ErrUnsupportedInterval indicates a frequency interval other than 1.
	ErrUnsupportedInterval = errors.New("only a frequency interval of 1 is supported")
	// ErrInvalidInput indicates invalid action input.
	ErrInvalidInput = errors.New("invalid action input")
)
