package activity

import "errors"

// ErrInvalidInput indicates an activity entry was missing or malformed.
var ErrInvalidInput = errors.New("invalid activity input")
