package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/signal"
)

// ErrInvalidDate indicates a date argument that is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// it does not recognize.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, action.ErrActionNotFound):
		return &APIError{Code: "ACTION_NOT_FOUND", Message: "action not found", RecoveryHint: "Check the id with list_actions"}
	case errors.Is(err, action.ErrAlreadyCompleted):
		return &APIError{Code: "ALREADY_COMPLETED", Message: "action already completed for this period", RecoveryHint: "Use undo_completion to reopen the period"}
	case errors.Is(err, action.ErrCompletionNotFound):
		return &APIError{Code: "COMPLETION_NOT_FOUND", Message: "no completion for this period"}
	case errors.Is(err, action.ErrUnsupportedInterval):
		return &APIError{Code: "UNSUPPORTED_INTERVAL", Message: "only a frequency interval of 1 is supported", RecoveryHint: "Omit frequency_interval"}
	case errors.Is(err, action.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, signal.ErrSignalNotFound):
		return &APIError{Code: "SIGNAL_NOT_FOUND", Message: "signal not found", RecoveryHint: "Check the id with list_signals"}
	case errors.Is(err, signal.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, ErrInvalidDate):
		return &APIError{Code: "INVALID_DATE", Message: err.Error(), RecoveryHint: "Use YYYY-MM-DD"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
