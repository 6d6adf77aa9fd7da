package action

import (
	"fmt"
	"strings"
	"time"
)

// FrequencyType is the cadence an action repeats on.
type FrequencyType string

const (
	FrequencyDaily   FrequencyType = "daily"
	FrequencyWeekly  FrequencyType = "weekly"
	FrequencyMonthly FrequencyType = "monthly"
	FrequencyOnce    FrequencyType = "once"
)

func (f FrequencyType) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyOnce:
		return true
	default:
		return false
	}
}

// ParseFrequencyType normalizes user input into a known frequency type.
func ParseFrequencyType(input string) (FrequencyType, error) {
	f := FrequencyType(strings.TrimSpace(strings.ToLower(input)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: frequency type %q", ErrInvalidInput, input)
	}
	return f, nil
}

// Status is the lifecycle status of an action.
type Status string

const (
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusArchived Status = "archived"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusArchived:
		return true
	default:
		return false
	}
}

// DueState classifies an action for a single date.
type DueState string

const (
	StateCompleted DueState = "completed"
	StateDue       DueState = "due"
	StateNotDue    DueState = "not_due"
)

// DefaultInterval is the only supported frequency interval.
const DefaultInterval = 1

// Action is a recurring habit with a cadence.
type Action struct {
	ID                string        `json:"id"`
	TenantID          string        `json:"tenant_id"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	FrequencyType     FrequencyType `json:"frequency_type"`
	FrequencyInterval int           `json:"frequency_interval"`
	// FrequencyDays holds Monday-first weekday indices (0=Monday … 6=Sunday).
	// Only daily actions consult it.
	FrequencyDays []int     `json:"frequency_days,omitempty"`
	Active        bool      `json:"active"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Completion marks the period identified by PeriodKey as done for an action.
type Completion struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	ActionID    string    `json:"action_id"`
	PeriodKey   string    `json:"period_key"`
	CompletedAt time.Time `json:"completed_at"`
}

// ActionState is an action paired with its due state on a date.
type ActionState struct {
	Action    Action   `json:"action"`
	Date      string   `json:"date"`
	PeriodKey string   `json:"period_key"`
	State     DueState `json:"state"`
}
