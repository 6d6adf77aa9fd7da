package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeActionCreated       ActivityType = "action_created"
	TypeActionUpdated       ActivityType = "action_updated"
	TypeActionStatusChanged ActivityType = "action_status_changed"
	TypeCompletionRecorded  ActivityType = "completion_recorded"
	TypeCompletionRemoved   ActivityType = "completion_removed"
	TypeSignalCreated       ActivityType = "signal_created"
	TypeMeasurementRecorded ActivityType = "measurement_recorded"
	TypePromptSent          ActivityType = "prompt_sent"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	ActionID     *string      `json:"action_id,omitempty"`
	SignalID     *string      `json:"signal_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
