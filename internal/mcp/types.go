package mcp

import (
	"time"

	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/signal"
)

// Tool inputs.

type PeriodKeyParams struct {
	FrequencyType string `json:"frequency_type" jsonschema:"daily, weekly, monthly or once; anything else uses the daily scheme"`
	Date          string `json:"date,omitempty" jsonschema:"YYYY-MM-DD, defaults to today"`
}

type CreateActionParams struct {
	ID                string `json:"id,omitempty" jsonschema:"optional action id, generated when omitted"`
	Name              string `json:"name" jsonschema:"action display name"`
	Description       string `json:"description,omitempty"`
	FrequencyType     string `json:"frequency_type" jsonschema:"daily, weekly, monthly or once"`
	FrequencyInterval int    `json:"frequency_interval,omitempty" jsonschema:"reserved, only 1 is supported"`
	FrequencyDays     []int  `json:"frequency_days,omitempty" jsonschema:"weekday indices 0=Monday to 6=Sunday; restricts daily actions only"`
}

type ListActionsParams struct {
	Statuses []string `json:"statuses,omitempty" jsonschema:"filter by status: active, paused, archived"`
	Limit    int      `json:"limit,omitempty"`
	Offset   int      `json:"offset,omitempty"`
}

type ActionIDParams struct {
	ID string `json:"id" jsonschema:"action id"`
}

type UpdateActionParams struct {
	ID            string  `json:"id" jsonschema:"action id"`
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	FrequencyDays *[]int  `json:"frequency_days,omitempty" jsonschema:"replacement weekday set; an empty list clears the filter"`
}

type SetActionStatusParams struct {
	ID     string `json:"id" jsonschema:"action id"`
	Status string `json:"status" jsonschema:"active, paused or archived"`
}

type ActionDateParams struct {
	ID   string `json:"id" jsonschema:"action id"`
	Date string `json:"date,omitempty" jsonschema:"YYYY-MM-DD, defaults to today"`
}

type DateParams struct {
	Date string `json:"date,omitempty" jsonschema:"YYYY-MM-DD, defaults to today"`
}

type ListCompletionsParams struct {
	ID    string `json:"id" jsonschema:"action id"`
	Limit int    `json:"limit,omitempty"`
}

type CreateSignalParams struct {
	ID        string `json:"id,omitempty" jsonschema:"optional signal id, generated when omitted"`
	Name      string `json:"name" jsonschema:"signal display name"`
	Unit      string `json:"unit,omitempty" jsonschema:"unit of measurement, e.g. kg"`
	Frequency string `json:"frequency" jsonschema:"daily, 2-3_weekly or weekly"`
}

type RecordMeasurementParams struct {
	SignalID string  `json:"signal_id"`
	Value    float64 `json:"value"`
}

type SignalDateParams struct {
	SignalID string `json:"signal_id"`
	Date     string `json:"date,omitempty" jsonschema:"YYYY-MM-DD, defaults to today"`
}

type ListMeasurementsParams struct {
	SignalID string `json:"signal_id"`
	Limit    int    `json:"limit,omitempty"`
}

type GetRecentActivityParams struct {
	ActionID string `json:"action_id,omitempty"`
	SignalID string `json:"signal_id,omitempty"`
	Type     string `json:"type,omitempty" jsonschema:"activity type filter, e.g. completion_recorded"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

type NoParams struct{}

// Tool outputs. Timestamps are RFC 3339 strings in the server location.

type PeriodKeyResponse struct {
	Date          string `json:"date"`
	FrequencyType string `json:"frequency_type"`
	PeriodKey     string `json:"period_key"`
}

type ActionResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	FrequencyType     string `json:"frequency_type"`
	FrequencyInterval int    `json:"frequency_interval"`
	FrequencyDays     []int  `json:"frequency_days,omitempty"`
	Active            bool   `json:"active"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type ActionListResponse struct {
	Actions []ActionResponse `json:"actions"`
}

type ActionStateResponse struct {
	Action    ActionResponse `json:"action"`
	Date      string         `json:"date"`
	PeriodKey string         `json:"period_key"`
	State     string         `json:"state"`
}

type TodayResponse struct {
	Date      string                `json:"date"`
	Due       int                   `json:"due"`
	Completed int                   `json:"completed"`
	NotDue    int                   `json:"not_due"`
	Actions   []ActionStateResponse `json:"actions"`
}

type CompletionResponse struct {
	ID          string `json:"id"`
	ActionID    string `json:"action_id"`
	PeriodKey   string `json:"period_key"`
	CompletedAt string `json:"completed_at"`
}

type CompletionListResponse struct {
	Completions []CompletionResponse `json:"completions"`
}

type UndoCompletionResponse struct {
	ActionID  string `json:"action_id"`
	PeriodKey string `json:"period_key"`
	Removed   bool   `json:"removed"`
}

type SignalResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Unit           string `json:"unit,omitempty"`
	Frequency      string `json:"frequency"`
	LastMeasuredAt string `json:"last_measured_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type SignalListResponse struct {
	Signals []SignalResponse `json:"signals"`
}

type MeasurementResponse struct {
	ID         string  `json:"id"`
	SignalID   string  `json:"signal_id"`
	Value      float64 `json:"value"`
	MeasuredAt string  `json:"measured_at"`
}

type MeasurementListResponse struct {
	Measurements []MeasurementResponse `json:"measurements"`
}

type SignalStatusResponse struct {
	Signal        SignalResponse `json:"signal"`
	Date          string         `json:"date"`
	ShouldMeasure bool           `json:"should_measure"`
	DaysSinceLast *int           `json:"days_since_last,omitempty"`
}

type SignalsDueResponse struct {
	Date    string                 `json:"date"`
	Signals []SignalStatusResponse `json:"signals"`
}

type ActivityEntryResponse struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	ActionID  string `json:"action_id,omitempty"`
	SignalID  string `json:"signal_id,omitempty"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
}

type ActivityListResponse struct {
	Entries []ActivityEntryResponse `json:"entries"`
}

// Conversions.

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}

func toActionResponse(a action.Action, loc *time.Location) ActionResponse {
	return ActionResponse{
		ID:                a.ID,
		Name:              a.Name,
		Description:       a.Description,
		FrequencyType:     string(a.FrequencyType),
		FrequencyInterval: a.FrequencyInterval,
		FrequencyDays:     a.FrequencyDays,
		Active:            a.Active,
		Status:            string(a.Status),
		CreatedAt:         formatTime(a.CreatedAt, loc),
		UpdatedAt:         formatTime(a.UpdatedAt, loc),
	}
}

func toActionStateResponse(st action.ActionState, loc *time.Location) ActionStateResponse {
	return ActionStateResponse{
		Action:    toActionResponse(st.Action, loc),
		Date:      st.Date,
		PeriodKey: st.PeriodKey,
		State:     string(st.State),
	}
}

func toCompletionResponse(c action.Completion, loc *time.Location) CompletionResponse {
	return CompletionResponse{
		ID:          c.ID,
		ActionID:    c.ActionID,
		PeriodKey:   c.PeriodKey,
		CompletedAt: formatTime(c.CompletedAt, loc),
	}
}

func toSignalResponse(sig signal.Signal, loc *time.Location) SignalResponse {
	resp := SignalResponse{
		ID:        sig.ID,
		Name:      sig.Name,
		Unit:      sig.Unit,
		Frequency: string(sig.Frequency),
		CreatedAt: formatTime(sig.CreatedAt, loc),
	}
	if sig.LastMeasuredAt != nil {
		resp.LastMeasuredAt = formatTime(*sig.LastMeasuredAt, loc)
	}
	return resp
}

func toSignalStatusResponse(st signal.Status, loc *time.Location) SignalStatusResponse {
	return SignalStatusResponse{
		Signal:        toSignalResponse(st.Signal, loc),
		Date:          st.Date,
		ShouldMeasure: st.ShouldMeasure,
		DaysSinceLast: st.DaysSinceLast,
	}
}

func toMeasurementResponse(m signal.Measurement, loc *time.Location) MeasurementResponse {
	return MeasurementResponse{
		ID:         m.ID,
		SignalID:   m.SignalID,
		Value:      m.Value,
		MeasuredAt: formatTime(m.MeasuredAt, loc),
	}
}

func toActivityEntryResponse(entry activity.ActivityEntry, loc *time.Location) ActivityEntryResponse {
	return ActivityEntryResponse{
		Timestamp: formatTime(entry.CreatedAt, loc),
		Type:      string(entry.ActivityType),
		ActionID:  stringValue(entry.ActionID),
		SignalID:  stringValue(entry.SignalID),
		Summary:   entry.Summary,
		Details:   entry.Details,
	}
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
