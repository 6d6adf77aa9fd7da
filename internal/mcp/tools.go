package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/signal"
)

var errNoTenant = errors.New("unauthorized: no tenant in context")

type tools struct {
	svc Services
	loc *time.Location
	now func() time.Time
}

func (t *tools) register(server *sdkmcp.Server) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "period_key",
		Description: "Compute the period key a date falls into for a frequency type.",
	}, t.periodKey)

	// Actions
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_action",
		Description: "Create a recurring action. frequency_days restricts daily actions to weekdays (0=Monday).",
	}, t.createAction)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_actions",
		Description: "List actions, optionally filtered by status.",
	}, t.listActions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_action",
		Description: "Get one action by id.",
	}, t.getAction)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_action",
		Description: "Update an action's name, description or weekday filter.",
	}, t.updateAction)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_action_status",
		Description: "Set an action's status to active, paused or archived.",
	}, t.setActionStatus)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_action_state",
		Description: "Classify an action as completed, due or not_due on a date.",
	}, t.getActionState)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_today",
		Description: "Evaluate every non-archived action for a date, with counts per state.",
	}, t.getToday)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "complete_action",
		Description: "Record a completion for the period containing the date. Fails if the period is already completed.",
	}, t.completeAction)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "undo_completion",
		Description: "Remove the completion for the period containing the date.",
	}, t.undoCompletion)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_completions",
		Description: "List an action's completions, newest first.",
	}, t.listCompletions)

	// Signals
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_signal",
		Description: "Create a signal measured on its own cadence (daily, 2-3_weekly, weekly).",
	}, t.createSignal)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_signals",
		Description: "List signals.",
	}, t.listSignals)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "record_measurement",
		Description: "Record a value for a signal now.",
	}, t.recordMeasurement)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_measurements",
		Description: "List a signal's measurements, newest first.",
	}, t.listMeasurements)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "should_measure",
		Description: "Decide whether a signal should be measured on a date.",
	}, t.shouldMeasure)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "signals_due",
		Description: "List the signals that should be measured on a date.",
	}, t.signalsDue)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "Browse the activity log, newest first.",
	}, t.getRecentActivity)
}

// date parses a YYYY-MM-DD argument in the server location. Empty means now.
func (t *tools) date(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return t.now().In(t.loc), nil
	}
	d, err := time.ParseInLocation(action.DateLayout, s, t.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

func tenant(ctx context.Context) (string, error) {
	tenantID := getTenantID(ctx)
	if tenantID == "" {
		return "", errNoTenant
	}
	return tenantID, nil
}

func (t *tools) periodKey(ctx context.Context, _ *sdkmcp.CallToolRequest, in PeriodKeyParams) (*sdkmcp.CallToolResult, PeriodKeyResponse, error) {
	d, err := t.date(in.Date)
	if err != nil {
		return nil, PeriodKeyResponse{}, mapError(err)
	}
	freq := action.FrequencyType(strings.ToLower(strings.TrimSpace(in.FrequencyType)))
	return nil, PeriodKeyResponse{
		Date:          d.Format(action.DateLayout),
		FrequencyType: string(freq),
		PeriodKey:     action.PeriodKey(d, freq),
	}, nil
}

func (t *tools) createAction(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateActionParams) (*sdkmcp.CallToolResult, ActionResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, ActionResponse{}, err
	}
	a, err := t.svc.Actions.Create(ctx, tenantID, action.CreateRequest{
		ID:                in.ID,
		Name:              in.Name,
		Description:       in.Description,
		FrequencyType:     in.FrequencyType,
		FrequencyInterval: in.FrequencyInterval,
		FrequencyDays:     in.FrequencyDays,
	})
	if err != nil {
		return nil, ActionResponse{}, mapError(err)
	}
	return nil, toActionResponse(*a, t.loc), nil
}

func (t *tools) listActions(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListActionsParams) (*sdkmcp.CallToolResult, ActionListResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, ActionListResponse{}, err
	}
	opts := action.ListActionsOptions{Limit: in.Limit, Offset: in.Offset}
	for _, st := range in.Statuses {
		opts.Statuses = append(opts.Statuses, action.Status(strings.ToLower(strings.TrimSpace(st))))
	}
	actions, err := t.svc.Actions.List(ctx, tenantID, opts)
	if err != nil {
		return nil, ActionListResponse{}, mapError(err)
	}
	resp := ActionListResponse{Actions: make([]ActionResponse, 0, len(actions))}
	for _, a := range actions {
		resp.Actions = append(resp.Actions, toActionResponse(a, t.loc))
	}
	return nil, resp, nil
}

func (t *tools) getAction(ctx context.Context, _ *sdkmcp.CallToolRequest, in ActionIDParams) (*sdkmcp.CallToolResult, ActionResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, ActionResponse{}, err
	}
	a, err := t.svc.Actions.Get(ctx, tenantID, in.ID)
	if err != nil {
		return nil, ActionResponse{}, mapError(err)
	}
	return nil, toActionResponse(*a, t.loc), nil
}

func (t *tools) updateAction(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateActionParams) (*sdkmcp.CallToolResult, ActionResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, ActionResponse{}, err
	}
	a, err := t.svc.Actions.Update(ctx, tenantID, action.UpdateRequest{
		ID:            in.ID,
		Name:          in.Name,
		Description:   in.Description,
		FrequencyDays: in.FrequencyDays,
	})
	if err != nil {
		return nil, ActionResponse{}, mapError(err)
	}
	return nil, toActionResponse(*a, t.loc), nil
}

func (t *tools) setActionStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetActionStatusParams) (*sdkmcp.CallToolResult, ActionResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, ActionResponse{}, err
	}
	status := action.Status(strings.ToLower(strings.TrimSpace(in.Status)))
	a, err := t.svc.Actions.SetStatus(ctx, tenantID, in.ID, status)
	if err != nil {
		return nil, ActionResponse{}, mapError(err)
	}
	return nil, toActionResponse(*a, t.loc), nil
}

func (t *tools) getActionState(ctx context.Context, _ *sdkmcp.CallToolRequest, in ActionDateParams) (*sdkmcp.CallToolResult, ActionStateResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, ActionStateResponse{}, err
	}
	d, err := t.date(in.Date)
	if err != nil {
		return nil, ActionStateResponse{}, mapError(err)
	}
	st, err := t.svc.Actions.State(ctx, tenantID, in.ID, d)
	if err != nil {
		return nil, ActionStateResponse{}, mapError(err)
	}
	return nil, toActionStateResponse(*st, t.loc), nil
}

func (t *tools) getToday(ctx context.Context, _ *sdkmcp.CallToolRequest, in DateParams) (*sdkmcp.CallToolResult, TodayResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, TodayResponse{}, err
	}
	d, err := t.date(in.Date)
	if err != nil {
		return nil, TodayResponse{}, mapError(err)
	}
	states, err := t.svc.Actions.Today(ctx, tenantID, d)
	if err != nil {
		return nil, TodayResponse{}, mapError(err)
	}
	resp := TodayResponse{
		Date:    d.Format(action.DateLayout),
		Actions: make([]ActionStateResponse, 0, len(states)),
	}
	for _, st := range states {
		switch st.State {
		case action.StateDue:
			resp.Due++
		case action.StateCompleted:
			resp.Completed++
		default:
			resp.NotDue++
		}
		resp.Actions = append(resp.Actions, toActionStateResponse(st, t.loc))
	}
	return nil, resp, nil
}

func (t *tools) completeAction(ctx context.Context, _ *sdkmcp.CallToolRequest, in ActionDateParams) (*sdkmcp.CallToolResult, CompletionResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, CompletionResponse{}, err
	}
	at, err := t.date(in.Date)
	if err != nil {
		return nil, CompletionResponse{}, mapError(err)
	}
	c, err := t.svc.Actions.Complete(ctx, tenantID, in.ID, at)
	if err != nil {
		return nil, CompletionResponse{}, mapError(err)
	}
	return nil, toCompletionResponse(*c, t.loc), nil
}

func (t *tools) undoCompletion(ctx context.Context, _ *sdkmcp.CallToolRequest, in ActionDateParams) (*sdkmcp.CallToolResult, UndoCompletionResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, UndoCompletionResponse{}, err
	}
	d, err := t.date(in.Date)
	if err != nil {
		return nil, UndoCompletionResponse{}, mapError(err)
	}
	key, err := t.svc.Actions.Uncomplete(ctx, tenantID, in.ID, d)
	if err != nil {
		return nil, UndoCompletionResponse{}, mapError(err)
	}
	return nil, UndoCompletionResponse{ActionID: in.ID, PeriodKey: key, Removed: true}, nil
}

func (t *tools) listCompletions(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListCompletionsParams) (*sdkmcp.CallToolResult, CompletionListResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, CompletionListResponse{}, err
	}
	completions, err := t.svc.Actions.Completions(ctx, tenantID, in.ID, in.Limit)
	if err != nil {
		return nil, CompletionListResponse{}, mapError(err)
	}
	resp := CompletionListResponse{Completions: make([]CompletionResponse, 0, len(completions))}
	for _, c := range completions {
		resp.Completions = append(resp.Completions, toCompletionResponse(c, t.loc))
	}
	return nil, resp, nil
}

func (t *tools) createSignal(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateSignalParams) (*sdkmcp.CallToolResult, SignalResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, SignalResponse{}, err
	}
	sig, err := t.svc.Signals.Create(ctx, tenantID, signal.CreateRequest{
		ID:        in.ID,
		Name:      in.Name,
		Unit:      in.Unit,
		Frequency: in.Frequency,
	})
	if err != nil {
		return nil, SignalResponse{}, mapError(err)
	}
	return nil, toSignalResponse(*sig, t.loc), nil
}

func (t *tools) listSignals(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, SignalListResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, SignalListResponse{}, err
	}
	signals, err := t.svc.Signals.List(ctx, tenantID)
	if err != nil {
		return nil, SignalListResponse{}, mapError(err)
	}
	resp := SignalListResponse{Signals: make([]SignalResponse, 0, len(signals))}
	for _, sig := range signals {
		resp.Signals = append(resp.Signals, toSignalResponse(sig, t.loc))
	}
	return nil, resp, nil
}

func (t *tools) recordMeasurement(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecordMeasurementParams) (*sdkmcp.CallToolResult, MeasurementResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, MeasurementResponse{}, err
	}
	m, err := t.svc.Signals.RecordMeasurement(ctx, tenantID, signal.MeasureRequest{
		SignalID: in.SignalID,
		Value:    in.Value,
	})
	if err != nil {
		return nil, MeasurementResponse{}, mapError(err)
	}
	return nil, toMeasurementResponse(*m, t.loc), nil
}

func (t *tools) listMeasurements(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListMeasurementsParams) (*sdkmcp.CallToolResult, MeasurementListResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, MeasurementListResponse{}, err
	}
	ms, err := t.svc.Signals.Measurements(ctx, tenantID, in.SignalID, in.Limit)
	if err != nil {
		return nil, MeasurementListResponse{}, mapError(err)
	}
	resp := MeasurementListResponse{Measurements: make([]MeasurementResponse, 0, len(ms))}
	for _, m := range ms {
		resp.Measurements = append(resp.Measurements, toMeasurementResponse(m, t.loc))
	}
	return nil, resp, nil
}

func (t *tools) shouldMeasure(ctx context.Context, _ *sdkmcp.CallToolRequest, in SignalDateParams) (*sdkmcp.CallToolResult, SignalStatusResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, SignalStatusResponse{}, err
	}
	d, err := t.date(in.Date)
	if err != nil {
		return nil, SignalStatusResponse{}, mapError(err)
	}
	st, err := t.svc.Signals.ShouldMeasure(ctx, tenantID, in.SignalID, d)
	if err != nil {
		return nil, SignalStatusResponse{}, mapError(err)
	}
	return nil, toSignalStatusResponse(*st, t.loc), nil
}

func (t *tools) signalsDue(ctx context.Context, _ *sdkmcp.CallToolRequest, in DateParams) (*sdkmcp.CallToolResult, SignalsDueResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, SignalsDueResponse{}, err
	}
	d, err := t.date(in.Date)
	if err != nil {
		return nil, SignalsDueResponse{}, mapError(err)
	}
	due, err := t.svc.Signals.DueToday(ctx, tenantID, d)
	if err != nil {
		return nil, SignalsDueResponse{}, mapError(err)
	}
	resp := SignalsDueResponse{
		Date:    d.Format(action.DateLayout),
		Signals: make([]SignalStatusResponse, 0, len(due)),
	}
	for _, st := range due {
		resp.Signals = append(resp.Signals, toSignalStatusResponse(st, t.loc))
	}
	return nil, resp, nil
}

func (t *tools) getRecentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, ActivityListResponse, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, ActivityListResponse{}, err
	}
	opts := activity.ListActivityOptions{Limit: in.Limit, Offset: in.Offset}
	if in.ActionID != "" {
		opts.ActionID = &in.ActionID
	}
	if in.SignalID != "" {
		opts.SignalID = &in.SignalID
	}
	if in.Type != "" {
		typ := activity.ActivityType(in.Type)
		opts.ActivityType = &typ
	}
	entries, err := t.svc.Activity.GetRecentActivity(ctx, tenantID, opts)
	if err != nil {
		return nil, ActivityListResponse{}, mapError(err)
	}
	resp := ActivityListResponse{Entries: make([]ActivityEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toActivityEntryResponse(e, t.loc))
	}
	return nil, resp, nil
}
