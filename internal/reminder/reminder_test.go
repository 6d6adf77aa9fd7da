package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/signal"
	"github.com/rpggio/cadence/internal/observability"
)

type fakeTenants []string

func (f fakeTenants) ListTenants(ctx context.Context) ([]string, error) { return f, nil }

type fakeActions map[string][]action.ActionState

func (f fakeActions) Today(ctx context.Context, tenantID string, date time.Time) ([]action.ActionState, error) {
	if tenantID == "broken" {
		return nil, errors.New("store unavailable")
	}
	return f[tenantID], nil
}

type fakeSignals map[string][]signal.Status

func (f fakeSignals) DueToday(ctx context.Context, tenantID string, date time.Time) ([]signal.Status, error) {
	return f[tenantID], nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	prompts []Prompt
}

func (n *recordingNotifier) Notify(ctx context.Context, p Prompt) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.prompts = append(n.prompts, p)
	return nil
}

type recordingActivity struct {
	mu      sync.Mutex
	entries []activity.ActivityEntry
}

func (r *recordingActivity) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := *entry
	e.TenantID = tenantID
	r.entries = append(r.entries, e)
	return nil
}

func state(id string, st action.DueState) action.ActionState {
	return action.ActionState{
		Action:    action.Action{ID: id, Name: "Action " + id},
		PeriodKey: "2024-03-15",
		State:     st,
	}
}

func TestSweep_PromptsDueActionsAndSignals(t *testing.T) {
	notifier := &recordingNotifier{}
	activities := &recordingActivity{}
	svc := New(Config{}, Deps{
		Tenants: fakeTenants{"tenant1", "tenant2"},
		Actions: fakeActions{
			"tenant1": {state("a1", action.StateDue), state("a2", action.StateCompleted), state("a3", action.StateNotDue)},
			"tenant2": {state("b1", action.StateDue)},
		},
		Signals: fakeSignals{
			"tenant1": {{Signal: signal.Signal{ID: "s1", Name: "Weight"}, ShouldMeasure: true}},
		},
		Notifier:   notifier,
		Activities: activities,
	}, time.UTC, nil)

	before := testutil.ToFloat64(observability.ReminderPrompts.WithLabelValues(string(KindActionDue)))

	sent, err := svc.Sweep(context.Background(), time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 3, sent)

	require.Len(t, notifier.prompts, 3)
	require.Equal(t, "a1", notifier.prompts[0].SubjectID)
	require.Equal(t, KindSignalDue, notifier.prompts[1].Kind)
	require.Equal(t, "tenant2", notifier.prompts[2].TenantID)
	require.Equal(t, "2024-03-15", notifier.prompts[0].Date)

	require.Len(t, activities.entries, 3)
	require.Equal(t, activity.TypePromptSent, activities.entries[0].ActivityType)
	require.Equal(t, "a1", *activities.entries[0].ActionID)
	require.Equal(t, "s1", *activities.entries[1].SignalID)

	after := testutil.ToFloat64(observability.ReminderPrompts.WithLabelValues(string(KindActionDue)))
	require.Equal(t, float64(2), after-before)
}

func TestSweep_ContinuesPastFailingTenant(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := New(Config{}, Deps{
		Tenants:  fakeTenants{"broken", "tenant1"},
		Actions:  fakeActions{"tenant1": {state("a1", action.StateDue)}},
		Notifier: notifier,
	}, time.UTC, nil)

	sent, err := svc.Sweep(context.Background(), time.Now())
	require.Error(t, err)
	require.Equal(t, 1, sent)
	require.Len(t, notifier.prompts, 1)
}

func TestSweep_NotifierFailure(t *testing.T) {
	svc := New(Config{}, Deps{
		Tenants: fakeTenants{"tenant1"},
		Actions: fakeActions{"tenant1": {state("a1", action.StateDue), state("a2", action.StateDue)}},
		Notifier: NotifierFunc(func(ctx context.Context, p Prompt) error {
			if p.SubjectID == "a1" {
				return errors.New("channel closed")
			}
			return nil
		}),
	}, time.UTC, nil)

	sent, err := svc.Sweep(context.Background(), time.Now())
	require.Error(t, err)
	require.Equal(t, 1, sent)
}

func TestSweep_UsesConfiguredLocation(t *testing.T) {
	var seen time.Time
	tokyo := time.FixedZone("JST", 9*3600)
	svc := New(Config{}, Deps{
		Tenants: fakeTenants{"tenant1"},
		Signals: signalGateFunc(func(date time.Time) { seen = date }),
	}, tokyo, nil)

	_, err := svc.Sweep(context.Background(), time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 16, seen.Day())
	require.Equal(t, tokyo, seen.Location())
}

type signalGateFunc func(date time.Time)

func (f signalGateFunc) DueToday(ctx context.Context, tenantID string, date time.Time) ([]signal.Status, error) {
	f(date)
	return nil, nil
}

func TestStartStop(t *testing.T) {
	svc := New(Config{Schedule: "@every 1h"}, Deps{Tenants: fakeTenants{}}, time.UTC, nil)
	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Stop())
	require.ErrorIs(t, svc.Stop(), ErrNotStarted)
}

func TestStart_InvalidSchedule(t *testing.T) {
	svc := New(Config{Schedule: "every morning"}, Deps{Tenants: fakeTenants{}}, time.UTC, nil)
	require.Error(t, svc.Start(context.Background()))
}

func TestPromptMessage(t *testing.T) {
	require.Equal(t, `"Run" is due (W_2024-03-11)`, Prompt{Kind: KindActionDue, Name: "Run", PeriodKey: "W_2024-03-11"}.Message())
	require.Equal(t, `time to measure "Weight"`, Prompt{Kind: KindSignalDue, Name: "Weight"}.Message())
}
