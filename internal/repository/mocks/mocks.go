package mocks

import (
	"context"

	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/signal"
	"github.com/stretchr/testify/mock"
)

// ActionRepository is a mock for action.Repository.
type ActionRepository struct {
	mock.Mock
}

func (m *ActionRepository) Create(ctx context.Context, tenantID string, a *action.Action) error {
	args := m.Called(ctx, tenantID, a)
	return args.Error(0)
}

func (m *ActionRepository) Get(ctx context.Context, tenantID, id string) (*action.Action, error) {
	args := m.Called(ctx, tenantID, id)
	if a, ok := args.Get(0).(*action.Action); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActionRepository) Update(ctx context.Context, tenantID string, a *action.Action) error {
	args := m.Called(ctx, tenantID, a)
	return args.Error(0)
}

func (m *ActionRepository) List(ctx context.Context, tenantID string, opts action.ListActionsOptions) ([]action.Action, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]action.Action); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CompletionRepository is a mock for action.CompletionRepository.
type CompletionRepository struct {
	mock.Mock
}

func (m *CompletionRepository) Create(ctx context.Context, tenantID string, c *action.Completion) error {
	args := m.Called(ctx, tenantID, c)
	return args.Error(0)
}

func (m *CompletionRepository) Delete(ctx context.Context, tenantID, actionID, periodKey string) error {
	args := m.Called(ctx, tenantID, actionID, periodKey)
	return args.Error(0)
}

func (m *CompletionRepository) List(ctx context.Context, tenantID, actionID string, limit int) ([]action.Completion, error) {
	args := m.Called(ctx, tenantID, actionID, limit)
	if list, ok := args.Get(0).([]action.Completion); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CompletionRepository) CompletedPeriods(ctx context.Context, tenantID string, actionIDs, periodKeys []string) (map[string]map[string]bool, error) {
	args := m.Called(ctx, tenantID, actionIDs, periodKeys)
	if snapshot, ok := args.Get(0).(map[string]map[string]bool); ok {
		return snapshot, args.Error(1)
	}
	return nil, args.Error(1)
}

// SignalRepository is a mock for signal.Repository.
type SignalRepository struct {
	mock.Mock
}

func (m *SignalRepository) Create(ctx context.Context, tenantID string, sig *signal.Signal) error {
	args := m.Called(ctx, tenantID, sig)
	return args.Error(0)
}

func (m *SignalRepository) Get(ctx context.Context, tenantID, id string) (*signal.Signal, error) {
	args := m.Called(ctx, tenantID, id)
	if sig, ok := args.Get(0).(*signal.Signal); ok {
		return sig, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignalRepository) List(ctx context.Context, tenantID string) ([]signal.Signal, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]signal.Signal); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignalRepository) AddMeasurement(ctx context.Context, tenantID string, meas *signal.Measurement) error {
	args := m.Called(ctx, tenantID, meas)
	return args.Error(0)
}

func (m *SignalRepository) ListMeasurements(ctx context.Context, tenantID, signalID string, limit int) ([]signal.Measurement, error) {
	args := m.Called(ctx, tenantID, signalID, limit)
	if list, ok := args.Get(0).([]signal.Measurement); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
