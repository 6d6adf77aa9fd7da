package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/observability"
	"github.com/rpggio/cadence/internal/repository"
)

// Service handles action business logic.
type Service struct {
	actions     Repository
	completions CompletionRepository
	activities  ActivityRepository
	logger      *slog.Logger
	now         func() time.Time
	loc         *time.Location
}

// NewService creates a new action service. activities and logger may be nil.
func NewService(
	actions Repository,
	completions CompletionRepository,
	activities ActivityRepository,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = discardLogger()
	}
	s := &Service{
		actions:     actions,
		completions: completions,
		activities:  activities,
		logger:      logger,
		now:         time.Now,
		loc:         time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest describes an action creation request.
type CreateRequest struct {
	ID                string
	Name              string
	Description       string
	FrequencyType     string
	FrequencyInterval int
	FrequencyDays     []int
}

// UpdateRequest describes an action update. Nil fields are left unchanged; a
// non-nil FrequencyDays pointing at an empty slice clears the weekday filter.
type UpdateRequest struct {
	ID            string
	Name          *string
	Description   *string
	FrequencyDays *[]int
}

// Create creates a new active action.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Action, error) {
	freq, days, err := ValidateCreateInput(req)
	if err != nil {
		return nil, err
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	now := s.now()
	a := &Action{
		ID:                id,
		TenantID:          tenantID,
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		FrequencyType:     freq,
		FrequencyInterval: DefaultInterval,
		FrequencyDays:     days,
		Active:            true,
		Status:            StatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.actions.Create(ctx, tenantID, a); err != nil {
		return nil, fmt.Errorf("creating action: %w", err)
	}

	s.logActivity(ctx, tenantID, a.ID, activity.TypeActionCreated, fmt.Sprintf("created %s action %q", a.FrequencyType, a.Name))
	return a, nil
}

// Get fetches an action by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Action, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	a, err := s.actions.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("getting action: %w", err)
	}
	return a, nil
}

// List returns actions matching opts.
func (s *Service) List(ctx context.Context, tenantID string, opts ListActionsOptions) ([]Action, error) {
	for _, st := range opts.Statuses {
		if !st.IsValid() {
			return nil, ErrInvalidInput
		}
	}
	return s.actions.List(ctx, tenantID, opts)
}

// Update modifies the descriptive fields and weekday filter of an action.
func (s *Service) Update(ctx context.Context, tenantID string, req UpdateRequest) (*Action, error) {
	a, err := s.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		a.Name = name
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.FrequencyDays != nil {
		days, err := NormalizeDays(*req.FrequencyDays)
		if err != nil {
			return nil, err
		}
		a.FrequencyDays = days
	}
	a.UpdatedAt = s.now()

	if err := s.actions.Update(ctx, tenantID, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("updating action: %w", err)
	}

	s.logActivity(ctx, tenantID, a.ID, activity.TypeActionUpdated, fmt.Sprintf("updated action %q", a.Name))
	return a, nil
}

// SetStatus moves an action between active, paused and archived. The active
// flag follows the status.
func (s *Service) SetStatus(ctx context.Context, tenantID, id string, status Status) (*Action, error) {
	if !status.IsValid() {
		return nil, ErrInvalidInput
	}
	a, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	from := a.Status
	a.Status = status
	a.Active = status == StatusActive
	a.UpdatedAt = s.now()

	if err := s.actions.Update(ctx, tenantID, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("updating action status: %w", err)
	}

	s.logActivity(ctx, tenantID, a.ID, activity.TypeActionStatusChanged, fmt.Sprintf("status %s -> %s", from, status))
	return a, nil
}

// State evaluates a single action on date against its stored completions.
func (s *Service) State(ctx context.Context, tenantID, id string, date time.Time) (*ActionState, error) {
	a, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	states, err := s.evaluateAll(ctx, tenantID, []Action{*a}, date)
	if err != nil {
		return nil, err
	}
	return &states[0], nil
}

// Today evaluates every non-archived action on date using one completion snapshot.
func (s *Service) Today(ctx context.Context, tenantID string, date time.Time) ([]ActionState, error) {
	actions, err := s.actions.List(ctx, tenantID, ListActionsOptions{
		Statuses: []Status{StatusActive, StatusPaused},
	})
	if err != nil {
		return nil, fmt.Errorf("listing actions: %w", err)
	}
	if len(actions) == 0 {
		return []ActionState{}, nil
	}
	return s.evaluateAll(ctx, tenantID, actions, date)
}

// Complete records a completion for the period containing at. It refuses when
// the period is already completed; the store's uniqueness constraint settles
// two writers racing for the same period.
func (s *Service) Complete(ctx context.Context, tenantID, id string, at time.Time) (*Completion, error) {
	if at.IsZero() {
		at = s.now()
	}
	st, err := s.State(ctx, tenantID, id, at)
	if err != nil {
		return nil, err
	}
	if st.State == StateCompleted {
		observability.RecordCompletionRejected("already_completed")
		return nil, ErrAlreadyCompleted
	}

	c := &Completion{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		ActionID:    id,
		PeriodKey:   st.PeriodKey,
		CompletedAt: at,
	}
	if err := s.completions.Create(ctx, tenantID, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			observability.RecordCompletionRejected("conflict")
			return nil, ErrAlreadyCompleted
		}
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("recording completion: %w", err)
	}

	observability.RecordCompletion()
	s.logActivity(ctx, tenantID, id, activity.TypeCompletionRecorded, fmt.Sprintf("completed period %s", c.PeriodKey))
	s.logger.Debug("completion recorded", "tenant_id", tenantID, "action_id", id, "period_key", c.PeriodKey)
	return c, nil
}

// Uncomplete removes the completion for the period containing date.
func (s *Service) Uncomplete(ctx context.Context, tenantID, id string, date time.Time) (string, error) {
	a, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	key := PeriodKey(date.In(s.loc), a.FrequencyType)
	if err := s.completions.Delete(ctx, tenantID, id, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrCompletionNotFound
		}
		return "", fmt.Errorf("removing completion: %w", err)
	}

	s.logActivity(ctx, tenantID, id, activity.TypeCompletionRemoved, fmt.Sprintf("removed completion for period %s", key))
	return key, nil
}

// Completions lists recorded completions for an action, newest first.
func (s *Service) Completions(ctx context.Context, tenantID, id string, limit int) ([]Completion, error) {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return nil, err
	}
	return s.completions.List(ctx, tenantID, id, limit)
}

func (s *Service) evaluateAll(ctx context.Context, tenantID string, actions []Action, date time.Time) ([]ActionState, error) {
	local := date.In(s.loc)

	ids := make([]string, 0, len(actions))
	for _, a := range actions {
		ids = append(ids, a.ID)
	}
	snapshot, err := s.completions.CompletedPeriods(ctx, tenantID, ids, periodKeysFor(local))
	if err != nil {
		return nil, fmt.Errorf("loading completions: %w", err)
	}

	day := local.Format(DateLayout)
	states := make([]ActionState, 0, len(actions))
	for _, a := range actions {
		state := Evaluate(a, local, snapshot[a.ID])
		observability.RecordEvaluation(string(state))
		states = append(states, ActionState{
			Action:    a,
			Date:      day,
			PeriodKey: PeriodKey(local, a.FrequencyType),
			State:     state,
		})
	}
	return states, nil
}

func (s *Service) logActivity(ctx context.Context, tenantID, actionID string, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	id := actionID
	if err := s.activities.Log(ctx, tenantID, &activity.ActivityEntry{
		ActionID:     &id,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now(),
	}); err != nil {
		s.logger.Warn("failed to log activity", "type", typ, "action_id", actionID, "error", err)
	}
}
