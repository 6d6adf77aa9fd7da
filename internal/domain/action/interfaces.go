package action

import (
	"context"

	"github.com/rpggio/cadence/internal/domain/activity"
)

// Repository provides persistence for actions.
type Repository interface {
	Create(ctx context.Context, tenantID string, a *Action) error
	Get(ctx context.Context, tenantID, id string) (*Action, error)
	Update(ctx context.Context, tenantID string, a *Action) error
	List(ctx context.Context, tenantID string, opts ListActionsOptions) ([]Action, error)
}

// CompletionRepository provides persistence for completions. Create returns
// repository.ErrConflict when the (action, period key) pair already exists.
type CompletionRepository interface {
	Create(ctx context.Context, tenantID string, c *Completion) error
	Delete(ctx context.Context, tenantID, actionID, periodKey string) error
	List(ctx context.Context, tenantID, actionID string, limit int) ([]Completion, error)
	// CompletedPeriods returns, per action ID, the subset of periodKeys that hold a completion.
	CompletedPeriods(ctx context.Context, tenantID string, actionIDs, periodKeys []string) (map[string]map[string]bool, error)
}

// ActivityRepository logs action activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}
