package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/repository"
)

var _ action.CompletionRepository = (*CompletionRepository)(nil)

// CompletionRepository implements action.CompletionRepository for SQLite
type CompletionRepository struct {
	db *DB
}

// NewCompletionRepository creates a new CompletionRepository
func NewCompletionRepository(db *DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// Create inserts a completion. A second completion for the same action and
// period key fails with repository.ErrConflict.
func (r *CompletionRepository) Create(ctx context.Context, tenantID string, c *action.Completion) error {
	query := `
		INSERT INTO completions (id, tenant_id, action_id, period_key, completed_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		tenantID,
		c.ActionID,
		c.PeriodKey,
		c.CompletedAt.UTC(),
	)
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr
		}
		return fmt.Errorf("failed to create completion: %w", err)
	}

	c.TenantID = tenantID
	return nil
}

// Delete removes the completion for an action and period key
func (r *CompletionRepository) Delete(ctx context.Context, tenantID, actionID, periodKey string) error {
	query := `DELETE FROM completions WHERE tenant_id = ? AND action_id = ? AND period_key = ?`
	result, err := r.db.ExecContext(ctx, query, tenantID, actionID, periodKey)
	if err != nil {
		return fmt.Errorf("failed to delete completion: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns an action's completions, newest first
func (r *CompletionRepository) List(ctx context.Context, tenantID, actionID string, limit int) ([]action.Completion, error) {
	query := `
		SELECT id, tenant_id, action_id, period_key, completed_at
		FROM completions
		WHERE tenant_id = ? AND action_id = ?
		ORDER BY completed_at DESC
	`
	args := []any{tenantID, actionID}
	query, args = paginate(query, args, limit, 0)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	completions := []action.Completion{}
	for rows.Next() {
		var c action.Completion
		if err := rows.Scan(&c.ID, &c.TenantID, &c.ActionID, &c.PeriodKey, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completion rows: %w", err)
	}

	return completions, nil
}

// CompletedPeriods reports which of periodKeys are completed for each action
// in actionIDs. Actions without a matching completion are absent from the map.
func (r *CompletionRepository) CompletedPeriods(ctx context.Context, tenantID string, actionIDs, periodKeys []string) (map[string]map[string]bool, error) {
	result := make(map[string]map[string]bool)
	if len(actionIDs) == 0 || len(periodKeys) == 0 {
		return result, nil
	}

	args := []any{tenantID}
	for _, id := range actionIDs {
		args = append(args, id)
	}
	for _, key := range periodKeys {
		args = append(args, key)
	}

	query := fmt.Sprintf(`
		SELECT action_id, period_key
		FROM completions
		WHERE tenant_id = ? AND action_id IN (%s) AND period_key IN (%s)
	`, placeholders(len(actionIDs)), placeholders(len(periodKeys)))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed periods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var actionID, key string
		if err := rows.Scan(&actionID, &key); err != nil {
			return nil, fmt.Errorf("failed to scan completed period: %w", err)
		}
		if result[actionID] == nil {
			result[actionID] = make(map[string]bool)
		}
		result[actionID][key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completed periods: %w", err)
	}

	return result, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
