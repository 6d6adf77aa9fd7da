package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/repository"
)

var _ action.Repository = (*ActionRepository)(nil)

// ActionRepository implements action.Repository for SQLite
type ActionRepository struct {
	db *DB
}

// NewActionRepository creates a new ActionRepository
func NewActionRepository(db *DB) *ActionRepository {
	return &ActionRepository{db: db}
}

const actionColumns = `
	id, tenant_id, name, description, frequency_type, frequency_interval,
	frequency_days, active, status, created_at, updated_at
`

// Create inserts a new action
func (r *ActionRepository) Create(ctx context.Context, tenantID string, a *action.Action) error {
	days, err := encodeDays(a.FrequencyDays)
	if err != nil {
		return err
	}

	query := `INSERT INTO actions (` + actionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		a.ID,
		tenantID,
		a.Name,
		a.Description,
		a.FrequencyType,
		intervalOrDefault(a.FrequencyInterval),
		days,
		a.Active,
		a.Status,
		a.CreatedAt.UTC(),
		a.UpdatedAt.UTC(),
	)
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr
		}
		return fmt.Errorf("failed to create action: %w", err)
	}

	a.TenantID = tenantID
	return nil
}

// Get retrieves an action by ID
func (r *ActionRepository) Get(ctx context.Context, tenantID, id string) (*action.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE id = ? AND tenant_id = ?`

	a, err := scanAction(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get action: %w", err)
	}
	return a, nil
}

// Update overwrites the mutable fields of an action
func (r *ActionRepository) Update(ctx context.Context, tenantID string, a *action.Action) error {
	days, err := encodeDays(a.FrequencyDays)
	if err != nil {
		return err
	}

	query := `
		UPDATE actions
		SET name = ?, description = ?, frequency_days = ?, active = ?, status = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		a.Name,
		a.Description,
		days,
		a.Active,
		a.Status,
		a.UpdatedAt.UTC(),
		a.ID,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update action: %w", err)
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

// List returns a tenant's actions, oldest first, optionally filtered by status
func (r *ActionRepository) List(ctx context.Context, tenantID string, opts action.ListActionsOptions) ([]action.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE tenant_id = ?`
	args := []any{tenantID}

	if len(opts.Statuses) > 0 {
		for _, st := range opts.Statuses {
			args = append(args, st)
		}
		query += " AND status IN (" + placeholders(len(opts.Statuses)) + ")"
	}

	query += " ORDER BY created_at ASC, id ASC"
	query, args = paginate(query, args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	actions := []action.Action{}
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action rows: %w", err)
	}

	return actions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAction(row rowScanner) (*action.Action, error) {
	var a action.Action
	var days string
	if err := row.Scan(
		&a.ID,
		&a.TenantID,
		&a.Name,
		&a.Description,
		&a.FrequencyType,
		&a.FrequencyInterval,
		&days,
		&a.Active,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	decoded, err := decodeDays(days)
	if err != nil {
		return nil, err
	}
	a.FrequencyDays = decoded
	return &a, nil
}

func encodeDays(days []int) (string, error) {
	if len(days) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("failed to encode frequency days: %w", err)
	}
	return string(data), nil
}

func decodeDays(raw string) ([]int, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var days []int
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil, fmt.Errorf("failed to decode frequency days: %w", err)
	}
	return days, nil
}

func intervalOrDefault(interval int) int {
	if interval <= 0 {
		return action.DefaultInterval
	}
	return interval
}

func paginate(query string, args []any, limit, offset int) (string, []any) {
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
		if offset > 0 {
			query += " OFFSET ?"
			args = append(args, offset)
		}
	} else if offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, offset)
	}
	return query, args
}
