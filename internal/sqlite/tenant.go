package sqlite

import (
	"context"
	"fmt"
)

// TenantRepository enumerates tenants that own any actions or signals.
type TenantRepository struct {
	db *DB
}

// NewTenantRepository creates a new TenantRepository
func NewTenantRepository(db *DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// ListTenants returns distinct tenant IDs in ascending order.
func (r *TenantRepository) ListTenants(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tenant_id FROM actions
		UNION
		SELECT tenant_id FROM signals
		ORDER BY tenant_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}
	return tenants, nil
}
