package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/cadence/internal/domain/signal"
	"github.com/rpggio/cadence/internal/repository"
)

var _ signal.Repository = (*SignalRepository)(nil)

// SignalRepository implements signal.Repository for SQLite
type SignalRepository struct {
	db *DB
}

// NewSignalRepository creates a new SignalRepository
func NewSignalRepository(db *DB) *SignalRepository {
	return &SignalRepository{db: db}
}

const signalColumns = `id, tenant_id, name, unit, frequency, last_measured_at, created_at`

// Create inserts a new signal
func (r *SignalRepository) Create(ctx context.Context, tenantID string, sig *signal.Signal) error {
	query := `INSERT INTO signals (` + signalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	var last any
	if sig.LastMeasuredAt != nil {
		last = sig.LastMeasuredAt.UTC()
	}
	_, err := r.db.ExecContext(ctx, query,
		sig.ID,
		tenantID,
		sig.Name,
		sig.Unit,
		sig.Frequency,
		last,
		sig.CreatedAt.UTC(),
	)
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr
		}
		return fmt.Errorf("failed to create signal: %w", err)
	}

	sig.TenantID = tenantID
	return nil
}

// Get retrieves a signal by ID
func (r *SignalRepository) Get(ctx context.Context, tenantID, id string) (*signal.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals WHERE id = ? AND tenant_id = ?`

	sig, err := scanSignal(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get signal: %w", err)
	}
	return sig, nil
}

// List returns a tenant's signals, oldest first
func (r *SignalRepository) List(ctx context.Context, tenantID string) ([]signal.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals WHERE tenant_id = ? ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}
	defer rows.Close()

	signals := []signal.Signal{}
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		signals = append(signals, *sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signal rows: %w", err)
	}

	return signals, nil
}

// AddMeasurement stores a measurement and moves the signal's last-measured
// time forward in the same transaction. An older measurement never moves it back.
func (r *SignalRepository) AddMeasurement(ctx context.Context, tenantID string, m *signal.Measurement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var last sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT last_measured_at FROM signals WHERE id = ? AND tenant_id = ?`,
		m.SignalID, tenantID,
	).Scan(&last)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read signal: %w", err)
	}

	at := m.MeasuredAt.UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO measurements (id, tenant_id, signal_id, value, measured_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, tenantID, m.SignalID, m.Value, at)
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr
		}
		return fmt.Errorf("failed to insert measurement: %w", err)
	}

	if !last.Valid || at.After(last.Time) {
		_, err = tx.ExecContext(ctx,
			`UPDATE signals SET last_measured_at = ? WHERE id = ? AND tenant_id = ?`,
			at, m.SignalID, tenantID,
		)
		if err != nil {
			return fmt.Errorf("failed to update last measured: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit measurement: %w", err)
	}

	m.TenantID = tenantID
	return nil
}

// ListMeasurements returns a signal's measurements, newest first
func (r *SignalRepository) ListMeasurements(ctx context.Context, tenantID, signalID string, limit int) ([]signal.Measurement, error) {
	query := `
		SELECT id, tenant_id, signal_id, value, measured_at
		FROM measurements
		WHERE tenant_id = ? AND signal_id = ?
		ORDER BY measured_at DESC
	`
	args := []any{tenantID, signalID}
	query, args = paginate(query, args, limit, 0)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	defer rows.Close()

	measurements := []signal.Measurement{}
	for rows.Next() {
		var m signal.Measurement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.SignalID, &m.Value, &m.MeasuredAt); err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating measurement rows: %w", err)
	}

	return measurements, nil
}

func scanSignal(row rowScanner) (*signal.Signal, error) {
	var sig signal.Signal
	var last sql.NullTime
	if err := row.Scan(
		&sig.ID,
		&sig.TenantID,
		&sig.Name,
		&sig.Unit,
		&sig.Frequency,
		&last,
		&sig.CreatedAt,
	); err != nil {
		return nil, err
	}
	if last.Valid {
		t := last.Time
		sig.LastMeasuredAt = &t
	}
	return &sig, nil
}
