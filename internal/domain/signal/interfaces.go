package signal

import (
	"context"

	"github.com/rpggio/cadence/internal/domain/activity"
)

// Repository provides persistence for signals and their measurements.
type Repository interface {
	Create(ctx context.Context, tenantID string, sig *Signal) error
	Get(ctx context.Context, tenantID, id string) (*Signal, error)
	List(ctx context.Context, tenantID string) ([]Signal, error)
	// AddMeasurement stores m and advances the signal's last-measured time to
	// m.MeasuredAt unless it is already later.
	AddMeasurement(ctx context.Context, tenantID string, m *Measurement) error
	ListMeasurements(ctx context.Context, tenantID, signalID string, limit int) ([]Measurement, error)
}

// ActivityRepository logs signal activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}
