package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/cadence/internal/domain/signal"
	"github.com/rpggio/cadence/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestSignalRepository_CreateGetList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSignalRepository(db)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, "tenant1", &signal.Signal{
		ID: "s1", Name: "Weight", Unit: "kg", Frequency: signal.FrequencyWeekly, CreatedAt: created,
	}))
	require.NoError(t, repo.Create(ctx, "tenant1", &signal.Signal{
		ID: "s2", Name: "Mood", Frequency: signal.FrequencyDaily, CreatedAt: created.Add(time.Minute),
	}))
	require.NoError(t, repo.Create(ctx, "tenant2", &signal.Signal{
		ID: "s3", Name: "Sleep", Frequency: signal.FrequencyDaily, CreatedAt: created,
	}))

	got, err := repo.Get(ctx, "tenant1", "s1")
	require.NoError(t, err)
	require.Equal(t, "Weight", got.Name)
	require.Equal(t, "kg", got.Unit)
	require.Equal(t, signal.FrequencyWeekly, got.Frequency)
	require.Nil(t, got.LastMeasuredAt)

	_, err = repo.Get(ctx, "tenant2", "s1")
	require.Equal(t, repository.ErrNotFound, err)

	list, err := repo.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "s1", list[0].ID)
}

func TestSignalRepository_AddMeasurementAdvancesLastMeasured(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSignalRepository(db)
	ctx := context.Background()
	insertSignal(t, db, "s1", "tenant1", "weekly")

	first := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AddMeasurement(ctx, "tenant1", &signal.Measurement{
		ID: "m1", SignalID: "s1", Value: 80.5, MeasuredAt: first,
	}))

	got, err := repo.Get(ctx, "tenant1", "s1")
	require.NoError(t, err)
	require.NotNil(t, got.LastMeasuredAt)
	require.True(t, first.Equal(*got.LastMeasuredAt))

	// A backfilled older value is stored but does not move the watermark back
	older := first.AddDate(0, 0, -3)
	require.NoError(t, repo.AddMeasurement(ctx, "tenant1", &signal.Measurement{
		ID: "m2", SignalID: "s1", Value: 81, MeasuredAt: older,
	}))
	got, err = repo.Get(ctx, "tenant1", "s1")
	require.NoError(t, err)
	require.True(t, first.Equal(*got.LastMeasuredAt))

	later := first.AddDate(0, 0, 7)
	require.NoError(t, repo.AddMeasurement(ctx, "tenant1", &signal.Measurement{
		ID: "m3", SignalID: "s1", Value: 79.8, MeasuredAt: later,
	}))
	got, err = repo.Get(ctx, "tenant1", "s1")
	require.NoError(t, err)
	require.True(t, later.Equal(*got.LastMeasuredAt))

	measurements, err := repo.ListMeasurements(ctx, "tenant1", "s1", 0)
	require.NoError(t, err)
	require.Len(t, measurements, 3)
	require.Equal(t, "m3", measurements[0].ID)
	require.Equal(t, "m2", measurements[2].ID)
	require.InDelta(t, 79.8, measurements[0].Value, 0.0001)
}

func TestSignalRepository_AddMeasurementUnknownSignal(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSignalRepository(db)
	ctx := context.Background()
	insertSignal(t, db, "s1", "tenant1", "daily")

	err := repo.AddMeasurement(ctx, "tenant1", &signal.Measurement{
		ID: "m1", SignalID: "missing", Value: 1, MeasuredAt: time.Now(),
	})
	require.Equal(t, repository.ErrNotFound, err)

	err = repo.AddMeasurement(ctx, "tenant2", &signal.Measurement{
		ID: "m2", SignalID: "s1", Value: 1, MeasuredAt: time.Now(),
	})
	require.Equal(t, repository.ErrNotFound, err)

	measurements, err := repo.ListMeasurements(ctx, "tenant1", "s1", 10)
	require.NoError(t, err)
	require.Empty(t, measurements)
}
