package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	actionID := "a1"
	base := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	entry1 := &activity.ActivityEntry{
		ActionID:     &actionID,
		ActivityType: activity.TypeActionCreated,
		Summary:      "created action",
		Details:      `{"id":"a1"}`,
		CreatedAt:    base,
	}
	entry2 := &activity.ActivityEntry{
		ActionID:     &actionID,
		ActivityType: activity.TypeCompletionRecorded,
		Summary:      "completed period 2024-03-15",
		CreatedAt:    base.Add(time.Minute),
	}

	require.NoError(t, repo.Log(ctx, "tenant1", entry1))
	require.NoError(t, repo.Log(ctx, "tenant1", entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{ActionID: &actionID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Equal(t, `{"id":"a1"}`, entries[1].Details)
	require.Nil(t, entries[0].SignalID)
}

func TestActivityRepository_FiltersAndTenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	signalID := "s1"
	base := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Log(ctx, "tenant1", &activity.ActivityEntry{
		SignalID:     &signalID,
		ActivityType: activity.TypeMeasurementRecorded,
		Summary:      "measured 80",
		CreatedAt:    base,
	}))
	require.NoError(t, repo.Log(ctx, "tenant1", &activity.ActivityEntry{
		ActivityType: activity.TypePromptSent,
		Summary:      "2 actions due",
		CreatedAt:    base.Add(2 * time.Hour),
	}))

	measured := activity.TypeMeasurementRecorded
	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{
		SignalID:     &signalID,
		ActivityType: &measured,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "s1", *entries[0].SignalID)

	since := base.Add(time.Hour)
	entries, err = repo.List(ctx, "tenant1", activity.ListActivityOptions{Since: &since})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypePromptSent, entries[0].ActivityType)

	entries, err = repo.List(ctx, "tenant1", activity.ListActivityOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeMeasurementRecorded, entries[0].ActivityType)

	entries, err = repo.List(ctx, "tenant2", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 0)
}
