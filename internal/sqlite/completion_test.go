package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestCompletionRepository_CreateConflict(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCompletionRepository(db)
	ctx := context.Background()
	insertAction(t, db, "a1", "tenant1", "daily")

	at := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, "tenant1", &action.Completion{
		ID: "c1", ActionID: "a1", PeriodKey: "2024-03-15", CompletedAt: at,
	}))

	err := repo.Create(ctx, "tenant1", &action.Completion{
		ID: "c2", ActionID: "a1", PeriodKey: "2024-03-15", CompletedAt: at.Add(time.Hour),
	})
	require.ErrorIs(t, err, repository.ErrConflict)

	err = repo.Create(ctx, "tenant1", &action.Completion{
		ID: "c3", ActionID: "missing", PeriodKey: "2024-03-15", CompletedAt: at,
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestCompletionRepository_DeleteAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCompletionRepository(db)
	ctx := context.Background()
	insertAction(t, db, "a1", "tenant1", "daily")

	day := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	for i, key := range []string{"2024-03-15", "2024-03-16", "2024-03-17"} {
		require.NoError(t, repo.Create(ctx, "tenant1", &action.Completion{
			ID:          key,
			ActionID:    "a1",
			PeriodKey:   key,
			CompletedAt: day.AddDate(0, 0, i),
		}))
	}

	list, err := repo.List(ctx, "tenant1", "a1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "2024-03-17", list[0].PeriodKey)
	require.Equal(t, "2024-03-16", list[1].PeriodKey)

	require.NoError(t, repo.Delete(ctx, "tenant1", "a1", "2024-03-16"))
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, "tenant1", "a1", "2024-03-16"))
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, "tenant2", "a1", "2024-03-15"))

	list, err = repo.List(ctx, "tenant1", "a1", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestCompletionRepository_CompletedPeriods(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCompletionRepository(db)
	ctx := context.Background()
	insertAction(t, db, "a1", "tenant1", "daily")
	insertAction(t, db, "a2", "tenant1", "weekly")
	insertAction(t, db, "a3", "tenant1", "monthly")

	at := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, "tenant1", &action.Completion{ID: "c1", ActionID: "a1", PeriodKey: "2024-03-15", CompletedAt: at}))
	require.NoError(t, repo.Create(ctx, "tenant1", &action.Completion{ID: "c2", ActionID: "a2", PeriodKey: "W_2024-03-11", CompletedAt: at}))
	require.NoError(t, repo.Create(ctx, "tenant1", &action.Completion{ID: "c3", ActionID: "a3", PeriodKey: "M_2024-02", CompletedAt: at}))

	got, err := repo.CompletedPeriods(ctx, "tenant1",
		[]string{"a1", "a2", "a3"},
		[]string{"2024-03-15", "W_2024-03-11", "M_2024-03", "ONCE"},
	)
	require.NoError(t, err)
	require.True(t, got["a1"]["2024-03-15"])
	require.True(t, got["a2"]["W_2024-03-11"])
	require.Nil(t, got["a3"], "last month's completion is outside the requested keys")

	other, err := repo.CompletedPeriods(ctx, "tenant2", []string{"a1"}, []string{"2024-03-15"})
	require.NoError(t, err)
	require.Empty(t, other)

	empty, err := repo.CompletedPeriods(ctx, "tenant1", nil, []string{"2024-03-15"})
	require.NoError(t, err)
	require.Empty(t, empty)
}
