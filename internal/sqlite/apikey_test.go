package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rpggio/cadence/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRepository_ResolveTenant(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddKey(ctx, "tenant1", "secret-token", "laptop"))

	tenantID, err := repo.ResolveTenant(ctx, "secret-token")
	require.NoError(t, err)
	require.Equal(t, "tenant1", tenantID)

	var lastUsed sql.NullTime
	require.NoError(t, db.QueryRow(`SELECT last_used FROM api_keys WHERE key_hash = ?`, HashToken("secret-token")).Scan(&lastUsed))
	require.True(t, lastUsed.Valid)

	_, err = repo.ResolveTenant(ctx, "wrong-token")
	require.ErrorIs(t, err, ErrInvalidAPIKey)

	require.ErrorIs(t, repo.AddKey(ctx, "tenant2", "secret-token", ""), repository.ErrConflict)
	require.ErrorIs(t, repo.AddKey(ctx, "", "other", ""), repository.ErrInvalidInput)
}

func TestHashToken_NeverStoresRawToken(t *testing.T) {
	hash := HashToken("abc")
	require.Len(t, hash, 64)
	require.NotContains(t, hash, "abc")
	require.Equal(t, hash, HashToken("abc"))
}

func TestTenantRepository_ListTenants(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTenantRepository(db)
	ctx := context.Background()

	tenants, err := repo.ListTenants(ctx)
	require.NoError(t, err)
	require.Empty(t, tenants)

	insertAction(t, db, "a1", "tenant-b", "daily")
	insertAction(t, db, "a2", "tenant-a", "weekly")
	insertSignal(t, db, "s1", "tenant-b", "daily")
	insertSignal(t, db, "s2", "tenant-c", "weekly")

	tenants, err = repo.ListTenants(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"tenant-a", "tenant-b", "tenant-c"}, tenants)
}
