package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sagarc03/lanshare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepo_UpsertGetDelete(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	repo := db.GetRepo()

	first, inserted, err := repo.Upsert(ctx, lanshare.CatalogEntry{ID: "a1", Name: "old", Path: "/old", SizeBytes: 1})
	require.NoError(t, err)
	assert.True(t, inserted)

	second, inserted, err := repo.Upsert(ctx, lanshare.CatalogEntry{ID: "a1", Name: "new", Path: "/new", SizeBytes: 2})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, "/new", got.Path)
	assert.Equal(t, int64(2), got.SizeBytes)

	require.NoError(t, repo.Delete(ctx, "a1"))
	assert.ErrorIs(t, repo.Delete(ctx, "a1"), lanshare.ErrNotFound)

	_, err = repo.Get(ctx, "a1")
	assert.ErrorIs(t, err, lanshare.ErrNotFound)
}

func TestRepo_UpsertInvalid(t *testing.T) {
	db, _ := setupTestDB(t)

	_, _, err := db.GetRepo().Upsert(context.Background(), lanshare.CatalogEntry{ID: "x"})
	assert.ErrorIs(t, err, lanshare.ErrInvalidInput)
}

func TestRepo_List(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	repo := db.GetRepo()

	for i := 0; i < 3; i++ {
		_, _, err := repo.Upsert(ctx, lanshare.CatalogEntry{
			ID: fmt.Sprintf("id%d", i), Name: "n", Path: "/p", SizeBytes: int64(i),
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("id%d", i), e.ID)
	}
}

func TestDatabase_Validate(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	assert.NoError(t, db.Ping(ctx))
	assert.NoError(t, db.Validate(ctx))

	require.NoError(t, db.DropTables(ctx))
	err := db.Validate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
