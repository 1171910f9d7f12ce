package repository

import (
	"context"
	"testing"

	"linksphere/internal/models"
	"linksphere/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_Upsert(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")

	_, err := repo.GetByUserID(ctx, alice.ID)
	assert.True(t, models.IsNotFound(err))

	created, err := repo.Upsert(ctx, &models.Profile{UserID: alice.ID, Headline: "Engineer", Skills: "go,sql"})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", created.Headline)

	updated, err := repo.Upsert(ctx, &models.Profile{UserID: alice.ID, Headline: "Staff Engineer", Location: "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Staff Engineer", updated.Headline)
	assert.Equal(t, "Lisbon", updated.Location)
	assert.Equal(t, "", updated.Skills)

	assert.Equal(t, int64(1), testutil.CountRows(t, db, "profiles", "user_id = ?", alice.ID))
}
