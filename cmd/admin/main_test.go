package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"linksphere/internal/config"
	"linksphere/internal/database"
	"linksphere/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fileOpener reopens the same SQLite file for every command, since each
// command closes its connection when it finishes.
func fileOpener(t *testing.T) dbOpener {
	t.Helper()
	path := filepath.Join(t.TempDir(), "admin.db")
	return func() (*gorm.DB, error) {
		return database.Connect(&config.Config{
			Env:          "test",
			DBDriver:     "sqlite",
			DBSQLitePath: path,
		})
	}
}

func runAdmin(t *testing.T, open dbOpener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(open)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func withOpenDB(t *testing.T, open dbOpener, fn func(db *gorm.DB)) {
	t.Helper()
	db, err := open()
	require.NoError(t, err)
	defer func() { _ = database.Close(db) }()
	fn(db)
}

func TestMigrateCommands(t *testing.T) {
	open := fileOpener(t)

	out, err := runAdmin(t, open, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "version 0 of")
	assert.Contains(t, out, "pending=true")

	out, err = runAdmin(t, open, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "pending=false")

	_, err = runAdmin(t, open, "migrate", "down", "1")
	require.NoError(t, err)

	out, err = runAdmin(t, open, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "pending=true")

	_, err = runAdmin(t, open, "migrate", "down", "zero")
	assert.Error(t, err)
}

func TestSeedAndVerifyCounters(t *testing.T) {
	open := fileOpener(t)
	_, err := runAdmin(t, open, "migrate", "up")
	require.NoError(t, err)

	out, err := runAdmin(t, open, "seed",
		"--users", "4", "--posts", "1", "--connections", "1",
		"--engagement", "100", "--comments", "1", "--skip-bcrypt", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 4 users, 4 posts")

	out, err = runAdmin(t, open, "verify-counters")
	require.NoError(t, err)
	assert.Contains(t, out, "all counters match")

	withOpenDB(t, open, func(db *gorm.DB) {
		require.NoError(t, db.Model(&models.Post{}).Where("1 = 1").
			Update("likes_count", 99).Error)
	})

	out, err = runAdmin(t, open, "verify-counters")
	require.Error(t, err)
	assert.Contains(t, out, "likes_count: stored 99")

	out, err = runAdmin(t, open, "verify-counters", "--repair")
	require.NoError(t, err)
	assert.Contains(t, out, "repaired 4 counters")

	out, err = runAdmin(t, open, "verify-counters")
	require.NoError(t, err)
	assert.Contains(t, out, "all counters match")
}
