// Package testutil provides SQLite-backed databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"

	"linksphere/internal/config"
	"linksphere/internal/database"
	"linksphere/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLiteDB returns an in-memory database with the SQL migrations applied.
// The pool holds a single connection, so the database lives as long as the test.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Connect(&config.Config{
		Env:          "test",
		DBDriver:     "sqlite",
		DBSQLitePath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.RunMigrations(db))
	return db
}

// CreateUser inserts a user named username with email <username>@example.com.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hash",
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProfile inserts a profile for userID.
func CreateProfile(t testing.TB, db *gorm.DB, userID uint, headline, picture string) *models.Profile {
	t.Helper()
	profile := &models.Profile{UserID: userID, Headline: headline, ProfilePicture: picture}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

// CreatePost inserts a post authored by author with zero counters.
func CreatePost(t testing.TB, db *gorm.DB, author *models.User, description string) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:      author.ID,
		Username:    author.Username,
		Description: description,
		MediaURLs:   []string{},
		MediaTypes:  []string{},
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// Connect inserts both directions of an edge between a and b.
func Connect(t testing.TB, db *gorm.DB, a, b uint) {
	t.Helper()
	require.NoError(t, db.Create(&[]models.Connection{
		{UserID: a, ConnectedUserID: b},
		{UserID: b, ConnectedUserID: a},
	}).Error)
}

// CountRows returns the number of rows in table matching where.
func CountRows(t testing.TB, db *gorm.DB, table string, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
