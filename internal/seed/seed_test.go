package seed

import (
	"context"
	"testing"

	"linksphere/internal/models"
	"linksphere/internal/repository"
	"linksphere/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeed_CountersMatchLedgers(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	res, err := Seed(ctx, db, Options{
		NumUsers:           5,
		PostsPerUser:       2,
		ConnectionsPerUser: 2,
		EngagementPercent:  100,
		CommentsPerPost:    1,
		SkipBcrypt:         true,
		RandomSeed:         42,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Users)
	assert.Equal(t, 10, res.Posts)
	// Every non-author likes every post at 100%.
	assert.Equal(t, 40, res.Likes)
	assert.Equal(t, 10, res.Comments)

	assert.Equal(t, int64(res.Users), testutil.CountRows(t, db, "profiles", ""))
	assert.Equal(t, int64(res.Likes), testutil.CountRows(t, db, "post_likes", ""))
	assert.Equal(t, int64(res.Saves), testutil.CountRows(t, db, "post_saves", ""))
	assert.Equal(t, int64(2*res.Connections), testutil.CountRows(t, db, "connections", ""))

	drift, err := repository.NewCounterAudit(db).Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func TestFactory_CreateUserHashesPassword(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	f, err := NewFactory(db, Options{RandomSeed: 7})
	require.NoError(t, err)

	user, err := f.CreateUser(context.Background(), 1, func(u *models.User) {
		u.Username = "fixed"
		u.Email = "fixed@example.com"
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "fixed", user.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(DefaultPassword)))
}

func TestFactory_BuildPostIsValid(t *testing.T) {
	f, err := NewFactory(nil, Options{SkipBcrypt: true, RandomSeed: 3})
	require.NoError(t, err)

	author := &models.User{ID: 9, Username: "author"}
	for i := 0; i < 20; i++ {
		post := f.BuildPost(author)
		assert.Equal(t, uint(9), post.UserID)
		assert.NotEmpty(t, post.Description)
		assert.LessOrEqual(t, len([]rune(post.Description)), models.MaxDescriptionLength)
		assert.Len(t, post.MediaTypes, len(post.MediaURLs))
	}
}
