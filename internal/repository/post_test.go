package repository

import (
	"context"
	"testing"

	"linksphere/internal/models"
	"linksphere/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CreateSnapshotsAuthor(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "alice")
	testutil.CreateProfile(t, db, author.ID, "Engineer", "/uploads/alice.png")

	post := &models.Post{
		UserID:      author.ID,
		Description: "hello world",
		MediaURLs:   []string{"/uploads/a.png", "/uploads/b.mp4"},
		MediaTypes:  []string{"image", "video"},
		LikesCount:  42,
	}
	require.NoError(t, repo.Create(ctx, post))
	assert.NotZero(t, post.ID)
	assert.Equal(t, "alice", post.Username)
	assert.Equal(t, "/uploads/alice.png", post.ProfilePicture)
	assert.Zero(t, post.LikesCount)

	stored, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.mp4"}, stored.MediaURLs)
	assert.Equal(t, []models.MediaItem{
		{URL: "/uploads/a.png", Type: "image"},
		{URL: "/uploads/b.mp4", Type: "video"},
	}, stored.Media())

	// Later profile edits do not reach the post.
	require.NoError(t, db.Model(&models.Profile{}).Where("user_id = ?", author.ID).
		Update("profile_picture", "/uploads/new.png").Error)
	stored, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/alice.png", stored.ProfilePicture)
}

func TestPostRepository_CreateUnknownAuthor(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)

	err := repo.Create(context.Background(), &models.Post{UserID: 404, Description: "x"})
	assert.True(t, models.IsNotFound(err))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, "posts", ""))
}

func TestPostRepository_GetByIDNotFound(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	_, err := NewPostRepository(db).GetByID(context.Background(), 77)
	assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	first := testutil.CreatePost(t, db, alice, "first")
	second := testutil.CreatePost(t, db, bob, "second")
	third := testutil.CreatePost(t, db, alice, "third")

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []uint{third.ID, second.ID, first.ID}, []uint{posts[0].ID, posts[1].ID, posts[2].ID})

	mine, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, third.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
}

func TestPostRepository_Search(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	worldwide := testutil.CreateUser(t, db, "worldwide")
	hello := testutil.CreatePost(t, db, alice, "hello world")
	testutil.CreatePost(t, db, alice, "goodbye")
	byName := testutil.CreatePost(t, db, worldwide, "no match in text")
	percent := testutil.CreatePost(t, db, alice, "100% done")
	accented := testutil.CreatePost(t, db, alice, "École ouverte")

	tests := []struct {
		name  string
		query string
		want  []uint
	}{
		{"case insensitive description or username", "WORLD", []uint{byName.ID, hello.ID}},
		{"no match", "absent", []uint{}},
		{"wildcards are literal", "%", []uint{percent.ID}},
		{"underscore is literal", "_", []uint{}},
		{"non-ASCII letters fold case", "ÉCOLE", []uint{accented.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := repo.Search(ctx, tt.query)
			require.NoError(t, err)
			ids := []uint{}
			for _, p := range posts {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	all, err := repo.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestPostRepository_UpdateOwnership(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	mallory := testutil.CreateUser(t, db, "mallory")
	post := testutil.CreatePost(t, db, alice, "original")

	err := repo.Update(ctx, &models.Post{ID: post.ID, UserID: mallory.ID, Description: "hijacked"})
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
	assert.Contains(t, err.Error(), "not owned")

	err = repo.Update(ctx, &models.Post{ID: 999, UserID: alice.ID, Description: "ghost"})
	assert.True(t, models.IsNotFound(err))

	update := &models.Post{
		ID:          post.ID,
		UserID:      alice.ID,
		Description: "edited",
		MediaURLs:   []string{"/uploads/x.png"},
		MediaTypes:  []string{"image"},
	}
	require.NoError(t, repo.Update(ctx, update))
	assert.Equal(t, "edited", update.Description)
	assert.Equal(t, "alice", update.Username)
	assert.Equal(t, []string{"/uploads/x.png"}, update.MediaURLs)
	assert.False(t, update.UpdatedAt.Before(post.UpdatedAt))
}

func TestPostRepository_DeleteCascadesFacts(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	engagement := NewEngagementRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, alice, "doomed")
	other := testutil.CreatePost(t, db, alice, "survivor")

	_, err := engagement.Activate(ctx, models.EngagementLike, post.ID, bob.ID)
	require.NoError(t, err)
	_, err = engagement.Activate(ctx, models.EngagementSave, post.ID, bob.ID)
	require.NoError(t, err)
	_, err = engagement.Activate(ctx, models.EngagementLike, other.ID, bob.ID)
	require.NoError(t, err)
	_, err = comments.Add(ctx, post.ID, bob.ID, "nice")
	require.NoError(t, err)

	err = repo.Delete(ctx, post.ID, bob.ID)
	assert.True(t, models.IsNotFound(err))
	assert.Equal(t, int64(2), testutil.CountRows(t, db, "posts", ""))

	require.NoError(t, repo.Delete(ctx, post.ID, alice.ID))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, "post_likes", "post_id = ?", post.ID))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, "post_saves", "post_id = ?", post.ID))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, "comments", "post_id = ?", post.ID))
	assert.Equal(t, int64(1), testutil.CountRows(t, db, "post_likes", "post_id = ?", other.ID))

	_, err = repo.GetByID(ctx, post.ID)
	assert.True(t, models.IsNotFound(err))

	err = repo.Delete(ctx, post.ID, alice.ID)
	assert.True(t, models.IsNotFound(err))
}
