package service

import (
	"context"
	"testing"

	"linksphere/internal/models"
	"linksphere/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementService_LikeNotifiesAuthorOnce(t *testing.T) {
	t.Parallel()

	changed := true
	eng := noopEngagementRepo()
	eng.activateFn = func(_ context.Context, kind models.EngagementKind, _, _ uint) (bool, error) {
		assert.Equal(t, models.EngagementLike, kind)
		return changed, nil
	}
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 10, LikesCount: 1}, nil
	}
	events := &eventRecorder{}
	svc := NewEngagementService(eng, posts, events)

	post, err := svc.LikePost(context.Background(), 3, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.LikesCount)

	changed = false
	_, err = svc.LikePost(context.Background(), 3, 20)
	require.NoError(t, err)

	got := events.recorded()
	require.Len(t, got, 1)
	assert.Equal(t, uint(10), got[0].recipient)
	assert.Equal(t, notifications.EventPostLiked, got[0].event.Type)
	assert.Equal(t, uint(3), got[0].event.PostID)
}

func TestEngagementService_SelfEngagementIsSilent(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 5}, nil
	}
	events := &eventRecorder{}
	svc := NewEngagementService(noopEngagementRepo(), posts, events)

	_, err := svc.SavePost(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Empty(t, events.recorded())
}

func TestEngagementService_DeactivateRoutesKind(t *testing.T) {
	t.Parallel()

	var kinds []models.EngagementKind
	eng := noopEngagementRepo()
	eng.deactivateFn = func(_ context.Context, kind models.EngagementKind, _, _ uint) (bool, error) {
		kinds = append(kinds, kind)
		return false, nil
	}
	events := &eventRecorder{}
	svc := NewEngagementService(eng, noopPostRepo(), events)

	_, err := svc.UnlikePost(context.Background(), 1, 2)
	require.NoError(t, err)
	_, err = svc.UnsavePost(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Equal(t, []models.EngagementKind{models.EngagementLike, models.EngagementSave}, kinds)
	assert.Empty(t, events.recorded())
}

func TestEngagementService_MissingPost(t *testing.T) {
	t.Parallel()

	eng := noopEngagementRepo()
	eng.activateFn = func(_ context.Context, _ models.EngagementKind, postID, _ uint) (bool, error) {
		return false, models.NewNotFoundError("Post", postID)
	}
	svc := NewEngagementService(eng, noopPostRepo(), nil)

	_, err := svc.LikePost(context.Background(), 404, 1)
	assertAppErrorCode(t, err, models.CodeNotFound)
}
