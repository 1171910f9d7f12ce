package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"linksphere/internal/models"
	"linksphere/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectionRepoStub is a stub for repository.ConnectionRepository.
type connectionRepoStub struct {
	listFn        func(context.Context, uint) ([]models.ConnectionSummary, error)
	existsFn      func(context.Context, uint, uint) (bool, error)
	connectFn     func(context.Context, uint, uint) (bool, error)
	disconnectFn  func(context.Context, uint, uint) (bool, error)
	suggestionsFn func(context.Context, uint) ([]models.ConnectionSummary, error)
}

func (s *connectionRepoStub) List(ctx context.Context, userID uint) ([]models.ConnectionSummary, error) {
	return s.listFn(ctx, userID)
}
func (s *connectionRepoStub) Exists(ctx context.Context, userID, peerID uint) (bool, error) {
	return s.existsFn(ctx, userID, peerID)
}
func (s *connectionRepoStub) Connect(ctx context.Context, userID, peerID uint) (bool, error) {
	return s.connectFn(ctx, userID, peerID)
}
func (s *connectionRepoStub) Disconnect(ctx context.Context, userID, peerID uint) (bool, error) {
	return s.disconnectFn(ctx, userID, peerID)
}
func (s *connectionRepoStub) Suggestions(ctx context.Context, userID uint) ([]models.ConnectionSummary, error) {
	return s.suggestionsFn(ctx, userID)
}

func noopConnectionRepo() *connectionRepoStub {
	return &connectionRepoStub{
		listFn:        func(context.Context, uint) ([]models.ConnectionSummary, error) { return nil, nil },
		existsFn:      func(context.Context, uint, uint) (bool, error) { return false, nil },
		connectFn:     func(context.Context, uint, uint) (bool, error) { return true, nil },
		disconnectFn:  func(context.Context, uint, uint) (bool, error) { return true, nil },
		suggestionsFn: func(context.Context, uint) ([]models.ConnectionSummary, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	existsFn     func(context.Context, uint) (bool, error)
	createFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) ResolveUserIDByEmail(ctx context.Context, email string) (uint, error) {
	u, err := s.getByEmailFn(ctx, email)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(context.Context, string) (*models.User, error) { return &models.User{ID: 1}, nil },
		existsFn:     func(context.Context, uint) (bool, error) { return true, nil },
		createFn:     func(context.Context, *models.User) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, uint) (*models.Post, error)
	listFn       func(context.Context) ([]models.Post, error)
	listByUserFn func(context.Context, uint) ([]models.Post, error)
	searchFn     func(context.Context, string) ([]models.Post, error)
	updateFn     func(context.Context, *models.Post) error
	deleteFn     func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *postRepoStub) Search(ctx context.Context, query string) ([]models.Post, error) {
	return s.searchFn(ctx, query)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id, authorID uint) error {
	return s.deleteFn(ctx, id, authorID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:     func(context.Context, *models.Post) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:       func(context.Context) ([]models.Post, error) { return []models.Post{}, nil },
		listByUserFn: func(context.Context, uint) ([]models.Post, error) { return []models.Post{}, nil },
		searchFn:     func(context.Context, string) ([]models.Post, error) { return []models.Post{}, nil },
		updateFn:     func(context.Context, *models.Post) error { return nil },
		deleteFn:     func(context.Context, uint, uint) error { return nil },
	}
}

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	activateFn   func(context.Context, models.EngagementKind, uint, uint) (bool, error)
	deactivateFn func(context.Context, models.EngagementKind, uint, uint) (bool, error)
	isActiveFn   func(context.Context, models.EngagementKind, uint, uint) (bool, error)
}

func (s *engagementRepoStub) Activate(ctx context.Context, kind models.EngagementKind, postID, userID uint) (bool, error) {
	return s.activateFn(ctx, kind, postID, userID)
}
func (s *engagementRepoStub) Deactivate(ctx context.Context, kind models.EngagementKind, postID, userID uint) (bool, error) {
	return s.deactivateFn(ctx, kind, postID, userID)
}
func (s *engagementRepoStub) IsActive(ctx context.Context, kind models.EngagementKind, postID, userID uint) (bool, error) {
	return s.isActiveFn(ctx, kind, postID, userID)
}
func (s *engagementRepoStub) CountFacts(context.Context, models.EngagementKind, uint) (int64, error) {
	return 0, nil
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		activateFn:   func(context.Context, models.EngagementKind, uint, uint) (bool, error) { return true, nil },
		deactivateFn: func(context.Context, models.EngagementKind, uint, uint) (bool, error) { return true, nil },
		isActiveFn:   func(context.Context, models.EngagementKind, uint, uint) (bool, error) { return false, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	addFn        func(context.Context, uint, uint, string) (*models.Comment, error)
	deleteFn     func(context.Context, uint, uint, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]models.Comment, error)
}

func (s *commentRepoStub) Add(ctx context.Context, postID, userID uint, content string) (*models.Comment, error) {
	return s.addFn(ctx, postID, userID, content)
}
func (s *commentRepoStub) Delete(ctx context.Context, postID, commentID, actorID uint) (*models.Comment, error) {
	return s.deleteFn(ctx, postID, commentID, actorID)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		addFn: func(_ context.Context, postID, userID uint, content string) (*models.Comment, error) {
			return &models.Comment{ID: 1, PostID: postID, UserID: userID, Content: content}, nil
		},
		deleteFn: func(_ context.Context, postID, commentID, actorID uint) (*models.Comment, error) {
			return &models.Comment{ID: commentID, PostID: postID, UserID: actorID}, nil
		},
		listByPostFn: func(context.Context, uint) ([]models.Comment, error) { return []models.Comment{}, nil },
	}
}

// eventRecorder captures published events.
type eventRecorder struct {
	mu     sync.Mutex
	err    error
	events []recordedEvent
}

type recordedEvent struct {
	recipient uint
	event     notifications.Event
}

func (r *eventRecorder) Publish(_ context.Context, recipientID uint, ev notifications.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{recipient: recipientID, event: ev})
	return r.err
}

func (r *eventRecorder) recorded() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}
