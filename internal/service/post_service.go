package service

import (
	"context"
	"log/slog"
	"strings"

	"linksphere/internal/middleware"
	"linksphere/internal/models"
	"linksphere/internal/observability"
	"linksphere/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID      uint
	Description string
	MediaURLs   []string
	MediaTypes  []string
}

type UpdatePostInput struct {
	UserID      uint
	PostID      uint
	Description string
	MediaURLs   []string
	MediaTypes  []string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// validatePostContent returns the trimmed description and normalized media
// lists. URLs and types are stored comma-joined, so neither may contain a
// comma.
func validatePostContent(description string, urls, types []string) (string, []string, []string, error) {
	desc, err := requireText("Description", description, models.MaxDescriptionLength)
	if err != nil {
		return "", nil, nil, err
	}
	if len(urls) != len(types) {
		return "", nil, nil, models.NewValidationError("Each media URL needs exactly one media type")
	}

	cleanURLs := make([]string, 0, len(urls))
	cleanTypes := make([]string, 0, len(types))
	for i := range urls {
		u := strings.TrimSpace(urls[i])
		t := strings.TrimSpace(types[i])
		if u == "" || t == "" {
			return "", nil, nil, models.NewValidationError("Media URLs and types cannot be blank")
		}
		if strings.Contains(u, ",") || strings.Contains(t, ",") {
			return "", nil, nil, models.NewValidationError("Media URLs and types cannot contain commas")
		}
		cleanURLs = append(cleanURLs, u)
		cleanTypes = append(cleanTypes, t)
	}
	return desc, cleanURLs, cleanTypes, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	span, ctx := observability.StartSpan(ctx, "PostService.CreatePost", observability.UserAttr(in.UserID))
	defer func() { span.End(err) }()

	desc, urls, types, err := validatePostContent(in.Description, in.MediaURLs, in.MediaTypes)
	if err != nil {
		return nil, err
	}

	post = &models.Post{
		UserID:      in.UserID,
		Description: desc,
		MediaURLs:   urls,
		MediaTypes:  types,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "post created",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.Int("media", len(urls)),
	)
	return post, nil
}

// UpdatePost replaces the description and media of a post the caller owns.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (post *models.Post, err error) {
	span, ctx := observability.StartSpan(ctx, "PostService.UpdatePost",
		observability.UserAttr(in.UserID), observability.PostAttr(in.PostID))
	defer func() { span.End(err) }()

	desc, urls, types, err := validatePostContent(in.Description, in.MediaURLs, in.MediaTypes)
	if err != nil {
		return nil, err
	}

	post = &models.Post{
		ID:          in.PostID,
		UserID:      in.UserID,
		Description: desc,
		MediaURLs:   urls,
		MediaTypes:  types,
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post the caller owns along with its engagement.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) (err error) {
	span, ctx := observability.StartSpan(ctx, "PostService.DeletePost",
		observability.UserAttr(userID), observability.PostAttr(postID))
	defer func() { span.End(err) }()

	if err := s.postRepo.Delete(ctx, postID, userID); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "post deleted", slog.Uint64("post_id", uint64(postID)))
	return nil
}

func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) ListUserPosts(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID)
}

// SearchPosts matches query against descriptions and author usernames. The
// empty query lists every post.
func (s *PostService) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	span, ctx := observability.StartSpan(ctx, "PostService.SearchPosts")
	posts, err := s.postRepo.Search(ctx, query)
	span.End(err)
	return posts, err
}
