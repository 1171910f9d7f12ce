package service

import (
	"context"
	"log/slog"

	"linksphere/internal/middleware"
	"linksphere/internal/models"
	"linksphere/internal/notifications"
	"linksphere/internal/observability"
	"linksphere/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	events      EventPublisher
}

type AddCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type DeleteCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	events EventPublisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		events:      events,
	}
}

func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (comment *models.Comment, err error) {
	span, ctx := observability.StartSpan(ctx, "CommentService.AddComment",
		observability.UserAttr(in.UserID), observability.PostAttr(in.PostID))
	defer func() { span.End(err) }()

	content, err := requireText("Content", in.Content, models.MaxCommentLength)
	if err != nil {
		return nil, err
	}

	comment, err = s.commentRepo.Add(ctx, in.PostID, in.UserID, content)
	if err != nil {
		return nil, err
	}
	observability.EngagementTransitions.WithLabelValues("comment", "activate", observability.OutcomeApplied).Inc()

	if post, err := s.postRepo.GetByID(ctx, in.PostID); err == nil {
		notify(ctx, s.events, post.UserID, notifications.Event{
			Type:      notifications.EventPostCommented,
			ActorID:   in.UserID,
			PostID:    in.PostID,
			CommentID: comment.ID,
		})
	}
	return comment, nil
}

// DeleteComment removes a comment. The comment author and the post author
// may delete it; anyone else is refused.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (err error) {
	span, ctx := observability.StartSpan(ctx, "CommentService.DeleteComment",
		observability.UserAttr(in.UserID), observability.PostAttr(in.PostID))
	defer func() { span.End(err) }()

	comment, err := s.commentRepo.Delete(ctx, in.PostID, in.CommentID, in.UserID)
	if err != nil {
		return err
	}
	observability.EngagementTransitions.WithLabelValues("comment", "deactivate", observability.OutcomeApplied).Inc()

	middleware.Logger.InfoContext(ctx, "comment deleted",
		slog.Uint64("comment_id", uint64(comment.ID)),
		slog.Uint64("post_id", uint64(in.PostID)),
		slog.Bool("by_author", comment.UserID == in.UserID),
	)
	return nil
}
