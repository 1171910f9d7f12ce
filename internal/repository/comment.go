package repository

import (
	"context"
	"errors"

	"linksphere/internal/models"
	"linksphere/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Add(ctx context.Context, postID, userID uint, content string) (*models.Comment, error)
	Delete(ctx context.Context, postID, commentID, actorID uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Add appends a comment with the author's username snapshot and bumps the
// post's comment counter.
func (r *commentRepository) Add(ctx context.Context, postID, userID uint, content string) (*models.Comment, error) {
	defer observability.TrackQuery("add", "comments")()

	var comment *models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockPost(tx, postID); err != nil {
			return err
		}

		var author models.User
		if err := tx.Select("id", "username").Where("id = ?", userID).Take(&author).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", userID)
			}
			return err
		}

		comment = &models.Comment{
			PostID:   postID,
			UserID:   userID,
			Username: author.Username,
			Content:  content,
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return incrementCounter(tx, postID, "comments_count")
	})
	if err != nil {
		return nil, txError(err)
	}
	return comment, nil
}

// Delete removes a comment when actorID wrote it or owns the post, and lowers
// the post's comment counter. Anyone else gets a forbidden error and nothing
// changes.
func (r *commentRepository) Delete(ctx context.Context, postID, commentID, actorID uint) (*models.Comment, error) {
	defer observability.TrackQuery("delete", "comments")()

	var comment models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The post lock serializes concurrent deletes of the same comment, so
		// the read below sees any delete that committed first.
		post, err := lockPost(tx, postID)
		if err != nil {
			return err
		}

		if err := tx.Where("id = ? AND post_id = ?", commentID, postID).Take(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", commentID)
			}
			return err
		}
		if comment.UserID != actorID && post.UserID != actorID {
			return models.NewForbiddenError("Only the comment author or the post author can delete this comment")
		}

		res := tx.Delete(&models.Comment{}, comment.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return models.NewNotFoundError("Comment", commentID)
		}
		return decrementCounter(tx, postID, "comments_count")
	})
	if err != nil {
		return nil, txError(err)
	}
	return &comment, nil
}

// ListByPost returns the post's comments, newest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
