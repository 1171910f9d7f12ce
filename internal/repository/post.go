package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"linksphere/internal/database"
	"linksphere/internal/models"
	"linksphere/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Post, error)
	Search(ctx context.Context, query string) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id, authorID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create stores the post with the author's current username and profile
// picture copied onto it. Counters always start at zero.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author models.User
		if err := tx.Select("id", "username").Where("id = ?", post.UserID).Take(&author).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", post.UserID)
			}
			return err
		}

		var pictures []string
		if err := tx.Model(&models.Profile{}).
			Where("user_id = ?", post.UserID).
			Pluck("COALESCE(profile_picture, '')", &pictures).Error; err != nil {
			return err
		}

		post.Username = author.Username
		post.ProfilePicture = ""
		if len(pictures) > 0 {
			post.ProfilePicture = pictures[0]
		}
		post.LikesCount, post.CommentsCount, post.SavesCount = 0, 0, 0
		return tx.Create(post).Error
	})
	return txError(err)
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	defer observability.TrackQuery("list", "posts")()
	return r.find(r.db.WithContext(ctx))
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// Search matches the query case-insensitively as a literal substring of the
// description or the author username. The empty query matches every post.
func (r *postRepository) Search(ctx context.Context, query string) ([]models.Post, error) {
	defer observability.TrackQuery("search", "posts")()

	lower := "LOWER"
	if r.db.Dialector.Name() == "sqlite" {
		lower = database.UnicodeLowerFunc
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return r.find(r.db.WithContext(ctx).Where(
		lower+`(description) LIKE ? ESCAPE '\' OR `+lower+`(username) LIKE ? ESCAPE '\'`,
		pattern, pattern,
	))
}

func (r *postRepository) find(db *gorm.DB) ([]models.Post, error) {
	posts := []models.Post{}
	if err := db.Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Update rewrites the editable fields of a post owned by post.UserID and
// reloads it. Missing and foreign posts are reported identically.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ? AND user_id = ?", post.ID, post.UserID).
			UpdateColumns(map[string]interface{}{
				"description": post.Description,
				"media_urls":  models.JoinMediaList(post.MediaURLs),
				"media_types": models.JoinMediaList(post.MediaTypes),
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundOrNotOwnedError("Post", post.ID)
		}
		return tx.First(post, post.ID).Error
	})
	return txError(err)
}

// Delete removes a post owned by authorID together with its likes, saves and
// comments.
func (r *postRepository) Delete(ctx context.Context, id, authorID uint) error {
	defer observability.TrackQuery("delete", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, id)
		if err != nil {
			if models.IsNotFound(err) {
				return models.NewNotFoundOrNotOwnedError("Post", id)
			}
			return err
		}
		if post.UserID != authorID {
			return models.NewNotFoundOrNotOwnedError("Post", id)
		}

		for _, child := range []interface{}{&models.PostLike{}, &models.PostSave{}, &models.Comment{}} {
			if err := tx.Where("post_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ? AND user_id = ?", id, authorID).Delete(&models.Post{}).Error
	})
	return txError(err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
