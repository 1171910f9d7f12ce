// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"strings"

	"linksphere/internal/models"
	"linksphere/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ResolveUserIDByEmail(ctx context.Context, email string) (uint, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get_by_id", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, lookupError(err, "User", id)
	}
	return &user, nil
}

// GetByEmail matches email case-insensitively, ignoring surrounding spaces.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observability.TrackQuery("get_by_email", "users")()

	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", email).Take(&user).Error
	if err != nil {
		return nil, lookupError(err, "User", email)
	}
	return &user, nil
}

// ResolveUserIDByEmail maps an authenticated principal to its user id.
func (r *userRepository) ResolveUserIDByEmail(ctx context.Context, email string) (uint, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
