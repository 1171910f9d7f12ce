package repository

import (
	"errors"

	"linksphere/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockPost takes a row lock on the post for the rest of tx and returns its id
// and author. SQLite has no row locks; its single writer serializes instead.
func lockPost(tx *gorm.DB, postID uint) (*models.Post, error) {
	var post models.Post
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "user_id").
		Where("id = ?", postID).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	return &post, nil
}

// lookupError maps a missing row to NotFound for resource and anything else
// to an infrastructure failure.
func lookupError(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// txError passes application errors raised inside a transaction through and
// wraps everything else as an infrastructure failure.
func txError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}

func incrementCounter(tx *gorm.DB, postID uint, column string) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

// decrementCounter lowers the counter by one, never below zero.
func decrementCounter(tx *gorm.DB, postID uint, column string) error {
	return tx.Model(&models.Post{}).
		Where("id = ? AND "+column+" > 0", postID).
		UpdateColumn(column, gorm.Expr(column+" - 1")).Error
}
