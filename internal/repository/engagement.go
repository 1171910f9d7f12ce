package repository

import (
	"context"
	"fmt"

	"linksphere/internal/models"
	"linksphere/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository maintains the like and save ledgers. A fact row and
// the matching post counter always change in the same transaction.
type EngagementRepository interface {
	Activate(ctx context.Context, kind models.EngagementKind, postID, userID uint) (bool, error)
	Deactivate(ctx context.Context, kind models.EngagementKind, postID, userID uint) (bool, error)
	IsActive(ctx context.Context, kind models.EngagementKind, postID, userID uint) (bool, error)
	CountFacts(ctx context.Context, kind models.EngagementKind, postID uint) (int64, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func newFact(kind models.EngagementKind, postID, userID uint) (interface{}, error) {
	switch kind {
	case models.EngagementLike:
		return &models.PostLike{PostID: postID, UserID: userID}, nil
	case models.EngagementSave:
		return &models.PostSave{PostID: postID, UserID: userID}, nil
	default:
		return nil, models.NewValidationError(fmt.Sprintf("unknown engagement kind %q", kind))
	}
}

// Activate records the engagement if it is absent and bumps the counter. It
// reports whether the ledger changed.
func (r *engagementRepository) Activate(ctx context.Context, kind models.EngagementKind, postID, userID uint) (bool, error) {
	defer observability.TrackQuery("activate_"+string(kind), kind.Table())()

	fact, err := newFact(kind, postID, userID)
	if err != nil {
		return false, err
	}

	changed := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockPost(tx, postID); err != nil {
			return err
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(fact)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		changed = true
		return incrementCounter(tx, postID, kind.CounterColumn())
	})
	if err != nil {
		return false, txError(err)
	}
	return changed, nil
}

// Deactivate removes the engagement if present and lowers the counter. It
// reports whether the ledger changed.
func (r *engagementRepository) Deactivate(ctx context.Context, kind models.EngagementKind, postID, userID uint) (bool, error) {
	defer observability.TrackQuery("deactivate_"+string(kind), kind.Table())()

	fact, err := newFact(kind, 0, 0)
	if err != nil {
		return false, err
	}

	changed := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockPost(tx, postID); err != nil {
			return err
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(fact)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		changed = true
		return decrementCounter(tx, postID, kind.CounterColumn())
	})
	if err != nil {
		return false, txError(err)
	}
	return changed, nil
}

func (r *engagementRepository) IsActive(ctx context.Context, kind models.EngagementKind, postID, userID uint) (bool, error) {
	if !kind.Valid() {
		return false, models.NewValidationError(fmt.Sprintf("unknown engagement kind %q", kind))
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *engagementRepository) CountFacts(ctx context.Context, kind models.EngagementKind, postID uint) (int64, error) {
	if !kind.Valid() {
		return 0, models.NewValidationError(fmt.Sprintf("unknown engagement kind %q", kind))
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
