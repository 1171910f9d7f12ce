package repository

import (
	"context"

	"linksphere/internal/models"
	"linksphere/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConnectionRepository persists the symmetric connection graph. Every edge is
// stored as two directed rows that are written and removed together.
type ConnectionRepository interface {
	List(ctx context.Context, userID uint) ([]models.ConnectionSummary, error)
	Exists(ctx context.Context, userID, peerID uint) (bool, error)
	Connect(ctx context.Context, userID, peerID uint) (bool, error)
	Disconnect(ctx context.Context, userID, peerID uint) (bool, error)
	Suggestions(ctx context.Context, userID uint) ([]models.ConnectionSummary, error)
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

// List returns the user's peers, newest edge first, with display fields
// joined from users and profiles.
func (r *connectionRepository) List(ctx context.Context, userID uint) ([]models.ConnectionSummary, error) {
	defer observability.TrackQuery("list", "connections")()

	var rows []models.ConnectionSummary
	if err := r.db.WithContext(ctx).
		Table("connections c").
		Select("u.id AS user_id, u.username, COALESCE(p.headline, '') AS headline, "+
			"COALESCE(p.profile_picture, '') AS profile_picture, c.created_at AS connected_at").
		Joins("JOIN users u ON u.id = c.connected_user_id").
		Joins("LEFT JOIN profiles p ON p.user_id = u.id").
		Where("c.user_id = ?", userID).
		Order("c.created_at DESC, c.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if rows == nil {
		rows = []models.ConnectionSummary{}
	}
	return rows, nil
}

func (r *connectionRepository) Exists(ctx context.Context, userID, peerID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("user_id = ? AND connected_user_id = ?", userID, peerID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Connect inserts both directed rows in one transaction. It reports whether a
// new edge was created; an existing edge is left untouched.
func (r *connectionRepository) Connect(ctx context.Context, userID, peerID uint) (bool, error) {
	defer observability.TrackQuery("connect", "connections")()

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, edge := range []models.Connection{
			{UserID: userID, ConnectedUserID: peerID},
			{UserID: peerID, ConnectedUserID: userID},
		} {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "connected_user_id"}},
				DoNothing: true,
			}).Create(&edge)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				created = true
			}
		}
		return nil
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return created, nil
}

// Disconnect removes both directed rows in one transaction and reports
// whether anything was deleted.
func (r *connectionRepository) Disconnect(ctx context.Context, userID, peerID uint) (bool, error) {
	defer observability.TrackQuery("disconnect", "connections")()

	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where(
			"(user_id = ? AND connected_user_id = ?) OR (user_id = ? AND connected_user_id = ?)",
			userID, peerID, peerID, userID,
		).Delete(&models.Connection{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return removed > 0, nil
}

// Suggestions returns every user other than userID that userID is not yet
// connected to, ordered byte-wise by username.
func (r *connectionRepository) Suggestions(ctx context.Context, userID uint) ([]models.ConnectionSummary, error) {
	defer observability.TrackQuery("suggestions", "connections")()

	db := r.db.WithContext(ctx)
	order := "u.username ASC, u.id ASC"
	if db.Dialector.Name() == "postgres" {
		order = `u.username COLLATE "C" ASC, u.id ASC`
	}

	connected := db.Model(&models.Connection{}).
		Select("connected_user_id").
		Where("user_id = ?", userID)

	var rows []models.ConnectionSummary
	if err := db.
		Table("users u").
		Select("u.id AS user_id, u.username, "+
			"COALESCE(NULLIF(p.headline, ''), ?) AS headline, "+
			"COALESCE(p.profile_picture, '') AS profile_picture", models.DefaultHeadline).
		Joins("LEFT JOIN profiles p ON p.user_id = u.id").
		Where("u.id <> ?", userID).
		Where("u.id NOT IN (?)", connected).
		Order(order).
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if rows == nil {
		rows = []models.ConnectionSummary{}
	}
	return rows, nil
}
