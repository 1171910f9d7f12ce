package repository

import (
	"context"

	"linksphere/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository reads and writes the one-to-one user profile.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&profile).Error; err != nil {
		return nil, lookupError(err, "Profile", userID)
	}
	return &profile, nil
}

// Upsert inserts the profile or overwrites the editable fields of the
// existing row for the same user, then returns the stored row.
func (r *profileRepository) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"headline", "about", "skills", "profile_picture",
			"education", "experience", "location", "contact_info", "updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.GetByUserID(ctx, profile.UserID)
}
