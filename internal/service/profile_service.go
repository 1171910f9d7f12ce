package service

import (
	"context"

	"linksphere/internal/models"
	"linksphere/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

// UpsertProfileInput carries the editable profile fields. Education,
// experience, location and contact info are stored as given.
type UpsertProfileInput struct {
	UserID         uint
	Headline       string
	About          string
	Skills         string
	ProfilePicture string
	Education      string
	Experience     string
	Location       string
	ContactInfo    string
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// UpsertProfile creates or replaces the caller's profile. Posts and comments
// keep the author details they were written with.
func (s *ProfileService) UpsertProfile(ctx context.Context, in UpsertProfileInput) (*models.Profile, error) {
	if err := optionalText("Headline", in.Headline, models.MaxHeadlineLength); err != nil {
		return nil, err
	}
	if err := optionalText("About", in.About, models.MaxAboutLength); err != nil {
		return nil, err
	}
	if err := optionalText("Skills", in.Skills, models.MaxSkillsLength); err != nil {
		return nil, err
	}

	return s.profileRepo.Upsert(ctx, &models.Profile{
		UserID:         in.UserID,
		Headline:       in.Headline,
		About:          in.About,
		Skills:         in.Skills,
		ProfilePicture: in.ProfilePicture,
		Education:      in.Education,
		Experience:     in.Experience,
		Location:       in.Location,
		ContactInfo:    in.ContactInfo,
	})
}
