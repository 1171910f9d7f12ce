package server

import (
	"linksphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles PUT and POST /api/profile
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var req struct {
		Headline       string `json:"headline"`
		About          string `json:"about"`
		Skills         string `json:"skills"`
		ProfilePicture string `json:"profile_picture"`
		Education      string `json:"education"`
		Experience     string `json:"experience"`
		Location       string `json:"location"`
		ContactInfo    string `json:"contact_info"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	profile, err := s.profileService.UpsertProfile(c.UserContext(), service.UpsertProfileInput{
		UserID:         currentUserID(c),
		Headline:       req.Headline,
		About:          req.About,
		Skills:         req.Skills,
		ProfilePicture: req.ProfilePicture,
		Education:      req.Education,
		Experience:     req.Experience,
		Location:       req.Location,
		ContactInfo:    req.ContactInfo,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}
