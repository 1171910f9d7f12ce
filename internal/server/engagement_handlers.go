package server

import (
	"context"

	"linksphere/internal/models"

	"github.com/gofiber/fiber/v2"
)

type engagementFunc func(ctx context.Context, postID, userID uint) (*models.Post, error)

// engagementHandler adapts a like/save transition. The response carries the
// post as committed, so repeated calls return the same counters.
func engagementHandler(transition engagementFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return nil
		}
		post, err := transition(c.UserContext(), id, currentUserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(post)
	}
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	return engagementHandler(s.engagementService.LikePost)(c)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	return engagementHandler(s.engagementService.UnlikePost)(c)
}

// SavePost handles POST /api/posts/:id/save
func (s *Server) SavePost(c *fiber.Ctx) error {
	return engagementHandler(s.engagementService.SavePost)(c)
}

// UnsavePost handles DELETE /api/posts/:id/save
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	return engagementHandler(s.engagementService.UnsavePost)(c)
}
