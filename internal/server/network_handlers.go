package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListConnections handles GET /api/network/connections
func (s *Server) ListConnections(c *fiber.Ctx) error {
	conns, err := s.networkService.ListConnections(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(conns)
}

// GetSuggestions handles GET /api/network/suggestions
func (s *Server) GetSuggestions(c *fiber.Ctx) error {
	suggestions, err := s.networkService.Suggest(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suggestions)
}

// Connect handles POST /api/network/connect/:userId
func (s *Server) Connect(c *fiber.Ctx) error {
	peerID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	if err := s.networkService.Connect(c.UserContext(), currentUserID(c), peerID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"connected": true})
}

// Disconnect handles DELETE /api/network/disconnect/:userId
func (s *Server) Disconnect(c *fiber.Ctx) error {
	peerID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	if err := s.networkService.Disconnect(c.UserContext(), currentUserID(c), peerID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"connected": false})
}
