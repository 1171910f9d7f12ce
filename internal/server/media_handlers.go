package server

import (
	"io"

	"linksphere/internal/models"
	"linksphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia handles POST /api/posts/upload. The multipart field is "file".
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}

	upload, err := s.mediaService.Upload(c.UserContext(), service.UploadMediaInput{
		UserID:      currentUserID(c),
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(upload)
}
