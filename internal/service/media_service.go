package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"linksphere/internal/media"
	"linksphere/internal/middleware"
	"linksphere/internal/models"
)

// Media types attached to posts.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeFile  = "file"
)

type MediaService struct {
	store    media.Store
	maxBytes int64
}

type UploadMediaInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Data        []byte
}

// MediaUpload is the stored location of an upload and the media type a post
// should declare for it.
type MediaUpload struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

func NewMediaService(store media.Store, maxBytes int64) *MediaService {
	return &MediaService{store: store, maxBytes: maxBytes}
}

func (s *MediaService) Upload(ctx context.Context, in UploadMediaInput) (*MediaUpload, error) {
	if len(in.Data) == 0 {
		return nil, models.NewValidationError("File is empty")
	}
	if s.maxBytes > 0 && int64(len(in.Data)) > s.maxBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %d bytes)", s.maxBytes))
	}

	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(in.Data)
	}

	url, err := s.store.Save(ctx, in.Data, in.Filename, contentType)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	middleware.Logger.InfoContext(ctx, "media stored",
		slog.String("url", url),
		slog.String("content_type", contentType),
		slog.Int("bytes", len(in.Data)),
	)
	return &MediaUpload{URL: url, Type: mediaTypeFor(contentType)}, nil
}

func mediaTypeFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return MediaTypeVideo
	default:
		return MediaTypeFile
	}
}
