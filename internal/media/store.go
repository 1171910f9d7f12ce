// Package media stores uploaded post media and returns public URLs for it.
package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"linksphere/internal/config"

	"github.com/google/uuid"
)

// Store persists a media blob and returns the URL clients use to fetch it.
type Store interface {
	Save(ctx context.Context, data []byte, originalName, contentType string) (string, error)
}

// NewStore builds the backend selected by MEDIA_BACKEND.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.MediaBackend {
	case "", "filesystem":
		return NewFileSystemStore(cfg.MediaDir), nil
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:        cfg.MediaS3Bucket,
			Region:        cfg.MediaS3Region,
			Prefix:        cfg.MediaS3Prefix,
			Endpoint:      cfg.MediaS3Endpoint,
			AccessKey:     cfg.MediaS3AccessKey,
			SecretKey:     cfg.MediaS3SecretKey,
			PublicBaseURL: cfg.MediaPublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported MEDIA_BACKEND %q", cfg.MediaBackend)
	}
}

// ObjectName returns a collision-free name that keeps a readable suffix of the
// client's file name.
func ObjectName(originalName string) string {
	return uuid.NewString() + "_" + SanitizeName(originalName)
}

// SanitizeName strips directories and replaces characters outside
// [A-Za-z0-9._-] with underscores.
func SanitizeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		base = ""
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
