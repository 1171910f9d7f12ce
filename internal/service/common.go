// Package service implements the engine's operations on top of the
// repositories: validation, ownership checks, tracing, metrics and event
// publication.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"linksphere/internal/middleware"
	"linksphere/internal/models"
	"linksphere/internal/notifications"
)

// EventPublisher delivers best-effort notifications after a committed change.
type EventPublisher interface {
	Publish(ctx context.Context, recipientID uint, ev notifications.Event) error
}

// notify publishes ev to recipientID unless the recipient is the actor. A
// failed publish is logged and never fails the operation.
func notify(ctx context.Context, events EventPublisher, recipientID uint, ev notifications.Event) {
	if events == nil || recipientID == 0 || recipientID == ev.ActorID {
		return
	}
	if err := events.Publish(ctx, recipientID, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish event",
			slog.String("type", ev.Type),
			slog.Uint64("recipient_id", uint64(recipientID)),
			slog.String("error", err.Error()),
		)
	}
}

// requireText trims value and checks that it is non-blank and at most max
// characters long.
func requireText(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", models.NewValidationError(fmt.Sprintf("%s is required", field))
	}
	if utf8.RuneCountInString(trimmed) > max {
		return "", models.NewValidationError(fmt.Sprintf("%s too long (max %d characters)", field, max))
	}
	return trimmed, nil
}

// optionalText checks an optional field's length without altering it.
func optionalText(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return models.NewValidationError(fmt.Sprintf("%s too long (max %d characters)", field, max))
	}
	return nil
}
