package service

import (
	"context"
	"log/slog"

	"linksphere/internal/middleware"
	"linksphere/internal/models"
	"linksphere/internal/notifications"
	"linksphere/internal/observability"
	"linksphere/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// EngagementService drives the like and save ledgers and returns the post as
// it stands after each transition.
type EngagementService struct {
	engagementRepo repository.EngagementRepository
	postRepo       repository.PostRepository
	events         EventPublisher
}

func NewEngagementService(
	engagementRepo repository.EngagementRepository,
	postRepo repository.PostRepository,
	events EventPublisher,
) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		postRepo:       postRepo,
		events:         events,
	}
}

func (s *EngagementService) LikePost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	return s.transition(ctx, models.EngagementLike, true, postID, userID)
}

func (s *EngagementService) UnlikePost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	return s.transition(ctx, models.EngagementLike, false, postID, userID)
}

func (s *EngagementService) SavePost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	return s.transition(ctx, models.EngagementSave, true, postID, userID)
}

func (s *EngagementService) UnsavePost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	return s.transition(ctx, models.EngagementSave, false, postID, userID)
}

func (s *EngagementService) IsActive(ctx context.Context, kind models.EngagementKind, postID, userID uint) (bool, error) {
	return s.engagementRepo.IsActive(ctx, kind, postID, userID)
}

func (s *EngagementService) transition(
	ctx context.Context, kind models.EngagementKind, activate bool, postID, userID uint,
) (post *models.Post, err error) {
	direction := "deactivate"
	if activate {
		direction = "activate"
	}
	span, ctx := observability.StartSpan(ctx, "EngagementService."+direction,
		observability.UserAttr(userID),
		observability.PostAttr(postID),
		attribute.String("engagement.kind", string(kind)),
	)
	defer func() { span.End(err) }()

	var changed bool
	if activate {
		changed, err = s.engagementRepo.Activate(ctx, kind, postID, userID)
	} else {
		changed, err = s.engagementRepo.Deactivate(ctx, kind, postID, userID)
	}
	if err != nil {
		return nil, err
	}
	observability.EngagementTransitions.WithLabelValues(string(kind), direction, observability.Outcome(changed)).Inc()
	span.AddAttributes(attribute.Bool("engagement.changed", changed))

	post, err = s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if changed {
		middleware.Logger.InfoContext(ctx, "engagement changed",
			slog.String("kind", string(kind)),
			slog.String("direction", direction),
			slog.Uint64("post_id", uint64(postID)),
		)
	}
	if changed && activate {
		eventType := notifications.EventPostLiked
		if kind == models.EngagementSave {
			eventType = notifications.EventPostSaved
		}
		notify(ctx, s.events, post.UserID, notifications.Event{
			Type:    eventType,
			ActorID: userID,
			PostID:  postID,
		})
	}
	return post, nil
}
