package service

import (
	"context"
	"log/slog"

	"linksphere/internal/middleware"
	"linksphere/internal/models"
	"linksphere/internal/notifications"
	"linksphere/internal/observability"
	"linksphere/internal/repository"
)

// NetworkService manages the connection graph and suggestions.
type NetworkService struct {
	connRepo repository.ConnectionRepository
	userRepo repository.UserRepository
	events   EventPublisher
}

func NewNetworkService(
	connRepo repository.ConnectionRepository,
	userRepo repository.UserRepository,
	events EventPublisher,
) *NetworkService {
	return &NetworkService{
		connRepo: connRepo,
		userRepo: userRepo,
		events:   events,
	}
}

func (s *NetworkService) ListConnections(ctx context.Context, userID uint) ([]models.ConnectionSummary, error) {
	return s.connRepo.List(ctx, userID)
}

// Suggest lists users the caller is not connected to yet. It is recomputed on
// every call.
func (s *NetworkService) Suggest(ctx context.Context, userID uint) ([]models.ConnectionSummary, error) {
	span, ctx := observability.StartSpan(ctx, "NetworkService.Suggest", observability.UserAttr(userID))
	suggestions, err := s.connRepo.Suggestions(ctx, userID)
	span.End(err)
	return suggestions, err
}

func (s *NetworkService) IsConnected(ctx context.Context, userID, peerID uint) (bool, error) {
	return s.connRepo.Exists(ctx, userID, peerID)
}

// Connect creates the symmetric edge between userID and peerID. Connecting
// twice is a no-op.
func (s *NetworkService) Connect(ctx context.Context, userID, peerID uint) (err error) {
	span, ctx := observability.StartSpan(ctx, "NetworkService.Connect",
		observability.UserAttr(userID), observability.PeerAttr(peerID))
	defer func() { span.End(err) }()

	if userID == peerID {
		return models.NewValidationError("You cannot connect with yourself")
	}
	exists, err := s.userRepo.Exists(ctx, peerID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("User", peerID)
	}

	created, err := s.connRepo.Connect(ctx, userID, peerID)
	if err != nil {
		return err
	}
	observability.ConnectionMutations.WithLabelValues("connect", observability.Outcome(created)).Inc()

	if created {
		middleware.Logger.InfoContext(ctx, "connection created",
			slog.Uint64("user_id", uint64(userID)),
			slog.Uint64("peer_id", uint64(peerID)),
		)
		notify(ctx, s.events, peerID, notifications.Event{
			Type:    notifications.EventConnectionAdded,
			ActorID: userID,
		})
	}
	return nil
}

// Disconnect removes the edge in both directions. Removing a missing edge is
// a no-op.
func (s *NetworkService) Disconnect(ctx context.Context, userID, peerID uint) (err error) {
	span, ctx := observability.StartSpan(ctx, "NetworkService.Disconnect",
		observability.UserAttr(userID), observability.PeerAttr(peerID))
	defer func() { span.End(err) }()

	removed, err := s.connRepo.Disconnect(ctx, userID, peerID)
	if err != nil {
		return err
	}
	observability.ConnectionMutations.WithLabelValues("disconnect", observability.Outcome(removed)).Inc()

	if removed {
		middleware.Logger.InfoContext(ctx, "connection removed",
			slog.Uint64("user_id", uint64(userID)),
			slog.Uint64("peer_id", uint64(peerID)),
		)
		notify(ctx, s.events, peerID, notifications.Event{
			Type:    notifications.EventConnectionRemoved,
			ActorID: userID,
		})
	}
	return nil
}
