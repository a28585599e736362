package service

import (
	"context"

	"campusmap/internal/models"
	"campusmap/internal/observability"
	"campusmap/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const defaultFeedLimit = 10

// feedLimit applies the default to non-positive limits. Feeds are truncated
// to exactly the requested size, without the list cap.
func feedLimit(limit int) int {
	if limit <= 0 {
		return defaultFeedLimit
	}
	return limit
}

// FeedService produces the newest and top-liked place feeds.
type FeedService struct {
	placeRepo repository.PlaceRepository
	assembler *PlaceService
}

func NewFeedService(placeRepo repository.PlaceRepository, assembler *PlaceService) *FeedService {
	return &FeedService{placeRepo: placeRepo, assembler: assembler}
}

// Newest returns the most recently created places.
func (s *FeedService) Newest(ctx context.Context, limit int) ([]models.PlaceView, error) {
	limit = feedLimit(limit)
	span, ctx := observability.NewSpan(ctx, "feed.newest", attribute.Int("feed.limit", limit))
	defer span.End()
	observability.FeedRequestsTotal.WithLabelValues("new").Inc()

	places, err := s.placeRepo.ListNewest(ctx, limit)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.assembler.AssembleAll(ctx, places)
}

// Top ranks places by like count, newest first among ties. The displayed
// counts are read after ranking and do not influence order.
func (s *FeedService) Top(ctx context.Context, limit int) ([]models.PlaceView, error) {
	limit = feedLimit(limit)
	span, ctx := observability.NewSpan(ctx, "feed.top", attribute.Int("feed.limit", limit))
	defer span.End()
	observability.FeedRequestsTotal.WithLabelValues("top").Inc()

	ranked, err := s.placeRepo.RankByLikes(ctx, limit)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	ids := make([]uint, len(ranked))
	for i, r := range ranked {
		ids[i] = r.PlaceID
	}
	places, err := s.placeRepo.GetByIDs(ctx, ids)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int("feed.size", len(places)))
	return s.assembler.AssembleAll(ctx, places)
}
