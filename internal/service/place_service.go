// Package service holds the business rules that sit between the HTTP
// handlers and the repositories: input validation, ownership, and assembly
// of place views.
package service

import (
	"context"
	"log/slog"

	"campusmap/internal/middleware"
	"campusmap/internal/models"
	"campusmap/internal/observability"
	"campusmap/internal/repository"
	"campusmap/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultListLimit = 100
	maxLimit         = 100
)

// clampLimit applies def when limit is unset and caps it at maxLimit.
func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// PlaceService assembles place views and guards place writes.
type PlaceService struct {
	placeRepo      repository.PlaceRepository
	categoryRepo   repository.CategoryRepository
	engagementRepo repository.EngagementRepository
	commentRepo    repository.CommentRepository
}

type CreatePlaceInput struct {
	UserID        uint
	Name          string
	Description   string
	Latitude      float64
	Longitude     float64
	CategoryIDs   []uint
	OsmID         *string
	IsOsmImported bool
	OsmTags       map[string]interface{}
}

// UpdatePlaceInput leaves nil fields untouched. A non-nil CategoryIDs
// replaces the whole category set, even when it points at an empty slice.
type UpdatePlaceInput struct {
	UserID      uint
	PlaceID     uint
	Name        *string
	Description *string
	CategoryIDs *[]uint
}

type ListPlacesInput struct {
	CategoryID uint
	Limit      int
	Offset     int
}

func NewPlaceService(
	placeRepo repository.PlaceRepository,
	categoryRepo repository.CategoryRepository,
	engagementRepo repository.EngagementRepository,
	commentRepo repository.CommentRepository,
) *PlaceService {
	return &PlaceService{
		placeRepo:      placeRepo,
		categoryRepo:   categoryRepo,
		engagementRepo: engagementRepo,
		commentRepo:    commentRepo,
	}
}

// GetPlace returns the fully assembled view of one place.
func (s *PlaceService) GetPlace(ctx context.Context, id uint) (*models.PlaceView, error) {
	place, err := s.placeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := s.assemble(ctx, place)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// GetPlaceDetail returns the place view with its comments, newest first.
func (s *PlaceService) GetPlaceDetail(ctx context.Context, id uint) (*models.PlaceDetail, error) {
	span, ctx := observability.NewSpan(ctx, "place.detail", attribute.Int("place.id", int(id)))
	defer span.End()

	view, err := s.GetPlace(ctx, id)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	comments, err := s.commentRepo.ListByPlace(ctx, id, 0, 0)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if comments == nil {
		comments = []models.CommentView{}
	}
	return &models.PlaceDetail{PlaceView: *view, Comments: comments}, nil
}

func (s *PlaceService) CreatePlace(ctx context.Context, in CreatePlaceInput) (*models.PlaceView, error) {
	if err := validation.ValidatePlaceName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDescription(in.Description); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	place := &models.Place{
		Name:          in.Name,
		Description:   in.Description,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		UserID:        in.UserID,
		OsmID:         in.OsmID,
		IsOsmImported: in.IsOsmImported,
		OsmTags:       in.OsmTags,
	}
	if err := s.placeRepo.CreateWithCategories(ctx, place, in.CategoryIDs); err != nil {
		return nil, err
	}
	observability.PlaceWritesTotal.WithLabelValues("create").Inc()
	middleware.Logger.InfoContext(ctx, "place created",
		slog.Uint64("place_id", uint64(place.ID)),
		slog.Int("categories", len(in.CategoryIDs)))

	return s.GetPlace(ctx, place.ID)
}

func (s *PlaceService) UpdatePlace(ctx context.Context, in UpdatePlaceInput) (*models.PlaceView, error) {
	if in.Name != nil {
		if err := validation.ValidatePlaceName(*in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if in.Description != nil {
		if err := validation.ValidateDescription(*in.Description); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	place, err := s.placeRepo.UpdateOwned(ctx, in.PlaceID, in.UserID, repository.PlaceUpdate{
		Name:        in.Name,
		Description: in.Description,
		CategoryIDs: in.CategoryIDs,
	})
	if err != nil {
		if models.IsCode(err, models.CodeForbidden) {
			middleware.Logger.WarnContext(ctx, "place update rejected",
				slog.Uint64("place_id", uint64(in.PlaceID)))
		}
		return nil, err
	}
	observability.PlaceWritesTotal.WithLabelValues("update").Inc()

	view, err := s.assemble(ctx, place)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// DeletePlace reports false when the place is missing or owned by someone
// else; nothing is written in that case.
func (s *PlaceService) DeletePlace(ctx context.Context, placeID, userID uint) (bool, error) {
	deleted, err := s.placeRepo.DeleteOwned(ctx, placeID, userID)
	if err != nil {
		return false, err
	}
	if deleted {
		observability.PlaceWritesTotal.WithLabelValues("delete").Inc()
		middleware.Logger.InfoContext(ctx, "place deleted", slog.Uint64("place_id", uint64(placeID)))
	}
	return deleted, nil
}

func (s *PlaceService) ListPlaces(ctx context.Context, in ListPlacesInput) ([]models.PlaceView, error) {
	places, err := s.placeRepo.List(ctx, repository.PlaceFilter{
		CategoryID: in.CategoryID,
		Limit:      clampLimit(in.Limit, defaultListLimit),
		Offset:     clampOffset(in.Offset),
	})
	if err != nil {
		return nil, err
	}
	return s.AssembleAll(ctx, places)
}

func (s *PlaceService) ListUserPlaces(ctx context.Context, userID uint, limit, offset int) ([]models.PlaceView, error) {
	places, err := s.placeRepo.ListByOwner(ctx, userID, clampLimit(limit, defaultListLimit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	return s.AssembleAll(ctx, places)
}

// AssembleAll builds a view per place, keeping the input order.
func (s *PlaceService) AssembleAll(ctx context.Context, places []models.Place) ([]models.PlaceView, error) {
	views := make([]models.PlaceView, 0, len(places))
	for i := range places {
		view, err := s.assemble(ctx, &places[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *PlaceService) assemble(ctx context.Context, place *models.Place) (models.PlaceView, error) {
	categories, err := s.categoryRepo.ListByPlace(ctx, place.ID)
	if err != nil {
		return models.PlaceView{}, err
	}
	counts, err := s.engagementRepo.Counts(ctx, place.ID)
	if err != nil {
		return models.PlaceView{}, err
	}
	return models.NewPlaceView(place, categories, counts), nil
}
