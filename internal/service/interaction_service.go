package service

import (
	"context"
	"log/slog"

	"campusmap/internal/middleware"
	"campusmap/internal/models"
	"campusmap/internal/observability"
	"campusmap/internal/repository"
	"campusmap/internal/validation"
)

// InteractionService records votes, favorites and comments.
type InteractionService struct {
	placeRepo       repository.PlaceRepository
	interactionRepo repository.InteractionRepository
	commentRepo     repository.CommentRepository
	userRepo        repository.UserRepository
	assembler       *PlaceService
}

type AddCommentInput struct {
	UserID  uint
	PlaceID uint
	Content string
}

func NewInteractionService(
	placeRepo repository.PlaceRepository,
	interactionRepo repository.InteractionRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	assembler *PlaceService,
) *InteractionService {
	return &InteractionService{
		placeRepo:       placeRepo,
		interactionRepo: interactionRepo,
		commentRepo:     commentRepo,
		userRepo:        userRepo,
		assembler:       assembler,
	}
}

func (s *InteractionService) ensurePlace(ctx context.Context, placeID uint) error {
	ok, err := s.placeRepo.Exists(ctx, placeID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Place", placeID)
	}
	return nil
}

// Vote records a like or dislike. A second vote by the same user replaces
// the first.
func (s *InteractionService) Vote(ctx context.Context, placeID, userID uint, isLike bool) (*models.Like, error) {
	if err := s.ensurePlace(ctx, placeID); err != nil {
		return nil, err
	}
	like, err := s.interactionRepo.UpsertLike(ctx, placeID, userID, isLike)
	if err != nil {
		return nil, err
	}

	kind := "dislike"
	if isLike {
		kind = "like"
	}
	observability.InteractionsTotal.WithLabelValues(kind).Inc()
	return like, nil
}

// ToggleFavorite returns the new favorite, or nil when an existing one was
// removed.
func (s *InteractionService) ToggleFavorite(ctx context.Context, placeID, userID uint) (*models.Favorite, error) {
	if err := s.ensurePlace(ctx, placeID); err != nil {
		return nil, err
	}
	fav, err := s.interactionRepo.ToggleFavorite(ctx, placeID, userID)
	if err != nil {
		return nil, err
	}

	if fav == nil {
		observability.InteractionsTotal.WithLabelValues("favorite_remove").Inc()
	} else {
		observability.InteractionsTotal.WithLabelValues("favorite_add").Inc()
	}
	return fav, nil
}

func (s *InteractionService) AddComment(ctx context.Context, in AddCommentInput) (*models.CommentView, error) {
	if err := validation.ValidateComment(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.ensurePlace(ctx, in.PlaceID); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: in.Content,
		PlaceID: in.PlaceID,
		UserID:  in.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.InteractionsTotal.WithLabelValues("comment").Inc()
	middleware.Logger.InfoContext(ctx, "comment added",
		slog.Uint64("place_id", uint64(in.PlaceID)),
		slog.Uint64("comment_id", uint64(comment.ID)))

	return &models.CommentView{
		ID:        comment.ID,
		Content:   comment.Content,
		PlaceID:   comment.PlaceID,
		UserID:    comment.UserID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		User: models.UserSummary{
			ID:       author.ID,
			Username: author.Username,
			Email:    author.Email,
		},
	}, nil
}

func (s *InteractionService) ListComments(ctx context.Context, placeID uint, limit, offset int) ([]models.CommentView, error) {
	if err := s.ensurePlace(ctx, placeID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPlace(ctx, placeID, clampLimit(limit, defaultListLimit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.CommentView{}
	}
	return comments, nil
}

// FavoritesOf returns the places userID favorited, most recently favorited
// first. A non-positive limit returns every favorite.
func (s *InteractionService) FavoritesOf(ctx context.Context, userID uint, limit, offset int) ([]models.PlaceView, error) {
	if limit < 0 {
		limit = 0
	}
	ids, err := s.interactionRepo.FavoritePlaceIDs(ctx, userID, limit, clampOffset(offset))
	if err != nil {
		return nil, err
	}
	places, err := s.placeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.assembler.AssembleAll(ctx, places)
}
