package service

import (
	"context"
	"testing"

	"campusmap/internal/models"
	"campusmap/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placeRepoStub is a stub for repository.PlaceRepository.
type placeRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.Place, error)
	getByIDsFn   func(context.Context, []uint) ([]models.Place, error)
	existsFn     func(context.Context, uint) (bool, error)
	createFn     func(context.Context, *models.Place, []uint) error
	updateFn     func(context.Context, uint, uint, repository.PlaceUpdate) (*models.Place, error)
	deleteFn     func(context.Context, uint, uint) (bool, error)
	listFn       func(context.Context, repository.PlaceFilter) ([]models.Place, error)
	listNewestFn func(context.Context, int) ([]models.Place, error)
	listOwnerFn  func(context.Context, uint, int, int) ([]models.Place, error)
	rankFn       func(context.Context, int) ([]repository.RankedPlace, error)
}

func (s *placeRepoStub) GetByID(ctx context.Context, id uint) (*models.Place, error) {
	return s.getByIDFn(ctx, id)
}
func (s *placeRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Place, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *placeRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *placeRepoStub) CreateWithCategories(ctx context.Context, p *models.Place, ids []uint) error {
	return s.createFn(ctx, p, ids)
}
func (s *placeRepoStub) UpdateOwned(ctx context.Context, id, requesterID uint, u repository.PlaceUpdate) (*models.Place, error) {
	return s.updateFn(ctx, id, requesterID, u)
}
func (s *placeRepoStub) DeleteOwned(ctx context.Context, id, requesterID uint) (bool, error) {
	return s.deleteFn(ctx, id, requesterID)
}
func (s *placeRepoStub) List(ctx context.Context, f repository.PlaceFilter) ([]models.Place, error) {
	return s.listFn(ctx, f)
}
func (s *placeRepoStub) ListNewest(ctx context.Context, limit int) ([]models.Place, error) {
	return s.listNewestFn(ctx, limit)
}
func (s *placeRepoStub) ListByOwner(ctx context.Context, userID uint, limit, offset int) ([]models.Place, error) {
	return s.listOwnerFn(ctx, userID, limit, offset)
}
func (s *placeRepoStub) RankByLikes(ctx context.Context, limit int) ([]repository.RankedPlace, error) {
	return s.rankFn(ctx, limit)
}

func noopPlaceRepo() *placeRepoStub {
	return &placeRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Place, error) {
			return &models.Place{ID: id, Owner: &models.User{Username: "owner"}}, nil
		},
		getByIDsFn: func(_ context.Context, ids []uint) ([]models.Place, error) {
			out := make([]models.Place, 0, len(ids))
			for _, id := range ids {
				out = append(out, models.Place{ID: id})
			}
			return out, nil
		},
		existsFn: func(_ context.Context, _ uint) (bool, error) { return true, nil },
		createFn: func(_ context.Context, p *models.Place, _ []uint) error {
			p.ID = 1
			return nil
		},
		updateFn: func(_ context.Context, id, _ uint, _ repository.PlaceUpdate) (*models.Place, error) {
			return &models.Place{ID: id}, nil
		},
		deleteFn:     func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		listFn:       func(_ context.Context, _ repository.PlaceFilter) ([]models.Place, error) { return nil, nil },
		listNewestFn: func(_ context.Context, _ int) ([]models.Place, error) { return nil, nil },
		listOwnerFn:  func(_ context.Context, _ uint, _, _ int) ([]models.Place, error) { return nil, nil },
		rankFn:       func(_ context.Context, _ int) ([]repository.RankedPlace, error) { return nil, nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	listFn        func(context.Context) ([]models.Category, error)
	createFn      func(context.Context, *models.Category) error
	defaultsFn    func(context.Context, []models.Category) error
	listByPlaceFn func(context.Context, uint) ([]models.CategorySummary, error)
}

func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) GetByID(_ context.Context, id uint) (*models.Category, error) {
	return &models.Category{ID: id}, nil
}
func (s *categoryRepoStub) Create(ctx context.Context, c *models.Category) error {
	return s.createFn(ctx, c)
}
func (s *categoryRepoStub) EnsureDefaults(ctx context.Context, defaults []models.Category) error {
	return s.defaultsFn(ctx, defaults)
}
func (s *categoryRepoStub) Link(_ context.Context, _ uint, _ []uint) error       { return nil }
func (s *categoryRepoStub) ReplaceAll(_ context.Context, _ uint, _ []uint) error { return nil }
func (s *categoryRepoStub) ListByPlace(ctx context.Context, placeID uint) ([]models.CategorySummary, error) {
	return s.listByPlaceFn(ctx, placeID)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		listFn:        func(_ context.Context) ([]models.Category, error) { return nil, nil },
		createFn:      func(_ context.Context, _ *models.Category) error { return nil },
		defaultsFn:    func(_ context.Context, _ []models.Category) error { return nil },
		listByPlaceFn: func(_ context.Context, _ uint) ([]models.CategorySummary, error) { return nil, nil },
	}
}

type engagementRepoStub struct {
	countsFn func(context.Context, uint) (models.EngagementCounts, error)
}

func (s *engagementRepoStub) Counts(ctx context.Context, placeID uint) (models.EngagementCounts, error) {
	return s.countsFn(ctx, placeID)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		countsFn: func(_ context.Context, _ uint) (models.EngagementCounts, error) {
			return models.EngagementCounts{}, nil
		},
	}
}

type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	listByPlaceFn func(context.Context, uint, int, int) ([]models.CommentView, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) ListByPlace(ctx context.Context, placeID uint, limit, offset int) ([]models.CommentView, error) {
	return s.listByPlaceFn(ctx, placeID, limit, offset)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		listByPlaceFn: func(_ context.Context, _ uint, _, _ int) ([]models.CommentView, error) {
			return nil, nil
		},
	}
}

type interactionRepoStub struct {
	upsertFn    func(context.Context, uint, uint, bool) (*models.Like, error)
	toggleFn    func(context.Context, uint, uint) (*models.Favorite, error)
	favoritesFn func(context.Context, uint, int, int) ([]uint, error)
}

func (s *interactionRepoStub) UpsertLike(ctx context.Context, placeID, userID uint, isLike bool) (*models.Like, error) {
	return s.upsertFn(ctx, placeID, userID, isLike)
}
func (s *interactionRepoStub) ToggleFavorite(ctx context.Context, placeID, userID uint) (*models.Favorite, error) {
	return s.toggleFn(ctx, placeID, userID)
}
func (s *interactionRepoStub) FavoritePlaceIDs(ctx context.Context, userID uint, limit, offset int) ([]uint, error) {
	return s.favoritesFn(ctx, userID, limit, offset)
}

func noopInteractionRepo() *interactionRepoStub {
	return &interactionRepoStub{
		upsertFn: func(_ context.Context, placeID, userID uint, isLike bool) (*models.Like, error) {
			return &models.Like{ID: 1, PlaceID: placeID, UserID: userID, IsLike: isLike}, nil
		},
		toggleFn:    func(_ context.Context, _, _ uint) (*models.Favorite, error) { return nil, nil },
		favoritesFn: func(_ context.Context, _ uint, _, _ int) ([]uint, error) { return nil, nil },
	}
}

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) IsAdmin(_ context.Context, _ uint) (bool, error) { return false, nil }

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user", Email: "user@example.com"}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation), "expected validation error, got %v", err)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound), "expected not found error, got %v", err)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized), "expected unauthorized error, got %v", err)
}
