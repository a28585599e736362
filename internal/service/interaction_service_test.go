package service

import (
	"context"
	"strings"
	"testing"

	"campusmap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInteractionService(places *placeRepoStub, interactions *interactionRepoStub, comments *commentRepoStub) *InteractionService {
	assembler := NewPlaceService(places, noopCategoryRepo(), noopEngagementRepo(), comments)
	return NewInteractionService(places, interactions, comments, noopUserRepo(), assembler)
}

func missingPlaceRepo() *placeRepoStub {
	places := noopPlaceRepo()
	places.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }
	return places
}

func TestInteractionService_MissingPlace(t *testing.T) {
	t.Parallel()

	interactions := noopInteractionRepo()
	interactions.upsertFn = func(_ context.Context, _, _ uint, _ bool) (*models.Like, error) {
		t.Error("vote must not be stored for a missing place")
		return nil, nil
	}
	interactions.toggleFn = func(_ context.Context, _, _ uint) (*models.Favorite, error) {
		t.Error("favorite must not be stored for a missing place")
		return nil, nil
	}
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, _ *models.Comment) error {
		t.Error("comment must not be stored for a missing place")
		return nil
	}
	svc := newInteractionService(missingPlaceRepo(), interactions, comments)
	ctx := context.Background()

	_, err := svc.Vote(ctx, 404, 1, true)
	assertNotFoundError(t, err)

	_, err = svc.ToggleFavorite(ctx, 404, 1)
	assertNotFoundError(t, err)

	_, err = svc.AddComment(ctx, AddCommentInput{PlaceID: 404, UserID: 1, Content: "hello"})
	assertNotFoundError(t, err)

	_, err = svc.ListComments(ctx, 404, 0, 0)
	assertNotFoundError(t, err)
}

func TestInteractionService_AddComment_Validation(t *testing.T) {
	t.Parallel()

	places := noopPlaceRepo()
	places.existsFn = func(_ context.Context, _ uint) (bool, error) {
		t.Error("validation must run before any storage call")
		return true, nil
	}
	svc := newInteractionService(places, noopInteractionRepo(), noopCommentRepo())

	t.Run("empty content", func(t *testing.T) {
		_, err := svc.AddComment(context.Background(), AddCommentInput{PlaceID: 1, UserID: 1})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		_, err := svc.AddComment(context.Background(), AddCommentInput{
			PlaceID: 1,
			UserID:  1,
			Content: strings.Repeat("x", 1001),
		})
		assertValidationError(t, err)
	})
}

func TestInteractionService_AddComment_Success(t *testing.T) {
	t.Parallel()

	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 42
		return nil
	}
	svc := newInteractionService(noopPlaceRepo(), noopInteractionRepo(), comments)

	view, err := svc.AddComment(context.Background(), AddCommentInput{PlaceID: 1, UserID: 5, Content: "Quiet spot!"})
	require.NoError(t, err)
	assert.Equal(t, uint(42), view.ID)
	assert.Equal(t, "Quiet spot!", view.Content)
	assert.Equal(t, uint(5), view.User.ID)
	assert.Equal(t, "user", view.User.Username)
}

func TestInteractionService_ToggleFavorite_ReturnsRepoResult(t *testing.T) {
	t.Parallel()

	present := false
	interactions := noopInteractionRepo()
	interactions.toggleFn = func(_ context.Context, placeID, userID uint) (*models.Favorite, error) {
		present = !present
		if !present {
			return nil, nil
		}
		return &models.Favorite{ID: 1, PlaceID: placeID, UserID: userID}, nil
	}
	svc := newInteractionService(noopPlaceRepo(), interactions, noopCommentRepo())

	fav, err := svc.ToggleFavorite(context.Background(), 1, 2)
	require.NoError(t, err)
	require.NotNil(t, fav)

	fav, err = svc.ToggleFavorite(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Nil(t, fav)
}

func TestInteractionService_FavoritesOf_KeepsOrder(t *testing.T) {
	t.Parallel()

	interactions := noopInteractionRepo()
	interactions.favoritesFn = func(_ context.Context, _ uint, limit, _ int) ([]uint, error) {
		assert.Equal(t, 0, limit)
		return []uint{3, 1, 2}, nil
	}
	svc := newInteractionService(noopPlaceRepo(), interactions, noopCommentRepo())

	views, err := svc.FavoritesOf(context.Background(), 9, 0, 0)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, []uint{3, 1, 2}, []uint{views[0].ID, views[1].ID, views[2].ID})
}
