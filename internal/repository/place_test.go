package repository

import (
	"context"
	"testing"
	"time"

	"campusmap/internal/models"
	"campusmap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlace(ownerID uint, name string) *models.Place {
	return &models.Place{
		Name:        name,
		Description: "somewhere on campus",
		Latitude:    50.06143,
		Longitude:   19.93658,
		UserID:      ownerID,
	}
}

func TestPlaceRepository_CreateWithCategoriesDeduplicates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPlaceRepository(db)
	categories := NewCategoryRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "alice")
	study := testutil.CreateCategory(t, db, "Study")
	food := testutil.CreateCategory(t, db, "Food")

	place := newPlace(owner.ID, "Library")
	require.NoError(t, repo.CreateWithCategories(ctx, place, []uint{study.ID, food.ID, food.ID}))
	require.NotZero(t, place.ID)
	require.NotNil(t, place.Owner)
	assert.Equal(t, "alice", place.Owner.Username)

	linked, err := categories.ListByPlace(ctx, place.ID)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.Equal(t, "Food", linked[0].Name)
	assert.Equal(t, "Study", linked[1].Name)
}

func TestPlaceRepository_CreateRejectsUnknownCategory(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPlaceRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "alice")
	study := testutil.CreateCategory(t, db, "Study")

	err := repo.CreateWithCategories(ctx, newPlace(owner.ID, "Ghost"), []uint{study.ID, 999})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
	assert.Contains(t, err.Error(), "999")

	assert.Zero(t, testutil.Count(t, db, &models.Place{}, "1 = 1"))
	assert.Zero(t, testutil.Count(t, db, &models.PlaceCategory{}, "1 = 1"))
}

func TestPlaceRepository_GetByIDNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPlaceRepository(db)

	_, err := repo.GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestPlaceRepository_UpdateOwned(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPlaceRepository(db)
	categories := NewCategoryRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	study := testutil.CreateCategory(t, db, "Study")

	place := newPlace(alice.ID, "Library")
	require.NoError(t, repo.CreateWithCategories(ctx, place, []uint{study.ID}))

	t.Run("non-owner is forbidden and nothing changes", func(t *testing.T) {
		name := "Hijacked"
		empty := []uint{}
		_, err := repo.UpdateOwned(ctx, place.ID, bob.ID, PlaceUpdate{Name: &name, CategoryIDs: &empty})
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.CodeForbidden))

		stored, err := repo.GetByID(ctx, place.ID)
		require.NoError(t, err)
		assert.Equal(t, "Library", stored.Name)
		linked, err := categories.ListByPlace(ctx, place.ID)
		require.NoError(t, err)
		assert.Len(t, linked, 1)
	})

	t.Run("missing place looks like a foreign one", func(t *testing.T) {
		name := "Hijacked"
		_, missingErr := repo.UpdateOwned(ctx, 999, alice.ID, PlaceUpdate{Name: &name})
		require.Error(t, missingErr)
		assert.True(t, models.IsCode(missingErr, models.CodeForbidden))

		_, foreignErr := repo.UpdateOwned(ctx, place.ID, bob.ID, PlaceUpdate{Name: &name})
		require.Error(t, foreignErr)
		assert.Equal(t, foreignErr.Error(), missingErr.Error())
	})

	t.Run("name only keeps categories and refreshes updated_at", func(t *testing.T) {
		before, err := repo.GetByID(ctx, place.ID)
		require.NoError(t, err)

		name := "Main Library"
		updated, err := repo.UpdateOwned(ctx, place.ID, alice.ID, PlaceUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Main Library", updated.Name)
		assert.Equal(t, before.Description, updated.Description)
		assert.False(t, updated.UpdatedAt.Before(before.UpdatedAt))
		assert.Equal(t, "alice", updated.OwnerUsername())

		linked, err := categories.ListByPlace(ctx, place.ID)
		require.NoError(t, err)
		assert.Len(t, linked, 1)
	})

	t.Run("empty category list clears links", func(t *testing.T) {
		empty := []uint{}
		_, err := repo.UpdateOwned(ctx, place.ID, alice.ID, PlaceUpdate{CategoryIDs: &empty})
		require.NoError(t, err)

		linked, err := categories.ListByPlace(ctx, place.ID)
		require.NoError(t, err)
		assert.Empty(t, linked)
	})

	t.Run("unknown category rolls back the whole update", func(t *testing.T) {
		name := "Should not stick"
		ids := []uint{study.ID, 404}
		_, err := repo.UpdateOwned(ctx, place.ID, alice.ID, PlaceUpdate{Name: &name, CategoryIDs: &ids})
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.CodeValidation))

		stored, err := repo.GetByID(ctx, place.ID)
		require.NoError(t, err)
		assert.Equal(t, "Main Library", stored.Name)
	})
}

func TestPlaceRepository_DeleteOwnedCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPlaceRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	study := testutil.CreateCategory(t, db, "Study")

	place := newPlace(alice.ID, "Library")
	require.NoError(t, repo.CreateWithCategories(ctx, place, []uint{study.ID}))
	testutil.Vote(t, db, place.ID, bob.ID, true)
	testutil.Favorite(t, db, place.ID, bob.ID, time.Now())
	require.NoError(t, comments.Create(ctx, &models.Comment{PlaceID: place.ID, UserID: bob.ID, Content: "Quiet spot!"}))

	deleted, err := repo.DeleteOwned(ctx, place.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.DeleteOwned(ctx, place.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	for _, model := range []interface{}{&models.Comment{}, &models.Like{}, &models.Favorite{}, &models.PlaceCategory{}} {
		assert.Zero(t, testutil.Count(t, db, model, "place_id = ?", place.ID))
	}

	deleted, err = repo.DeleteOwned(ctx, place.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPlaceRepository_RankByLikes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPlaceRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	voters := make([]*models.User, 5)
	for i := range voters {
		voters[i] = testutil.CreateUser(t, db, "voter"+string(rune('a'+i)))
	}

	base := time.Now().Add(-time.Hour)
	older := testutil.CreatePlace(t, db, owner.ID, "A", base)
	newer := testutil.CreatePlace(t, db, owner.ID, "B", base.Add(time.Minute))
	third := testutil.CreatePlace(t, db, owner.ID, "C", base.Add(2*time.Minute))
	unliked := testutil.CreatePlace(t, db, owner.ID, "D", base.Add(3*time.Minute))

	for _, v := range voters {
		testutil.Vote(t, db, older.ID, v.ID, true)
		testutil.Vote(t, db, newer.ID, v.ID, true)
	}
	for _, v := range voters[:3] {
		testutil.Vote(t, db, third.ID, v.ID, true)
	}
	for _, v := range voters {
		testutil.Vote(t, db, unliked.ID, v.ID, false)
	}

	ranked, err := repo.RankByLikes(ctx, 3)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, []RankedPlace{
		{PlaceID: newer.ID, LikeCount: 5},
		{PlaceID: older.ID, LikeCount: 5},
		{PlaceID: third.ID, LikeCount: 3},
	}, ranked)

	all, err := repo.RankByLikes(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, RankedPlace{PlaceID: unliked.ID, LikeCount: 0}, all[3])
}

func TestPlaceRepository_ListFiltersAndOrders(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPlaceRepository(db)
	categories := NewCategoryRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")
	food := testutil.CreateCategory(t, db, "Food")

	base := time.Now().Add(-time.Hour)
	p1 := testutil.CreatePlace(t, db, owner.ID, "one", base)
	p2 := testutil.CreatePlace(t, db, other.ID, "two", base.Add(time.Minute))
	p3 := testutil.CreatePlace(t, db, owner.ID, "three", base.Add(2*time.Minute))
	require.NoError(t, categories.Link(ctx, p1.ID, []uint{food.ID}))
	require.NoError(t, categories.Link(ctx, p3.ID, []uint{food.ID}))

	all, err := repo.List(ctx, PlaceFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{p3.ID, p2.ID, p1.ID}, placeIDs(all))
	assert.Equal(t, "owner", all[0].OwnerUsername())

	paged, err := repo.List(ctx, PlaceFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint{p2.ID}, placeIDs(paged))

	filtered, err := repo.List(ctx, PlaceFilter{CategoryID: food.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{p3.ID, p1.ID}, placeIDs(filtered))

	newest, err := repo.ListNewest(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{p3.ID, p2.ID}, placeIDs(newest))

	mine, err := repo.ListByOwner(ctx, owner.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{p3.ID, p1.ID}, placeIDs(mine))

	byIDs, err := repo.GetByIDs(ctx, []uint{p1.ID, 999, p3.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{p1.ID, p3.ID}, placeIDs(byIDs))

	exists, err := repo.Exists(ctx, p2.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func placeIDs(places []models.Place) []uint {
	ids := make([]uint, len(places))
	for i, p := range places {
		ids[i] = p.ID
	}
	return ids
}
