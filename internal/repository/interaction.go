package repository

import (
	"context"
	"errors"
	"time"

	"campusmap/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository stores votes and favorites.
type InteractionRepository interface {
	UpsertLike(ctx context.Context, placeID, userID uint, isLike bool) (*models.Like, error)
	ToggleFavorite(ctx context.Context, placeID, userID uint) (*models.Favorite, error)
	FavoritePlaceIDs(ctx context.Context, userID uint, limit, offset int) ([]uint, error)
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository returns a new InteractionRepository implementation.
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// UpsertLike records a vote in one statement. A repeated vote rewrites
// is_like on the existing row, keeping its id and created_at, and a
// concurrent first vote that loses the insert race becomes that update.
func (r *interactionRepository) UpsertLike(ctx context.Context, placeID, userID uint, isLike bool) (*models.Like, error) {
	db := r.db.WithContext(ctx)

	vote := models.Like{PlaceID: placeID, UserID: userID, IsLike: isLike, CreatedAt: time.Now()}
	err := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "place_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_like"}),
		}).
		Create(&vote).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var stored models.Like
	if err := db.Where("place_id = ? AND user_id = ?", placeID, userID).First(&stored).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &stored, nil
}

// ToggleFavorite removes an existing favorite and returns nil, or creates one
// and returns it. When a concurrent toggle inserts first, the winner's row is
// returned.
func (r *interactionRepository) ToggleFavorite(ctx context.Context, placeID, userID uint) (*models.Favorite, error) {
	var result *models.Favorite
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("place_id = ? AND user_id = ?", placeID, userID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		fav := models.Favorite{PlaceID: placeID, UserID: userID, CreatedAt: time.Now()}
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&fav).Error; err != nil {
			return err
		}

		var stored models.Favorite
		if err := tx.Where("place_id = ? AND user_id = ?", placeID, userID).First(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Place", placeID)
			}
			return err
		}
		result = &stored
		return nil
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return result, nil
}

// FavoritePlaceIDs lists the places userID favorited, most recent first. A
// non-positive limit returns all of them.
func (r *interactionRepository) FavoritePlaceIDs(ctx context.Context, userID uint, limit, offset int) ([]uint, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var ids []uint
	err := q.Pluck("place_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
