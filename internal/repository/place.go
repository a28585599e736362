package repository

import (
	"context"
	"errors"
	"time"

	"campusmap/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaceUpdate carries the optional fields of an update. A nil field is left
// untouched; a non-nil CategoryIDs replaces the whole set, even when empty.
type PlaceUpdate struct {
	Name        *string
	Description *string
	CategoryIDs *[]uint
}

// PlaceFilter narrows List.
type PlaceFilter struct {
	CategoryID uint
	Limit      int
	Offset     int
}

// RankedPlace is one row of the top ranking.
type RankedPlace struct {
	PlaceID   uint
	LikeCount int64
}

// PlaceRepository defines persistence operations for places.
type PlaceRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Place, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Place, error)
	Exists(ctx context.Context, id uint) (bool, error)
	CreateWithCategories(ctx context.Context, place *models.Place, categoryIDs []uint) error
	UpdateOwned(ctx context.Context, id, requesterID uint, update PlaceUpdate) (*models.Place, error)
	DeleteOwned(ctx context.Context, id, requesterID uint) (bool, error)
	List(ctx context.Context, filter PlaceFilter) ([]models.Place, error)
	ListNewest(ctx context.Context, limit int) ([]models.Place, error)
	ListByOwner(ctx context.Context, userID uint, limit, offset int) ([]models.Place, error)
	RankByLikes(ctx context.Context, limit int) ([]RankedPlace, error)
}

type placeRepository struct {
	db *gorm.DB
}

// NewPlaceRepository returns a new PlaceRepository implementation.
func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

// withOwner joins the owning user so the view can carry its username.
func withOwner(db *gorm.DB) *gorm.DB {
	return db.Joins("Owner")
}

func (r *placeRepository) GetByID(ctx context.Context, id uint) (*models.Place, error) {
	var place models.Place
	if err := withOwner(r.db.WithContext(ctx)).Where("places.id = ?", id).First(&place).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Place", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &place, nil
}

// GetByIDs loads places and returns them in the order of ids. Missing ids are
// skipped.
func (r *placeRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Place, error) {
	if len(ids) == 0 {
		return []models.Place{}, nil
	}

	var places []models.Place
	if err := withOwner(r.db.WithContext(ctx)).Where("places.id IN ?", ids).Find(&places).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	byID := make(map[uint]models.Place, len(places))
	for _, p := range places {
		byID[p.ID] = p
	}
	ordered := make([]models.Place, 0, len(places))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (r *placeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Place{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// CreateWithCategories inserts the place and its category links in one
// transaction. On success place carries its id, timestamps and owner.
func (r *placeRepository) CreateWithCategories(ctx context.Context, place *models.Place, categoryIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(place).Error; err != nil {
			return err
		}
		if err := linkPlaceCategories(tx, place.ID, categoryIDs); err != nil {
			return err
		}
		var owner models.User
		if err := tx.Select("id", "username").First(&owner, place.UserID).Error; err != nil {
			return err
		}
		place.Owner = &owner
		return nil
	})
	return wrapErr(err)
}

// placeNotModifiableMessage is returned for both a missing place and one
// owned by someone else, so the two cases are indistinguishable.
const placeNotModifiableMessage = "Place not found or you don't have permission to modify it"

// UpdateOwned applies update when requesterID owns the place. The ownership
// check runs before any write; the scalar update and the category
// replacement commit together.
func (r *placeRepository) UpdateOwned(ctx context.Context, id, requesterID uint, update PlaceUpdate) (*models.Place, error) {
	var updated models.Place
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Place
		if err := tx.Select("id", "user_id").First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewForbiddenError(placeNotModifiableMessage)
			}
			return err
		}
		if current.UserID != requesterID {
			return models.NewForbiddenError(placeNotModifiableMessage)
		}

		changes := map[string]interface{}{"updated_at": time.Now()}
		if update.Name != nil {
			changes["name"] = *update.Name
		}
		if update.Description != nil {
			changes["description"] = *update.Description
		}
		if err := tx.Model(&models.Place{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return err
		}

		if update.CategoryIDs != nil {
			if err := replacePlaceCategories(tx, id, *update.CategoryIDs); err != nil {
				return err
			}
		}

		return withOwner(tx).Where("places.id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return &updated, nil
}

// DeleteOwned removes the place when requesterID owns it. Dependent rows go
// with it through ON DELETE CASCADE. Returns false when nothing matched.
func (r *placeRepository) DeleteOwned(ctx context.Context, id, requesterID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, requesterID).
		Delete(&models.Place{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *placeRepository) List(ctx context.Context, filter PlaceFilter) ([]models.Place, error) {
	db := r.db.WithContext(ctx)
	q := withOwner(db)
	if filter.CategoryID != 0 {
		q = q.Where("places.id IN (?)", db.Model(&models.PlaceCategory{}).
			Select("place_id").
			Where("category_id = ?", filter.CategoryID))
	}

	var places []models.Place
	err := newestFirst(q).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&places).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return places, nil
}

func (r *placeRepository) ListNewest(ctx context.Context, limit int) ([]models.Place, error) {
	var places []models.Place
	if err := newestFirst(withOwner(r.db.WithContext(ctx))).Limit(limit).Find(&places).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return places, nil
}

func (r *placeRepository) ListByOwner(ctx context.Context, userID uint, limit, offset int) ([]models.Place, error) {
	var places []models.Place
	err := newestFirst(withOwner(r.db.WithContext(ctx))).
		Where("places.user_id = ?", userID).
		Offset(offset).
		Limit(limit).
		Find(&places).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return places, nil
}

// RankByLikes orders every place by its number of likes, newest first among
// equals. Places without likes rank with zero through the outer join.
func (r *placeRepository) RankByLikes(ctx context.Context, limit int) ([]RankedPlace, error) {
	var ranked []RankedPlace
	err := r.db.WithContext(ctx).
		Model(&models.Place{}).
		Select("places.id AS place_id, COUNT(likes.id) AS like_count").
		Joins("LEFT JOIN likes ON likes.place_id = places.id AND likes.is_like = ?", true).
		Group("places.id, places.created_at").
		Order("like_count DESC, places.created_at DESC, places.id DESC").
		Limit(limit).
		Scan(&ranked).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ranked, nil
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("places.created_at DESC").Order("places.id DESC")
}
