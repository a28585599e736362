package repository

import (
	"context"

	"campusmap/internal/models"

	"gorm.io/gorm"
)

// EngagementRepository derives per-place counts from the ledger tables on
// every call.
type EngagementRepository interface {
	Counts(ctx context.Context, placeID uint) (models.EngagementCounts, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository returns a new EngagementRepository implementation.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) Counts(ctx context.Context, placeID uint) (models.EngagementCounts, error) {
	var counts models.EngagementCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Like{}).
		Where("place_id = ? AND is_like = ?", placeID, true).
		Count(&counts.LikeCount).Error; err != nil {
		return models.EngagementCounts{}, models.NewInternalError(err)
	}
	if err := db.Model(&models.Like{}).
		Where("place_id = ? AND is_like = ?", placeID, false).
		Count(&counts.DislikeCount).Error; err != nil {
		return models.EngagementCounts{}, models.NewInternalError(err)
	}
	if err := db.Model(&models.Favorite{}).
		Where("place_id = ?", placeID).
		Count(&counts.FavoriteCount).Error; err != nil {
		return models.EngagementCounts{}, models.NewInternalError(err)
	}

	return counts, nil
}
