package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"campusmap/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository owns the category catalog and the place/category
// junction.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	EnsureDefaults(ctx context.Context, defaults []models.Category) error
	Link(ctx context.Context, placeID uint, categoryIDs []uint) error
	ReplaceAll(ctx context.Context, placeID uint, categoryIDs []uint) error
	ListByPlace(ctx context.Context, placeID uint) ([]models.CategorySummary, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Category already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// EnsureDefaults inserts any default category whose name is not taken yet.
func (r *categoryRepository) EnsureDefaults(ctx context.Context, defaults []models.Category) error {
	if len(defaults) == 0 {
		return nil
	}
	rows := make([]models.Category, len(defaults))
	copy(rows, defaults)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error
	return wrapErr(err)
}

func (r *categoryRepository) Link(ctx context.Context, placeID uint, categoryIDs []uint) error {
	return wrapErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return linkPlaceCategories(tx, placeID, categoryIDs)
	}))
}

func (r *categoryRepository) ReplaceAll(ctx context.Context, placeID uint, categoryIDs []uint) error {
	return wrapErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replacePlaceCategories(tx, placeID, categoryIDs)
	}))
}

func (r *categoryRepository) ListByPlace(ctx context.Context, placeID uint) ([]models.CategorySummary, error) {
	categories := []models.CategorySummary{}
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.id, categories.name, categories.color, categories.icon").
		Joins("JOIN place_categories ON place_categories.category_id = categories.id").
		Where("place_categories.place_id = ?", placeID).
		Order("categories.name ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

// linkPlaceCategories inserts one junction row per id, in input order.
// Repeated ids collapse through the conflict clause. Unknown ids fail the
// whole call before anything is written.
func linkPlaceCategories(tx *gorm.DB, placeID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	if err := ensureCategoriesExist(tx, categoryIDs); err != nil {
		return err
	}
	for _, categoryID := range categoryIDs {
		link := models.PlaceCategory{PlaceID: placeID, CategoryID: categoryID}
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

// replacePlaceCategories clears the junction set for placeID and links
// categoryIDs. An empty list leaves the place uncategorized.
func replacePlaceCategories(tx *gorm.DB, placeID uint, categoryIDs []uint) error {
	if err := tx.Where("place_id = ?", placeID).Delete(&models.PlaceCategory{}).Error; err != nil {
		return err
	}
	return linkPlaceCategories(tx, placeID, categoryIDs)
}

func ensureCategoriesExist(tx *gorm.DB, categoryIDs []uint) error {
	wanted := uniqueIDs(categoryIDs)
	if len(wanted) == 0 {
		return nil
	}

	var found []uint
	if err := tx.Model(&models.Category{}).Where("id IN ?", wanted).Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) == len(wanted) {
		return nil
	}

	known := make(map[uint]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	var missing []string
	for _, id := range wanted {
		if _, ok := known[id]; !ok {
			missing = append(missing, fmt.Sprint(id))
		}
	}
	return models.NewValidationError("Unknown category id(s): " + strings.Join(missing, ", "))
}

// uniqueIDs returns the distinct ids in ascending order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
