package service

import (
	"context"
	"log/slog"
	"strings"

	"campusmap/internal/cache"
	"campusmap/internal/middleware"
	"campusmap/internal/models"
	"campusmap/internal/repository"
	"campusmap/internal/validation"
)

// CategoryService serves the category catalog through the cache.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	store        *cache.Store
}

type CreateCategoryInput struct {
	Name  string
	Color string
	Icon  *string
}

// NewCategoryService returns a CategoryService. store may be nil.
func NewCategoryService(categoryRepo repository.CategoryRepository, store *cache.Store) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, store: store}
}

// List returns a page of the catalog ordered by name.
func (s *CategoryService) List(ctx context.Context, limit, offset int) ([]models.Category, error) {
	var all []models.Category
	err := s.store.Aside(ctx, "categories", cache.CategoryCatalogKey, &all, cache.CategoryCatalogTTL, func() error {
		var err error
		all, err = s.categoryRepo.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	offset = clampOffset(offset)
	if offset >= len(all) {
		return []models.Category{}, nil
	}
	end := offset + clampLimit(limit, defaultListLimit)
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := validation.ValidateCategoryName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateColor(in.Color); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	category := &models.Category{Name: name, Color: strings.ToUpper(in.Color), Icon: in.Icon}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.store.Invalidate(ctx, cache.CategoryCatalogKey)
	middleware.Logger.InfoContext(ctx, "category created",
		slog.Uint64("category_id", uint64(category.ID)),
		slog.String("name", category.Name))
	return category, nil
}

// EnsureDefaults inserts the built-in categories that are missing.
func (s *CategoryService) EnsureDefaults(ctx context.Context) error {
	if err := s.categoryRepo.EnsureDefaults(ctx, models.DefaultCategories()); err != nil {
		return err
	}
	s.store.Invalidate(ctx, cache.CategoryCatalogKey)
	return nil
}
