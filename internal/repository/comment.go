package repository

import (
	"context"

	"campusmap/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPlace(ctx context.Context, placeID uint, limit, offset int) ([]models.CommentView, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByPlace returns comments newest first with their authors. A
// non-positive limit returns the whole thread.
func (r *commentRepository) ListByPlace(ctx context.Context, placeID uint, limit, offset int) ([]models.CommentView, error) {
	q := r.db.WithContext(ctx).
		Joins("User").
		Where("comments.place_id = ?", placeID).
		Order("comments.created_at DESC").
		Order("comments.id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var comments []models.Comment
	if err := q.Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, commentView(&comments[i]))
	}
	return views, nil
}

func commentView(c *models.Comment) models.CommentView {
	v := models.CommentView{
		ID:        c.ID,
		Content:   c.Content,
		PlaceID:   c.PlaceID,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.User != nil {
		v.User = models.UserSummary{ID: c.User.ID, Username: c.User.Username, Email: c.User.Email}
	}
	return v
}
