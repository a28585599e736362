// Package seed fills a development database with demo data. It is meant
// for local development and tests only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusmap/internal/models"
	"campusmap/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// campus bounding box around which demo places are scattered.
const (
	minLat = 50.0560
	maxLat = 50.0690
	minLon = 19.9010
	maxLon = 19.9270
)

var placeNouns = []string{
	"Library", "Cafe", "Courtyard", "Lab", "Lecture Hall", "Garden",
	"Canteen", "Gym", "Terrace", "Reading Room", "Bike Rack", "Bench",
}

// Factory builds demo entities and persists them through the repositories.
type Factory struct {
	faker        *gofakeit.Faker
	db           *gorm.DB
	places       repository.PlaceRepository
	interactions repository.InteractionRepository
	comments     repository.CommentRepository
	maxDays      int
}

// NewFactory creates a Factory bound to db. A zero seed picks a random one.
func NewFactory(db *gorm.DB, seed int64, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 60
	}
	return &Factory{
		faker:        gofakeit.New(seed),
		db:           db,
		places:       repository.NewPlaceRepository(db),
		interactions: repository.NewInteractionRepository(db),
		comments:     repository.NewCommentRepository(db),
		maxDays:      maxDays,
	}
}

// CreateUser inserts a user whose username embeds n plus a random suffix.
func (f *Factory) CreateUser(ctx context.Context, n int, passwordHash string) (*models.User, error) {
	handle := fmt.Sprintf("%s_%d%s", strings.ToLower(f.faker.FirstName()), n, strings.ToLower(f.faker.LetterN(3)))
	user := &models.User{
		Username: handle,
		Email:    handle + "@campus.example",
		Password: passwordHash,
	}
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// CreatePlace inserts a place for owner, linked to a random subset of
// categoryIDs.
func (f *Factory) CreatePlace(ctx context.Context, owner *models.User, categoryIDs []uint) (*models.Place, error) {
	place := f.BuildPlace(owner)
	if err := f.places.CreateWithCategories(ctx, place, f.pickCategories(categoryIDs)); err != nil {
		return nil, fmt.Errorf("create place: %w", err)
	}
	return place, nil
}

// BuildPlace returns an unsaved place with a realistic name, position and
// creation time.
func (f *Factory) BuildPlace(owner *models.User) *models.Place {
	adjective := f.faker.Adjective()
	name := fmt.Sprintf("%s%s %s", strings.ToUpper(adjective[:1]), adjective[1:], placeNouns[f.faker.Number(0, len(placeNouns)-1)])
	createdAt := f.pastTime()
	return &models.Place{
		Name:        name,
		Description: f.faker.Paragraph(1, 3, 12, " "),
		Latitude:    f.faker.Float64Range(minLat, maxLat),
		Longitude:   f.faker.Float64Range(minLon, maxLon),
		UserID:      owner.ID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// Vote records a vote that is a like about three times out of four.
func (f *Factory) Vote(ctx context.Context, user *models.User, place *models.Place) error {
	_, err := f.interactions.UpsertLike(ctx, place.ID, user.ID, f.faker.Number(1, 4) != 1)
	return err
}

// Favorite marks place as a favorite of user.
func (f *Factory) Favorite(ctx context.Context, user *models.User, place *models.Place) error {
	_, err := f.interactions.ToggleFavorite(ctx, place.ID, user.ID)
	return err
}

// Comment appends a short comment by user to place.
func (f *Factory) Comment(ctx context.Context, user *models.User, place *models.Place) error {
	return f.comments.Create(ctx, &models.Comment{
		PlaceID: place.ID,
		UserID:  user.ID,
		Content: f.faker.Sentence(f.faker.Number(4, 14)),
	})
}

func (f *Factory) pickCategories(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	n := f.faker.Number(1, min(3, len(ids)))
	picked := make([]uint, 0, n)
	order := indexes(len(ids))
	f.faker.ShuffleInts(order)
	for _, i := range order[:n] {
		picked = append(picked, ids[i])
	}
	return picked
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute
	return time.Now().Add(-back).Truncate(time.Second)
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
