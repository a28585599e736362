package seed

import (
	"context"
	"fmt"
	"log/slog"

	"campusmap/internal/auth"
	"campusmap/internal/middleware"
	"campusmap/internal/models"
	"campusmap/internal/repository"

	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

// Options configure a seeding run.
type Options struct {
	NumUsers  int
	NumPlaces int
	// Clean removes users, places and their interactions first. The
	// category catalog is kept.
	Clean bool
	// RandSeed makes runs reproducible when non-zero.
	RandSeed int64
	MaxDays  int
}

// Summary counts what a run created.
type Summary struct {
	Users     int
	Places    int
	Votes     int
	Favorites int
	Comments  int
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder for db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPlaces < 0 {
		opts.NumPlaces = 0
	}
	return &Seeder{db: db, factory: NewFactory(db, opts.RandSeed, opts.MaxDays), opts: opts}
}

// Run ensures the default categories, then creates users, places, votes,
// favorites and comments.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	if s.opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	categories := repository.NewCategoryRepository(s.db)
	if err := categories.EnsureDefaults(ctx, models.DefaultCategories()); err != nil {
		return nil, fmt.Errorf("ensure default categories: %w", err)
	}
	catalog, err := categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categoryIDs := make([]uint, len(catalog))
	for i, c := range catalog {
		categoryIDs[i] = c.ID
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	summary := &Summary{}
	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 1; i <= s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser(ctx, i, hash)
		if err != nil {
			return summary, err
		}
		users = append(users, user)
		summary.Users++
	}

	f := s.factory.faker
	for i := 0; i < s.opts.NumPlaces; i++ {
		owner := users[f.Number(0, len(users)-1)]
		place, err := s.factory.CreatePlace(ctx, owner, categoryIDs)
		if err != nil {
			return summary, err
		}
		summary.Places++

		for _, u := range users {
			if u.ID == owner.ID {
				continue
			}
			switch roll := f.Number(1, 10); {
			case roll <= 4:
				if err := s.factory.Vote(ctx, u, place); err != nil {
					return summary, fmt.Errorf("vote: %w", err)
				}
				summary.Votes++
			case roll == 5:
				if err := s.factory.Favorite(ctx, u, place); err != nil {
					return summary, fmt.Errorf("favorite: %w", err)
				}
				summary.Favorites++
			case roll == 6:
				if err := s.factory.Comment(ctx, u, place); err != nil {
					return summary, fmt.Errorf("comment: %w", err)
				}
				summary.Comments++
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "seed completed",
		slog.Int("users", summary.Users),
		slog.Int("places", summary.Places),
		slog.Int("votes", summary.Votes),
		slog.Int("favorites", summary.Favorites),
		slog.Int("comments", summary.Comments))
	return summary, nil
}

// ClearAll deletes every user and place along with their dependent rows,
// children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Comment{}, &models.Like{}, &models.Favorite{},
			&models.PlaceCategory{}, &models.Place{}, &models.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}
