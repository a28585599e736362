// Package bootstrap wires the process-level dependencies shared by the
// server and the seeder.
package bootstrap

import (
	"context"
	"fmt"

	"campusmap/internal/cache"
	"campusmap/internal/config"
	"campusmap/internal/database"
	"campusmap/internal/repository"
	"campusmap/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDefaults bool
}

// InitRuntime connects to the database and, when reachable, Redis, then
// optionally ensures the default category catalog. The returned Redis client
// is nil when Redis is unavailable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.ConnectOptional(ctx, cfg.RedisURL)

	if opts.SeedDefaults {
		categories := service.NewCategoryService(repository.NewCategoryRepository(db), cache.NewStore(redisClient))
		if err := categories.EnsureDefaults(ctx); err != nil {
			database.Close(db)
			if redisClient != nil {
				_ = redisClient.Close()
			}
			return nil, nil, fmt.Errorf("failed to seed default categories: %w", err)
		}
	}

	return db, redisClient, nil
}
