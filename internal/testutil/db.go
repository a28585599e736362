// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"campusmap/internal/database"
	"campusmap/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with foreign keys enforced
// and the full schema migrated. A single connection keeps the memory
// database alive for the whole test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user named username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCategory inserts a catalog category.
func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Color: "#123456"}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreatePlace inserts a place owned by ownerID with an explicit creation
// time.
func CreatePlace(t *testing.T, db *gorm.DB, ownerID uint, name string, createdAt time.Time) *models.Place {
	t.Helper()
	place := &models.Place{
		Name:        name,
		Description: name + " description",
		Latitude:    52.2297,
		Longitude:   21.0122,
		UserID:      ownerID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Omit("Owner").Create(place).Error)
	return place
}

// Vote stores a like or dislike directly.
func Vote(t *testing.T, db *gorm.DB, placeID, userID uint, isLike bool) {
	t.Helper()
	require.NoError(t, db.Omit("Place", "User").Create(&models.Like{PlaceID: placeID, UserID: userID, IsLike: isLike}).Error)
}

// Favorite stores a favorite directly.
func Favorite(t *testing.T, db *gorm.DB, placeID, userID uint, createdAt time.Time) {
	t.Helper()
	require.NoError(t, db.Omit("Place", "User").Create(&models.Favorite{PlaceID: placeID, UserID: userID, CreatedAt: createdAt}).Error)
}

// Count returns the row count of model matching query.
func Count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
