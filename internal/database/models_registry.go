package database

import "campusmap/internal/models"

// PersistentModels returns the schema-managed GORM models in dependency order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Place{},
		&models.PlaceCategory{},
		&models.Comment{},
		&models.Like{},
		&models.Favorite{},
	}
}
