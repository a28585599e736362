package models

import "time"

// Category is a tag from the shared catalog.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"size:7;not null" json:"color"`
	Icon      *string   `gorm:"size:50" json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaceCategory links a place to a category. The composite primary key makes
// each pair appear at most once.
type PlaceCategory struct {
	PlaceID    uint     `gorm:"primaryKey;autoIncrement:false" json:"place_id"`
	CategoryID uint     `gorm:"primaryKey;autoIncrement:false" json:"category_id"`
	Place      Place    `gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE" json:"-"`
	Category   Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PlaceCategory) TableName() string {
	return "place_categories"
}

// CategorySummary is the shape of a category attached to a place view.
type CategorySummary struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Icon  *string `json:"icon"`
}

// DefaultCategories is the catalog seeded on first start.
func DefaultCategories() []Category {
	icon := func(s string) *string { return &s }
	return []Category{
		{Name: "Food", Color: "#FF5733", Icon: icon("utensils")},
		{Name: "Study", Color: "#33FF57", Icon: icon("book")},
		{Name: "Hangout", Color: "#3357FF", Icon: icon("users")},
		{Name: "Events", Color: "#FF33F5", Icon: icon("calendar")},
		{Name: "Sports", Color: "#F5FF33", Icon: icon("running")},
	}
}
