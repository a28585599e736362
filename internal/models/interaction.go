package models

import "time"

// Like is a single user's vote on a place. One row per (place, user); a
// second vote flips IsLike on the same row.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlaceID   uint      `gorm:"not null;uniqueIndex:idx_likes_place_user" json:"place_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_place_user" json:"user_id"`
	IsLike    bool      `gorm:"not null" json:"is_like"`
	Place     *Place    `gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE" json:"-"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite marks a place as favorited by a user. Presence is the state.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlaceID   uint      `gorm:"not null;uniqueIndex:idx_favorites_place_user" json:"place_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_place_user" json:"user_id"`
	Place     *Place    `gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE" json:"-"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
