package models

import "time"

// Comment is an append-only note on a place.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	PlaceID   uint      `gorm:"not null;index" json:"place_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Place     *Place    `gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE" json:"-"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentView is a comment with its author embedded.
type CommentView struct {
	ID        uint        `json:"id"`
	Content   string      `json:"content"`
	PlaceID   uint        `json:"place_id"`
	UserID    uint        `json:"user_id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	User      UserSummary `json:"user"`
}
