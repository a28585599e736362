package models

import (
	"time"

	"gorm.io/datatypes"
)

// Place is a user-submitted geolocated point of interest.
type Place struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Name          string            `gorm:"size:100;not null" json:"name"`
	Description   string            `gorm:"type:text" json:"description"`
	Latitude      float64           `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude     float64           `gorm:"type:decimal(11,8);not null" json:"longitude"`
	UserID        uint              `gorm:"not null;index" json:"user_id"`
	Owner         *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	OsmID         *string           `gorm:"size:100" json:"osm_id"`
	IsOsmImported bool              `gorm:"not null;default:false" json:"is_osm_imported"`
	OsmTags       datatypes.JSONMap `json:"osm_tags"`
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// OwnerUsername returns the joined owner's username, or "" when the owner
// was not loaded.
func (p *Place) OwnerUsername() string {
	if p.Owner == nil {
		return ""
	}
	return p.Owner.Username
}

// EngagementCounts are derived on every read and never stored.
type EngagementCounts struct {
	LikeCount     int64 `json:"like_count"`
	DislikeCount  int64 `json:"dislike_count"`
	FavoriteCount int64 `json:"favorite_count"`
}

// PlaceView is the fully assembled representation of a place.
type PlaceView struct {
	ID            uint              `json:"id"`
	UserID        uint              `json:"user_id"`
	UserUsername  string            `json:"user_username"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Latitude      float64           `json:"latitude"`
	Longitude     float64           `json:"longitude"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Categories    []CategorySummary `json:"categories"`
	OsmID         *string           `json:"osm_id"`
	IsOsmImported bool              `json:"is_osm_imported"`
	OsmTags       datatypes.JSONMap `json:"osm_tags"`
	EngagementCounts
}

// PlaceDetail is a PlaceView with its comment thread, newest first.
type PlaceDetail struct {
	PlaceView
	Comments []CommentView `json:"comments"`
}

// NewPlaceView composes a view from a loaded place and its derived parts.
// The place itself is not modified.
func NewPlaceView(p *Place, categories []CategorySummary, counts EngagementCounts) PlaceView {
	if categories == nil {
		categories = []CategorySummary{}
	}
	return PlaceView{
		ID:               p.ID,
		UserID:           p.UserID,
		UserUsername:     p.OwnerUsername(),
		Name:             p.Name,
		Description:      p.Description,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Categories:       categories,
		OsmID:            p.OsmID,
		IsOsmImported:    p.IsOsmImported,
		OsmTags:          p.OsmTags,
		EngagementCounts: counts,
	}
}
