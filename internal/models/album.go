package models

import "time"

// Album represents an album owned by an artist.
type Album struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string    `json:"name" gorm:"type:varchar(150);not null" validate:"required,min=1,max=150"`
	ArtistID  string    `json:"artist_id" gorm:"type:varchar(36);not null;index" validate:"required,uuid"`
	Artist    *Artist   `json:"-" gorm:"foreignKey:ArtistID;constraint:OnDelete:RESTRICT"`
	ArtURL    string    `json:"art_url" gorm:"type:varchar(512)"` // opaque object-storage URL, empty until upload
	Year      int       `json:"year" validate:"omitempty,gte=1000,lte=9999"`
	CreatedAt time.Time `json:"created_at"`
}

// AlbumUpdate carries a partial update for an album. Nil fields are
// left unchanged.
type AlbumUpdate struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=150"`
	ArtistID *string `json:"artist_id" validate:"omitempty,uuid"`
	ArtURL   *string `json:"art_url"`
	Year     *int    `json:"year" validate:"omitempty,gte=1000,lte=9999"`
}
