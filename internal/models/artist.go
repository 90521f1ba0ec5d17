package models

import "time"

// Artist represents a recording artist in the catalog.
type Artist struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=1,max=100"`
	Genre     string    `json:"genre" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	ImageURL  string    `json:"image_url" gorm:"type:varchar(512)"` // opaque object-storage URL, empty until upload
	CreatedAt time.Time `json:"created_at"`
}

// ArtistUpdate carries a partial update for an artist. Nil fields are
// left unchanged.
type ArtistUpdate struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Genre    *string `json:"genre" validate:"omitempty,max=50"`
	ImageURL *string `json:"image_url"`
}
