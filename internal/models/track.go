package models

import "time"

// Track represents a single track. ArtistID is always derived from the
// owning album, so a track can never disagree with its album about the
// artist.
type Track struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string    `json:"name" gorm:"type:varchar(150);not null" validate:"required,min=1,max=150"`
	AlbumID    string    `json:"album_id" gorm:"type:varchar(36);not null;index" validate:"required,uuid"`
	Album      *Album    `json:"-" gorm:"foreignKey:AlbumID;constraint:OnDelete:RESTRICT"`
	ArtistID   string    `json:"artist_id" gorm:"type:varchar(36);not null;index"`
	Artist     *Artist   `json:"-" gorm:"foreignKey:ArtistID;constraint:OnDelete:RESTRICT"`
	Duration   int64     `json:"duration" validate:"omitempty,gt=0"` // milliseconds
	PreviewURL string    `json:"preview_url" gorm:"type:varchar(512)"`
	CreatedAt  time.Time `json:"created_at"`
}

// TrackUpdate carries a partial update for a track. Nil fields are left
// unchanged. Changing AlbumID re-derives the track's artist from the new
// album.
type TrackUpdate struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=150"`
	AlbumID    *string `json:"album_id" validate:"omitempty,uuid"`
	Duration   *int64  `json:"duration" validate:"omitempty,gt=0"`
	PreviewURL *string `json:"preview_url"`
}

// TrackView is the flattened read model returned by search: track fields
// joined with the owning artist and album names.
type TrackView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	AlbumArt   string `json:"album_art"`
	Duration   int64  `json:"duration"`
	PreviewURL string `json:"preview_url"`
}

// SearchResponse is the envelope returned by the search endpoint.
type SearchResponse struct {
	Tracks TracksWrapper `json:"tracks"`
}

// TracksWrapper wraps the matched tracks.
type TracksWrapper struct {
	Items []TrackView `json:"items"`
}
