package repositories

import "musiccatalog/internal/models"

// TrackRepository defines the interface for track data access, including
// the denormalized search over track, artist and album names.
type TrackRepository interface {
	GetAll() ([]models.Track, error)
	GetByID(id string) (*models.Track, error)
	Create(track *models.Track) error
	Update(track *models.Track) error
	Delete(id string) error
	// ListByAlbum returns every track owned by the given album.
	ListByAlbum(albumID string) ([]models.Track, error)
	// CountByAlbum reports how many tracks reference the given album.
	// Used by the guarded album delete.
	CountByAlbum(albumID string) (int64, error)
	// CountByArtist reports how many tracks reference the given artist.
	// Used by the guarded artist delete.
	CountByArtist(artistID string) (int64, error)
	// Search returns every track whose own name, owning artist name or
	// owning album name contains the query, case-insensitively, as a
	// flattened view. No ranking, no pagination.
	Search(query string) ([]models.TrackView, error)
}
