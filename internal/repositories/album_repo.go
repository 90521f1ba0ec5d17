package repositories

import "musiccatalog/internal/models"

// AlbumRepository defines the interface for album data access.
type AlbumRepository interface {
	GetAll() ([]models.Album, error)
	GetByID(id string) (*models.Album, error)
	Create(album *models.Album) error
	Update(album *models.Album) error
	Delete(id string) error
	// CountByArtist reports how many albums reference the given artist.
	// Used by the guarded artist delete.
	CountByArtist(artistID string) (int64, error)
}
