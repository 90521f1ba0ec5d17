package repositories

import "musiccatalog/internal/models"

// ArtistRepository defines the interface for artist data access.
type ArtistRepository interface {
	GetAll() ([]models.Artist, error)
	GetByID(id string) (*models.Artist, error)
	Create(artist *models.Artist) error
	Update(artist *models.Artist) error
	Delete(id string) error
}
