package repositories

import (
	"errors"
	"fmt"

	"musiccatalog/internal/apperrors"
	"musiccatalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAlbumRepository is a GORM implementation of AlbumRepository.
type GORMAlbumRepository struct {
	db *gorm.DB
}

// NewGORMAlbumRepository creates a new instance of GORMAlbumRepository.
func NewGORMAlbumRepository(db *gorm.DB) *GORMAlbumRepository {
	return &GORMAlbumRepository{
		db: db,
	}
}

// GetAll retrieves all albums from the database.
func (r *GORMAlbumRepository) GetAll() ([]models.Album, error) {
	var albums []models.Album
	if err := r.db.Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("failed to get all albums: %w", err)
	}
	return albums, nil
}

// GetByID retrieves a single album by its ID from the database.
func (r *GORMAlbumRepository) GetByID(id string) (*models.Album, error) {
	var album models.Album
	if err := r.db.First(&album, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("album with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get album by ID %s: %w", id, err)
	}
	return &album, nil
}

// Create creates a new album in the database.
func (r *GORMAlbumRepository) Create(album *models.Album) error {
	if album.ID == "" {
		album.ID = uuid.New().String()
	}
	if err := r.db.Create(album).Error; err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("artist with ID %s: %w", album.ArtistID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to create album: %w", err)
	}
	return nil
}

// Update updates an existing album in the database.
func (r *GORMAlbumRepository) Update(album *models.Album) error {
	res := r.db.Save(album)
	if res.Error != nil {
		return fmt.Errorf("failed to update album: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("album with ID %s: %w", album.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete deletes an album by its ID from the database.
func (r *GORMAlbumRepository) Delete(id string) error {
	res := r.db.Delete(&models.Album{}, "id = ?", id)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return fmt.Errorf("album with ID %s still owns tracks: %w", id, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to delete album %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("album with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// CountByArtist reports how many albums reference the given artist.
func (r *GORMAlbumRepository) CountByArtist(artistID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Album{}).Where("artist_id = ?", artistID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count albums for artist %s: %w", artistID, err)
	}
	return count, nil
}
