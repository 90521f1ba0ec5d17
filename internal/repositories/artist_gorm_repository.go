package repositories

import (
	"errors"
	"fmt"
	"strings"

	"musiccatalog/internal/apperrors"
	"musiccatalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMArtistRepository is a GORM implementation of ArtistRepository.
type GORMArtistRepository struct {
	db *gorm.DB
}

// NewGORMArtistRepository creates a new instance of GORMArtistRepository.
func NewGORMArtistRepository(db *gorm.DB) *GORMArtistRepository {
	return &GORMArtistRepository{
		db: db,
	}
}

// GetAll retrieves all artists from the database.
func (r *GORMArtistRepository) GetAll() ([]models.Artist, error) {
	var artists []models.Artist
	if err := r.db.Find(&artists).Error; err != nil {
		return nil, fmt.Errorf("failed to get all artists: %w", err)
	}
	return artists, nil
}

// GetByID retrieves a single artist by its ID from the database.
func (r *GORMArtistRepository) GetByID(id string) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.First(&artist, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("artist with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get artist by ID %s: %w", id, err)
	}
	return &artist, nil
}

// Create creates a new artist in the database.
func (r *GORMArtistRepository) Create(artist *models.Artist) error {
	if artist.ID == "" {
		artist.ID = uuid.New().String()
	}
	if err := r.db.Create(artist).Error; err != nil {
		return fmt.Errorf("failed to create artist: %w", err)
	}
	return nil
}

// Update updates an existing artist in the database.
func (r *GORMArtistRepository) Update(artist *models.Artist) error {
	res := r.db.Save(artist)
	if res.Error != nil {
		return fmt.Errorf("failed to update artist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("artist with ID %s: %w", artist.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete deletes an artist by its ID from the database. The RESTRICT
// foreign keys on albums and tracks make the database the final word on
// a delete racing a child insert.
func (r *GORMArtistRepository) Delete(id string) error {
	res := r.db.Delete(&models.Artist{}, "id = ?", id)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return fmt.Errorf("artist with ID %s still owns albums or tracks: %w", id, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to delete artist %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("artist with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// isForeignKeyViolation reports whether err is a referential-integrity
// failure. Driver error types differ between postgres and sqlite, so the
// message is matched.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key") || strings.Contains(msg, "violates") || strings.Contains(msg, "constraint")
}
