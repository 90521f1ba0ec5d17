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

// GORMTrackRepository is a GORM implementation of TrackRepository.
type GORMTrackRepository struct {
	db *gorm.DB
}

// NewGORMTrackRepository creates a new instance of GORMTrackRepository.
func NewGORMTrackRepository(db *gorm.DB) *GORMTrackRepository {
	return &GORMTrackRepository{
		db: db,
	}
}

// GetAll retrieves all tracks from the database.
func (r *GORMTrackRepository) GetAll() ([]models.Track, error) {
	var tracks []models.Track
	if err := r.db.Find(&tracks).Error; err != nil {
		return nil, fmt.Errorf("failed to get all tracks: %w", err)
	}
	return tracks, nil
}

// GetByID retrieves a single track by its ID from the database.
func (r *GORMTrackRepository) GetByID(id string) (*models.Track, error) {
	var track models.Track
	if err := r.db.First(&track, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("track with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get track by ID %s: %w", id, err)
	}
	return &track, nil
}

// Create creates a new track in the database.
func (r *GORMTrackRepository) Create(track *models.Track) error {
	if track.ID == "" {
		track.ID = uuid.New().String()
	}
	if err := r.db.Create(track).Error; err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("album %s or artist %s: %w", track.AlbumID, track.ArtistID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to create track: %w", err)
	}
	return nil
}

// Update updates an existing track in the database.
func (r *GORMTrackRepository) Update(track *models.Track) error {
	res := r.db.Save(track)
	if res.Error != nil {
		return fmt.Errorf("failed to update track: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("track with ID %s: %w", track.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete deletes a track by its ID from the database. Tracks are leaf
// entities, so no guard applies.
func (r *GORMTrackRepository) Delete(id string) error {
	res := r.db.Delete(&models.Track{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete track %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("track with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ListByAlbum returns every track owned by the given album.
func (r *GORMTrackRepository) ListByAlbum(albumID string) ([]models.Track, error) {
	var tracks []models.Track
	if err := r.db.Find(&tracks, "album_id = ?", albumID).Error; err != nil {
		return nil, fmt.Errorf("failed to list tracks for album %s: %w", albumID, err)
	}
	return tracks, nil
}

// CountByAlbum reports how many tracks reference the given album.
func (r *GORMTrackRepository) CountByAlbum(albumID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Track{}).Where("album_id = ?", albumID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tracks for album %s: %w", albumID, err)
	}
	return count, nil
}

// CountByArtist reports how many tracks reference the given artist.
func (r *GORMTrackRepository) CountByArtist(artistID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Track{}).Where("artist_id = ?", artistID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tracks for artist %s: %w", artistID, err)
	}
	return count, nil
}

// Search joins tracks with their artist and album and matches the query
// against all three names in a single read.
func (r *GORMTrackRepository) Search(query string) ([]models.TrackView, error) {
	q := "%" + strings.ToLower(query) + "%"

	var views []models.TrackView
	err := r.db.Model(&models.Track{}).
		Select("tracks.id, tracks.name, artists.name AS artist, albums.name AS album, albums.art_url AS album_art, tracks.duration, tracks.preview_url").
		Joins("JOIN albums ON albums.id = tracks.album_id").
		Joins("JOIN artists ON artists.id = tracks.artist_id").
		Where("LOWER(tracks.name) LIKE ? OR LOWER(artists.name) LIKE ? OR LOWER(albums.name) LIKE ?", q, q, q).
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search tracks: %w", err)
	}
	return views, nil
}
