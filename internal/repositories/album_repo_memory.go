package repositories

import (
	"fmt"
	"sync"

	"musiccatalog/internal/apperrors"
	"musiccatalog/internal/models"

	"github.com/google/uuid"
)

// MemoryAlbumRepository is an in-memory implementation of AlbumRepository.
type MemoryAlbumRepository struct {
	albums map[string]models.Album
	mu     sync.RWMutex
}

// NewMemoryAlbumRepository creates a new instance of MemoryAlbumRepository.
func NewMemoryAlbumRepository() *MemoryAlbumRepository {
	return &MemoryAlbumRepository{
		albums: make(map[string]models.Album),
	}
}

// GetAll returns all albums.
func (r *MemoryAlbumRepository) GetAll() ([]models.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	albumList := make([]models.Album, 0, len(r.albums))
	for _, a := range r.albums {
		albumList = append(albumList, a)
	}
	return albumList, nil
}

// GetByID returns an album by its ID.
func (r *MemoryAlbumRepository) GetByID(id string) (*models.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	album, ok := r.albums[id]
	if !ok {
		return nil, fmt.Errorf("album with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return &album, nil
}

// Create adds a new album.
func (r *MemoryAlbumRepository) Create(album *models.Album) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if album.ID == "" {
		album.ID = uuid.New().String()
	}
	r.albums[album.ID] = *album
	return nil
}

// Update modifies an existing album.
func (r *MemoryAlbumRepository) Update(album *models.Album) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.albums[album.ID]; !ok {
		return fmt.Errorf("album with ID %s: %w", album.ID, apperrors.ErrNotFound)
	}
	r.albums[album.ID] = *album
	return nil
}

// Delete removes an album by its ID.
func (r *MemoryAlbumRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.albums[id]; !ok {
		return fmt.Errorf("album with ID %s: %w", id, apperrors.ErrNotFound)
	}
	delete(r.albums, id)
	return nil
}

// CountByArtist reports how many albums reference the given artist.
func (r *MemoryAlbumRepository) CountByArtist(artistID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, a := range r.albums {
		if a.ArtistID == artistID {
			count++
		}
	}
	return count, nil
}
