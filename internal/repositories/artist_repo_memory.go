package repositories

import (
	"fmt"
	"sync"

	"musiccatalog/internal/apperrors"
	"musiccatalog/internal/models"

	"github.com/google/uuid"
)

// MemoryArtistRepository is an in-memory implementation of ArtistRepository.
type MemoryArtistRepository struct {
	artists map[string]models.Artist
	mu      sync.RWMutex
}

// NewMemoryArtistRepository creates a new instance of MemoryArtistRepository.
func NewMemoryArtistRepository() *MemoryArtistRepository {
	return &MemoryArtistRepository{
		artists: make(map[string]models.Artist),
	}
}

// GetAll returns all artists.
func (r *MemoryArtistRepository) GetAll() ([]models.Artist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artistList := make([]models.Artist, 0, len(r.artists))
	for _, a := range r.artists {
		artistList = append(artistList, a)
	}
	return artistList, nil
}

// GetByID returns an artist by its ID.
func (r *MemoryArtistRepository) GetByID(id string) (*models.Artist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artist, ok := r.artists[id]
	if !ok {
		return nil, fmt.Errorf("artist with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return &artist, nil
}

// Create adds a new artist.
func (r *MemoryArtistRepository) Create(artist *models.Artist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if artist.ID == "" {
		artist.ID = uuid.New().String()
	}
	r.artists[artist.ID] = *artist
	return nil
}

// Update modifies an existing artist.
func (r *MemoryArtistRepository) Update(artist *models.Artist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.artists[artist.ID]; !ok {
		return fmt.Errorf("artist with ID %s: %w", artist.ID, apperrors.ErrNotFound)
	}
	r.artists[artist.ID] = *artist
	return nil
}

// Delete removes an artist by its ID.
func (r *MemoryArtistRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.artists[id]; !ok {
		return fmt.Errorf("artist with ID %s: %w", id, apperrors.ErrNotFound)
	}
	delete(r.artists, id)
	return nil
}
