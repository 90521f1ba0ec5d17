package repositories

import (
	"fmt"
	"strings"
	"sync"

	"musiccatalog/internal/apperrors"
	"musiccatalog/internal/models"

	"github.com/google/uuid"
)

// MemoryTrackRepository is an in-memory implementation of TrackRepository.
// Search needs the owning artist and album names, so it holds references
// to the sibling repositories.
type MemoryTrackRepository struct {
	tracks  map[string]models.Track
	artists ArtistRepository
	albums  AlbumRepository
	mu      sync.RWMutex
}

// NewMemoryTrackRepository creates a new instance of MemoryTrackRepository.
func NewMemoryTrackRepository(artists ArtistRepository, albums AlbumRepository) *MemoryTrackRepository {
	return &MemoryTrackRepository{
		tracks:  make(map[string]models.Track),
		artists: artists,
		albums:  albums,
	}
}

// GetAll returns all tracks.
func (r *MemoryTrackRepository) GetAll() ([]models.Track, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trackList := make([]models.Track, 0, len(r.tracks))
	for _, t := range r.tracks {
		trackList = append(trackList, t)
	}
	return trackList, nil
}

// GetByID returns a track by its ID.
func (r *MemoryTrackRepository) GetByID(id string) (*models.Track, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	track, ok := r.tracks[id]
	if !ok {
		return nil, fmt.Errorf("track with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return &track, nil
}

// Create adds a new track.
func (r *MemoryTrackRepository) Create(track *models.Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if track.ID == "" {
		track.ID = uuid.New().String()
	}
	r.tracks[track.ID] = *track
	return nil
}

// Update modifies an existing track.
func (r *MemoryTrackRepository) Update(track *models.Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tracks[track.ID]; !ok {
		return fmt.Errorf("track with ID %s: %w", track.ID, apperrors.ErrNotFound)
	}
	r.tracks[track.ID] = *track
	return nil
}

// Delete removes a track by its ID.
func (r *MemoryTrackRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tracks[id]; !ok {
		return fmt.Errorf("track with ID %s: %w", id, apperrors.ErrNotFound)
	}
	delete(r.tracks, id)
	return nil
}

// ListByAlbum returns every track owned by the given album.
func (r *MemoryTrackRepository) ListByAlbum(albumID string) ([]models.Track, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tracks []models.Track
	for _, t := range r.tracks {
		if t.AlbumID == albumID {
			tracks = append(tracks, t)
		}
	}
	return tracks, nil
}

// CountByAlbum reports how many tracks reference the given album.
func (r *MemoryTrackRepository) CountByAlbum(albumID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, t := range r.tracks {
		if t.AlbumID == albumID {
			count++
		}
	}
	return count, nil
}

// CountByArtist reports how many tracks reference the given artist.
func (r *MemoryTrackRepository) CountByArtist(artistID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, t := range r.tracks {
		if t.ArtistID == artistID {
			count++
		}
	}
	return count, nil
}

// Search matches the query against track, artist and album names,
// case-insensitively.
func (r *MemoryTrackRepository) Search(query string) ([]models.TrackView, error) {
	r.mu.RLock()
	tracks := make([]models.Track, 0, len(r.tracks))
	for _, t := range r.tracks {
		tracks = append(tracks, t)
	}
	r.mu.RUnlock()

	q := strings.ToLower(query)
	views := make([]models.TrackView, 0)
	for _, t := range tracks {
		artist, err := r.artists.GetByID(t.ArtistID)
		if err != nil {
			return nil, fmt.Errorf("track %s references missing artist %s: %w", t.ID, t.ArtistID, err)
		}
		album, err := r.albums.GetByID(t.AlbumID)
		if err != nil {
			return nil, fmt.Errorf("track %s references missing album %s: %w", t.ID, t.AlbumID, err)
		}

		if strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(artist.Name), q) ||
			strings.Contains(strings.ToLower(album.Name), q) {
			views = append(views, models.TrackView{
				ID:         t.ID,
				Name:       t.Name,
				Artist:     artist.Name,
				Album:      album.Name,
				AlbumArt:   album.ArtURL,
				Duration:   t.Duration,
				PreviewURL: t.PreviewURL,
			})
		}
	}
	return views, nil
}
