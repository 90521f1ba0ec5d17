package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"musiccatalog/internal/apperrors"
	"musiccatalog/internal/models"
	"musiccatalog/internal/repositories"
	"musiccatalog/pkg/objectstore"
	"musiccatalog/pkg/rabbitmq"

	"github.com/google/uuid"
)

// EventPublisher publishes catalog mutation events. *rabbitmq.Client
// satisfies it; a nil publisher disables events.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// CatalogService mediates every mutation of artists, albums and tracks so
// the referential and ownership invariants hold regardless of which
// repository implementation sits behind it.
type CatalogService struct {
	artistRepo repositories.ArtistRepository
	albumRepo  repositories.AlbumRepository
	trackRepo  repositories.TrackRepository
	store      objectstore.ObjectStore
	publisher  EventPublisher
}

// NewCatalogService creates a new CatalogService. store and publisher may
// be nil: uploads are then rejected and events skipped.
func NewCatalogService(
	artistRepo repositories.ArtistRepository,
	albumRepo repositories.AlbumRepository,
	trackRepo repositories.TrackRepository,
	store objectstore.ObjectStore,
	publisher EventPublisher,
) *CatalogService {
	return &CatalogService{
		artistRepo: artistRepo,
		albumRepo:  albumRepo,
		trackRepo:  trackRepo,
		store:      store,
		publisher:  publisher,
	}
}

// --- Artists ---

// GetAllArtists retrieves all artists.
func (s *CatalogService) GetAllArtists() ([]models.Artist, error) {
	return s.artistRepo.GetAll()
}

// GetArtistByID retrieves a single artist by its ID.
func (s *CatalogService) GetArtistByID(id string) (*models.Artist, error) {
	return s.artistRepo.GetByID(id)
}

// CreateArtist creates a new artist. The image URL may be empty until an
// upload happens.
func (s *CatalogService) CreateArtist(name, genre, imageURL string) (*models.Artist, error) {
	artist := &models.Artist{
		Name:     name,
		Genre:    genre,
		ImageURL: imageURL,
	}
	if err := s.artistRepo.Create(artist); err != nil {
		return nil, err
	}
	s.publishEvent("artist.created", artist.ID, artist.Name)
	return artist, nil
}

// CreateArtistFromUpload uploads the artist image to object storage and
// creates the artist with the resulting URL.
func (s *CatalogService) CreateArtistFromUpload(ctx context.Context, name, genre, filename, contentType string, data []byte) (*models.Artist, error) {
	imageURL, err := s.putAsset(ctx, "artists", filename, contentType, data)
	if err != nil {
		return nil, err
	}
	return s.CreateArtist(name, genre, imageURL)
}

// UpdateArtist applies a partial update. Nil fields are left unchanged.
func (s *CatalogService) UpdateArtist(id string, update models.ArtistUpdate) (*models.Artist, error) {
	artist, err := s.artistRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		artist.Name = *update.Name
	}
	if update.Genre != nil {
		artist.Genre = *update.Genre
	}
	if update.ImageURL != nil {
		artist.ImageURL = *update.ImageURL
	}
	if err := s.artistRepo.Update(artist); err != nil {
		return nil, err
	}
	return artist, nil
}

// UploadArtistImage stores a new image for an existing artist and removes
// the superseded object afterwards.
func (s *CatalogService) UploadArtistImage(ctx context.Context, id, filename, contentType string, data []byte) (*models.Artist, error) {
	artist, err := s.artistRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	imageURL, err := s.putAsset(ctx, "artists", filename, contentType, data)
	if err != nil {
		return nil, err
	}
	oldURL := artist.ImageURL
	artist.ImageURL = imageURL
	if err := s.artistRepo.Update(artist); err != nil {
		return nil, err
	}
	s.deleteSupersededAsset(ctx, oldURL)
	return artist, nil
}

// DeleteArtist deletes an artist unless it still owns albums or tracks.
func (s *CatalogService) DeleteArtist(id string) error {
	if _, err := s.artistRepo.GetByID(id); err != nil {
		return err
	}
	albumCount, err := s.albumRepo.CountByArtist(id)
	if err != nil {
		return err
	}
	trackCount, err := s.trackRepo.CountByArtist(id)
	if err != nil {
		return err
	}
	if albumCount > 0 || trackCount > 0 {
		return fmt.Errorf("artist %s owns %d albums and %d tracks: %w", id, albumCount, trackCount, apperrors.ErrConflict)
	}
	if err := s.artistRepo.Delete(id); err != nil {
		return err
	}
	s.publishEvent("artist.deleted", id, "")
	return nil
}

// --- Albums ---

// GetAllAlbums retrieves all albums.
func (s *CatalogService) GetAllAlbums() ([]models.Album, error) {
	return s.albumRepo.GetAll()
}

// GetAlbumByID retrieves a single album by its ID.
func (s *CatalogService) GetAlbumByID(id string) (*models.Album, error) {
	return s.albumRepo.GetByID(id)
}

// CreateAlbum creates a new album after resolving its artist.
func (s *CatalogService) CreateAlbum(name, artistID string, year int, artURL string) (*models.Album, error) {
	if _, err := s.artistRepo.GetByID(artistID); err != nil {
		return nil, err
	}
	album := &models.Album{
		Name:     name,
		ArtistID: artistID,
		Year:     year,
		ArtURL:   artURL,
	}
	if err := s.albumRepo.Create(album); err != nil {
		return nil, err
	}
	s.publishEvent("album.created", album.ID, album.Name)
	return album, nil
}

// CreateAlbumFromUpload uploads the album art to object storage and
// creates the album with the resulting URL.
func (s *CatalogService) CreateAlbumFromUpload(ctx context.Context, name, artistID string, year int, filename, contentType string, data []byte) (*models.Album, error) {
	if _, err := s.artistRepo.GetByID(artistID); err != nil {
		return nil, err
	}
	artURL, err := s.putAsset(ctx, "albums", filename, contentType, data)
	if err != nil {
		return nil, err
	}
	return s.CreateAlbum(name, artistID, year, artURL)
}

// UpdateAlbum applies a partial update. Changing the artist re-resolves
// the FK and re-derives the artist of every owned track so tracks never
// disagree with their album.
func (s *CatalogService) UpdateAlbum(id string, update models.AlbumUpdate) (*models.Album, error) {
	album, err := s.albumRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	artistChanged := false
	if update.ArtistID != nil && *update.ArtistID != album.ArtistID {
		if _, err := s.artistRepo.GetByID(*update.ArtistID); err != nil {
			return nil, err
		}
		album.ArtistID = *update.ArtistID
		artistChanged = true
	}
	if update.Name != nil {
		album.Name = *update.Name
	}
	if update.Year != nil {
		album.Year = *update.Year
	}
	if update.ArtURL != nil {
		album.ArtURL = *update.ArtURL
	}
	if err := s.albumRepo.Update(album); err != nil {
		return nil, err
	}

	if artistChanged {
		tracks, err := s.trackRepo.ListByAlbum(album.ID)
		if err != nil {
			return nil, err
		}
		for i := range tracks {
			tracks[i].ArtistID = album.ArtistID
			if err := s.trackRepo.Update(&tracks[i]); err != nil {
				return nil, err
			}
		}
	}
	return album, nil
}

// UploadAlbumArt stores new art for an existing album and removes the
// superseded object afterwards.
func (s *CatalogService) UploadAlbumArt(ctx context.Context, id, filename, contentType string, data []byte) (*models.Album, error) {
	album, err := s.albumRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	artURL, err := s.putAsset(ctx, "albums", filename, contentType, data)
	if err != nil {
		return nil, err
	}
	oldURL := album.ArtURL
	album.ArtURL = artURL
	if err := s.albumRepo.Update(album); err != nil {
		return nil, err
	}
	s.deleteSupersededAsset(ctx, oldURL)
	return album, nil
}

// DeleteAlbum deletes an album unless it still owns tracks.
func (s *CatalogService) DeleteAlbum(id string) error {
	if _, err := s.albumRepo.GetByID(id); err != nil {
		return err
	}
	trackCount, err := s.trackRepo.CountByAlbum(id)
	if err != nil {
		return err
	}
	if trackCount > 0 {
		return fmt.Errorf("album %s owns %d tracks: %w", id, trackCount, apperrors.ErrConflict)
	}
	if err := s.albumRepo.Delete(id); err != nil {
		return err
	}
	s.publishEvent("album.deleted", id, "")
	return nil
}

// --- Tracks ---

// GetAllTracks retrieves all tracks.
func (s *CatalogService) GetAllTracks() ([]models.Track, error) {
	return s.trackRepo.GetAll()
}

// GetTrackByID retrieves a single track by its ID.
func (s *CatalogService) GetTrackByID(id string) (*models.Track, error) {
	return s.trackRepo.GetByID(id)
}

// CreateTrack creates a new track after resolving its album. The track's
// artist is always the album's artist, so clients cannot introduce a
// disagreement between the two references. Duration is in milliseconds.
func (s *CatalogService) CreateTrack(name, albumID string, duration int64, previewURL string) (*models.Track, error) {
	album, err := s.albumRepo.GetByID(albumID)
	if err != nil {
		return nil, err
	}
	track := &models.Track{
		Name:       name,
		AlbumID:    albumID,
		ArtistID:   album.ArtistID,
		Duration:   duration,
		PreviewURL: previewURL,
	}
	if err := s.trackRepo.Create(track); err != nil {
		return nil, err
	}
	s.publishEvent("track.created", track.ID, track.Name)
	return track, nil
}

// CreateTrackFromUpload uploads the preview audio to object storage and
// creates the track with the resulting URL.
func (s *CatalogService) CreateTrackFromUpload(ctx context.Context, name, albumID string, duration int64, filename, contentType string, data []byte) (*models.Track, error) {
	if _, err := s.albumRepo.GetByID(albumID); err != nil {
		return nil, err
	}
	previewURL, err := s.putAsset(ctx, "tracks", filename, contentType, data)
	if err != nil {
		return nil, err
	}
	return s.CreateTrack(name, albumID, duration, previewURL)
}

// UpdateTrack applies a partial update. Moving the track to another album
// re-derives its artist from the new album.
func (s *CatalogService) UpdateTrack(id string, update models.TrackUpdate) (*models.Track, error) {
	track, err := s.trackRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if update.AlbumID != nil && *update.AlbumID != track.AlbumID {
		album, err := s.albumRepo.GetByID(*update.AlbumID)
		if err != nil {
			return nil, err
		}
		track.AlbumID = album.ID
		track.ArtistID = album.ArtistID
	}
	if update.Name != nil {
		track.Name = *update.Name
	}
	if update.Duration != nil {
		track.Duration = *update.Duration
	}
	if update.PreviewURL != nil {
		track.PreviewURL = *update.PreviewURL
	}
	if err := s.trackRepo.Update(track); err != nil {
		return nil, err
	}
	return track, nil
}

// UploadTrackPreview stores a new preview for an existing track and
// removes the superseded object afterwards.
func (s *CatalogService) UploadTrackPreview(ctx context.Context, id, filename, contentType string, data []byte) (*models.Track, error) {
	track, err := s.trackRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	previewURL, err := s.putAsset(ctx, "tracks", filename, contentType, data)
	if err != nil {
		return nil, err
	}
	oldURL := track.PreviewURL
	track.PreviewURL = previewURL
	if err := s.trackRepo.Update(track); err != nil {
		return nil, err
	}
	s.deleteSupersededAsset(ctx, oldURL)
	return track, nil
}

// DeleteTrack deletes a track. Tracks are leaf entities, so the delete is
// unconditional.
func (s *CatalogService) DeleteTrack(id string) error {
	if err := s.trackRepo.Delete(id); err != nil {
		return err
	}
	s.publishEvent("track.deleted", id, "")
	return nil
}

// --- Search ---

// Search returns every track whose name, artist name or album name
// contains the query, case-insensitively, as flattened views.
func (s *CatalogService) Search(query string) ([]models.TrackView, error) {
	return s.trackRepo.Search(query)
}

// --- Helpers ---

// putAsset uploads an asset under "<prefix>/<uuid>-<filename>" and
// returns the public URL.
func (s *CatalogService) putAsset(ctx context.Context, prefix, filename, contentType string, data []byte) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	key := fmt.Sprintf("%s/%s-%s", prefix, uuid.New().String(), filename)
	url, err := s.store.Put(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset %s: %w", key, err)
	}
	return url, nil
}

// deleteSupersededAsset removes the object behind a replaced URL. Failure
// is logged and never fails the metadata update that already happened.
func (s *CatalogService) deleteSupersededAsset(ctx context.Context, url string) {
	if s.store == nil || url == "" {
		return
	}
	key, ok := s.store.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		log.Printf("Warning: failed to delete superseded asset %s: %v", key, err)
	}
}

// publishEvent publishes a catalog mutation event. Publish failure is
// logged, never surfaced to the caller.
func (s *CatalogService) publishEvent(routingKey, id, name string) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]string{"id": id, "name": name})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish(rabbitmq.CatalogExchange, routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for %s: %v", routingKey, id, err)
	}
}
