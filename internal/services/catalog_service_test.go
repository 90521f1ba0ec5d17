package services_test

import (
	"context"
	"strings"
	"testing"

	"musiccatalog/internal/apperrors"
	"musiccatalog/internal/models"
	"musiccatalog/internal/repositories"
	"musiccatalog/internal/services"
	"musiccatalog/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
)

// fakeObjectStore keeps uploaded objects in a map and records deletes.
type fakeObjectStore struct {
	objects map[string][]byte
	deleted []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.objects[key] = data
	return "http://store.local/" + key, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) KeyFromURL(url string) (string, bool) {
	const base = "http://store.local/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	return strings.TrimPrefix(url, base), true
}

// recordingPublisher records every published event.
type recordingPublisher struct {
	exchanges   []string
	routingKeys []string
}

func (p *recordingPublisher) Publish(exchange, routingKey string, body []byte) error {
	p.exchanges = append(p.exchanges, exchange)
	p.routingKeys = append(p.routingKeys, routingKey)
	return nil
}

type catalogFixture struct {
	service   *services.CatalogService
	store     *fakeObjectStore
	publisher *recordingPublisher
}

func newCatalogFixture() *catalogFixture {
	artists := repositories.NewMemoryArtistRepository()
	albums := repositories.NewMemoryAlbumRepository()
	tracks := repositories.NewMemoryTrackRepository(artists, albums)
	store := newFakeObjectStore()
	publisher := &recordingPublisher{}
	return &catalogFixture{
		service:   services.NewCatalogService(artists, albums, tracks, store, publisher),
		store:     store,
		publisher: publisher,
	}
}

func TestCatalogService_CreateAlbumRequiresArtist(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.service.CreateAlbum("Discovery", "no-such-artist", 2001, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	albums, err := f.service.GetAllAlbums()
	assert.NoError(t, err)
	assert.Empty(t, albums)
}

func TestCatalogService_CreateTrackDerivesArtistFromAlbum(t *testing.T) {
	f := newCatalogFixture()

	artist, err := f.service.CreateArtist("Daft Punk", "Electronic", "")
	assert.NoError(t, err)
	album, err := f.service.CreateAlbum("Discovery", artist.ID, 2001, "")
	assert.NoError(t, err)

	track, err := f.service.CreateTrack("One More Time", album.ID, 320000, "")
	assert.NoError(t, err)
	assert.Equal(t, album.ID, track.AlbumID)
	assert.Equal(t, artist.ID, track.ArtistID)
	assert.Equal(t, int64(320000), track.Duration)

	// Missing album means no track
	_, err = f.service.CreateTrack("Aerodynamic", "no-such-album", 212000, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_DeleteGuards(t *testing.T) {
	f := newCatalogFixture()

	artist, _ := f.service.CreateArtist("Daft Punk", "Electronic", "")
	album, _ := f.service.CreateAlbum("Discovery", artist.ID, 2001, "")
	track, _ := f.service.CreateTrack("One More Time", album.ID, 320000, "")

	// Artist and album cannot be deleted while they own children
	err := f.service.DeleteArtist(artist.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	err = f.service.DeleteAlbum(album.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// The refused deletes must not have removed anything
	got, err := f.service.GetArtistByID(artist.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Daft Punk", got.Name)
	_, err = f.service.GetAlbumByID(album.ID)
	assert.NoError(t, err)

	// Draining bottom-up succeeds: track, then album, then artist
	assert.NoError(t, f.service.DeleteTrack(track.ID))
	assert.NoError(t, f.service.DeleteAlbum(album.ID))
	assert.NoError(t, f.service.DeleteArtist(artist.ID))

	_, err = f.service.GetArtistByID(artist.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Deleting what is already gone is a not-found
	assert.ErrorIs(t, f.service.DeleteTrack(track.ID), apperrors.ErrNotFound)
	assert.ErrorIs(t, f.service.DeleteAlbum(album.ID), apperrors.ErrNotFound)
	assert.ErrorIs(t, f.service.DeleteArtist(artist.ID), apperrors.ErrNotFound)

	assert.Equal(t, []string{
		"artist.created", "album.created", "track.created",
		"track.deleted", "album.deleted", "artist.deleted",
	}, f.publisher.routingKeys)
	// Every event goes to the exchange the client declares
	for _, exchange := range f.publisher.exchanges {
		assert.Equal(t, rabbitmq.CatalogExchange, exchange)
	}
}

func TestCatalogService_Search(t *testing.T) {
	f := newCatalogFixture()

	daftPunk, _ := f.service.CreateArtist("Daft Punk", "Electronic", "")
	discovery, _ := f.service.CreateAlbum("Discovery", daftPunk.ID, 2001, "")
	oneMoreTime, _ := f.service.CreateTrack("One More Time", discovery.ID, 320000, "")

	beatles, _ := f.service.CreateArtist("The Beatles", "Rock", "")
	abbeyRoad, _ := f.service.CreateAlbum("Abbey Road", beatles.ID, 1969, "")
	f.service.CreateTrack("Come Together", abbeyRoad.ID, 259000, "")
	f.service.CreateTrack("Something", abbeyRoad.ID, 182000, "")

	// Album-name match carries the full flattened view
	views, err := f.service.Search("discovery")
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, oneMoreTime.ID, views[0].ID)
	assert.Equal(t, "One More Time", views[0].Name)
	assert.Equal(t, "Daft Punk", views[0].Artist)
	assert.Equal(t, "Discovery", views[0].Album)
	assert.Equal(t, int64(320000), views[0].Duration)

	// Artist-name match returns every track of the artist, regardless
	// of query case
	views, err = f.service.Search("BEATLES")
	assert.NoError(t, err)
	assert.Len(t, views, 2)
	for _, v := range views {
		assert.Equal(t, "The Beatles", v.Artist)
		assert.Equal(t, "Abbey Road", v.Album)
	}

	// Track-name match
	views, err = f.service.Search("come tog")
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, "Come Together", views[0].Name)

	// No match is an empty slice, not an error
	views, err = f.service.Search("nonexistent")
	assert.NoError(t, err)
	assert.Empty(t, views)
}

func TestCatalogService_PartialUpdates(t *testing.T) {
	f := newCatalogFixture()

	artist, _ := f.service.CreateArtist("Daft Punk", "Electronic", "")
	album, _ := f.service.CreateAlbum("Discovery", artist.ID, 2001, "")
	track, _ := f.service.CreateTrack("One More Time", album.ID, 320000, "")

	// Omitted fields stay untouched
	newGenre := "French House"
	updatedArtist, err := f.service.UpdateArtist(artist.ID, models.ArtistUpdate{Genre: &newGenre})
	assert.NoError(t, err)
	assert.Equal(t, "Daft Punk", updatedArtist.Name)
	assert.Equal(t, "French House", updatedArtist.Genre)

	newYear := 2001
	newName := "Discovery (Remastered)"
	updatedAlbum, err := f.service.UpdateAlbum(album.ID, models.AlbumUpdate{Name: &newName, Year: &newYear})
	assert.NoError(t, err)
	assert.Equal(t, "Discovery (Remastered)", updatedAlbum.Name)
	assert.Equal(t, artist.ID, updatedAlbum.ArtistID)

	newDuration := int64(321000)
	updatedTrack, err := f.service.UpdateTrack(track.ID, models.TrackUpdate{Duration: &newDuration})
	assert.NoError(t, err)
	assert.Equal(t, "One More Time", updatedTrack.Name)
	assert.Equal(t, int64(321000), updatedTrack.Duration)

	// Updating something that does not exist
	_, err = f.service.UpdateArtist("no-such-artist", models.ArtistUpdate{Genre: &newGenre})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_UpdateTrackAlbumMoveRederivesArtist(t *testing.T) {
	f := newCatalogFixture()

	daftPunk, _ := f.service.CreateArtist("Daft Punk", "Electronic", "")
	discovery, _ := f.service.CreateAlbum("Discovery", daftPunk.ID, 2001, "")
	track, _ := f.service.CreateTrack("One More Time", discovery.ID, 320000, "")

	beatles, _ := f.service.CreateArtist("The Beatles", "Rock", "")
	abbeyRoad, _ := f.service.CreateAlbum("Abbey Road", beatles.ID, 1969, "")

	updated, err := f.service.UpdateTrack(track.ID, models.TrackUpdate{AlbumID: &abbeyRoad.ID})
	assert.NoError(t, err)
	assert.Equal(t, abbeyRoad.ID, updated.AlbumID)
	assert.Equal(t, beatles.ID, updated.ArtistID)

	// Moving to a missing album fails and leaves the track alone
	missing := "no-such-album"
	_, err = f.service.UpdateTrack(track.ID, models.TrackUpdate{AlbumID: &missing})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	current, _ := f.service.GetTrackByID(track.ID)
	assert.Equal(t, abbeyRoad.ID, current.AlbumID)
}

func TestCatalogService_UpdateAlbumArtistRepointsTracks(t *testing.T) {
	f := newCatalogFixture()

	daftPunk, _ := f.service.CreateArtist("Daft Punk", "Electronic", "")
	discovery, _ := f.service.CreateAlbum("Discovery", daftPunk.ID, 2001, "")
	track1, _ := f.service.CreateTrack("One More Time", discovery.ID, 320000, "")
	track2, _ := f.service.CreateTrack("Aerodynamic", discovery.ID, 212000, "")

	beatles, _ := f.service.CreateArtist("The Beatles", "Rock", "")

	updated, err := f.service.UpdateAlbum(discovery.ID, models.AlbumUpdate{ArtistID: &beatles.ID})
	assert.NoError(t, err)
	assert.Equal(t, beatles.ID, updated.ArtistID)

	// Owned tracks follow the album to the new artist
	for _, id := range []string{track1.ID, track2.ID} {
		got, err := f.service.GetTrackByID(id)
		assert.NoError(t, err)
		assert.Equal(t, beatles.ID, got.ArtistID)
	}

	// Daft Punk no longer owns anything and can be deleted
	assert.NoError(t, f.service.DeleteArtist(daftPunk.ID))
}

func TestCatalogService_UploadArtistImage(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	artist, _ := f.service.CreateArtist("Daft Punk", "Electronic", "")
	assert.Empty(t, artist.ImageURL)

	updated, err := f.service.UploadArtistImage(ctx, artist.ID, "daft.jpg", "image/jpeg", []byte("image-bytes"))
	assert.NoError(t, err)
	assert.Contains(t, updated.ImageURL, "artists/")
	assert.Contains(t, updated.ImageURL, "daft.jpg")
	firstURL := updated.ImageURL

	// A second upload replaces the URL and deletes the superseded object
	updated, err = f.service.UploadArtistImage(ctx, artist.ID, "daft2.jpg", "image/jpeg", []byte("other-bytes"))
	assert.NoError(t, err)
	assert.NotEqual(t, firstURL, updated.ImageURL)

	firstKey, ok := f.store.KeyFromURL(firstURL)
	assert.True(t, ok)
	assert.Contains(t, f.store.deleted, firstKey)
	assert.NotContains(t, f.store.objects, firstKey)

	// Uploading to a missing artist stores nothing lasting
	_, err = f.service.UploadArtistImage(ctx, "no-such-artist", "x.jpg", "image/jpeg", []byte("bytes"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_CreateFromUpload(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	artist, err := f.service.CreateArtistFromUpload(ctx, "Daft Punk", "Electronic", "daft.jpg", "image/jpeg", []byte("img"))
	assert.NoError(t, err)
	assert.Contains(t, artist.ImageURL, "artists/")

	album, err := f.service.CreateAlbumFromUpload(ctx, "Discovery", artist.ID, 2001, "discovery.jpg", "image/jpeg", []byte("art"))
	assert.NoError(t, err)
	assert.Contains(t, album.ArtURL, "albums/")

	track, err := f.service.CreateTrackFromUpload(ctx, "One More Time", album.ID, 320000, "preview.mp3", "audio/mpeg", []byte("audio"))
	assert.NoError(t, err)
	assert.Contains(t, track.PreviewURL, "tracks/")
	assert.Equal(t, artist.ID, track.ArtistID)

	// The album is resolved before anything is uploaded
	before := len(f.store.objects)
	_, err = f.service.CreateTrackFromUpload(ctx, "Orphan", "no-such-album", 1000, "p.mp3", "audio/mpeg", []byte("audio"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Len(t, f.store.objects, before)
}

func TestCatalogService_UploadsDisabledWithoutStore(t *testing.T) {
	artists := repositories.NewMemoryArtistRepository()
	albums := repositories.NewMemoryAlbumRepository()
	tracks := repositories.NewMemoryTrackRepository(artists, albums)
	service := services.NewCatalogService(artists, albums, tracks, nil, nil)

	artist, err := service.CreateArtist("Daft Punk", "Electronic", "")
	assert.NoError(t, err)

	_, err = service.UploadArtistImage(context.Background(), artist.ID, "x.jpg", "image/jpeg", []byte("img"))
	assert.Error(t, err)
}
