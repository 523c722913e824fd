package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/zachgliebs/VinylRecorder/cache"
	"github.com/zachgliebs/VinylRecorder/logger"
	"github.com/zachgliebs/VinylRecorder/model"
	"github.com/zachgliebs/VinylRecorder/repository"
)

// Catalog owns album creation, listing, lookup and deletion.
type Catalog struct {
	albums     repository.AlbumRepository
	nowPlaying *cache.NowPlayingCache
}

// NewCatalog creates a catalog service. nowPlaying may be nil when the
// cache is not available.
func NewCatalog(albums repository.AlbumRepository, nowPlaying *cache.NowPlayingCache) *Catalog {
	return &Catalog{albums: albums, nowPlaying: nowPlaying}
}

// AddAlbum validates and stores a new album. An empty coverURL gets the
// default cover; an empty barcode is stored as NULL so it never collides
// with another absent barcode.
func (c *Catalog) AddAlbum(ctx context.Context, title, artist, coverURL, barcode string) (*model.Album, error) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrInvalidInput)
	}
	if artist == "" {
		return nil, fmt.Errorf("%w: artist is required", model.ErrInvalidInput)
	}

	if coverURL == "" {
		coverURL = model.DefaultCoverURL
	}

	album := &model.Album{
		Title:    title,
		Artist:   artist,
		CoverURL: coverURL,
	}
	if barcode != "" {
		album.Barcode = &barcode
	}

	id, err := c.albums.CreateAlbum(ctx, album)
	if err != nil {
		return nil, err
	}
	album.ID = id

	logger.Info("album added",
		logger.Int64("albumId", id),
		logger.String("title", title),
		logger.String("artist", artist),
	)
	return album, nil
}

// GetAlbum returns the album with the given id.
func (c *Catalog) GetAlbum(ctx context.Context, id int64) (*model.Album, error) {
	album, err := c.albums.GetAlbumByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, model.ErrAlbumNotFound
	}
	return album, nil
}

// ListAlbums returns every album in creation order.
func (c *Catalog) ListAlbums(ctx context.Context) ([]*model.Album, error) {
	return c.albums.GetAllAlbums(ctx)
}

// DeleteAlbum removes an album and, via the cascade constraint, all of its
// play sessions. Deleting a missing album succeeds.
func (c *Catalog) DeleteAlbum(ctx context.Context, id int64) error {
	if err := c.albums.DeleteAlbum(ctx, id); err != nil {
		return err
	}

	// The open session, if any, went with the cascade.
	if c.nowPlaying != nil {
		if err := c.nowPlaying.Clear(ctx, id); err != nil {
			logger.Warn("failed to clear now-playing cache",
				logger.Int64("albumId", id),
				logger.ErrorField(err),
			)
		}
	}

	logger.Info("album deleted", logger.Int64("albumId", id))
	return nil
}

// FindByBarcode returns the album with the given barcode, or (nil, nil)
// when no album matches.
func (c *Catalog) FindByBarcode(ctx context.Context, barcode string) (*model.Album, error) {
	if strings.TrimSpace(barcode) == "" {
		return nil, fmt.Errorf("%w: barcode is required", model.ErrInvalidInput)
	}
	return c.albums.GetAlbumByBarcode(ctx, barcode)
}
