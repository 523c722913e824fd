package server

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/zachgliebs/VinylRecorder/core/catalog"
	"github.com/zachgliebs/VinylRecorder/core/events"
	"github.com/zachgliebs/VinylRecorder/core/tracker"
	"github.com/zachgliebs/VinylRecorder/model"
)

// In-memory repositories backing the handler tests. They enforce the same
// contracts as the SQL implementations.

type memAlbumRepo struct {
	albums []*model.Album
	nextID int64
	err    error
}

func newMemAlbumRepo() *memAlbumRepo {
	return &memAlbumRepo{nextID: 1}
}

func (m *memAlbumRepo) CreateAlbum(ctx context.Context, album *model.Album) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if album.Barcode != nil {
		for _, existing := range m.albums {
			if existing.Barcode != nil && *existing.Barcode == *album.Barcode {
				return 0, model.ErrBarcodeConflict
			}
		}
	}
	stored := *album
	stored.ID = m.nextID
	m.nextID++
	m.albums = append(m.albums, &stored)
	return stored.ID, nil
}

func (m *memAlbumRepo) GetAlbumByID(ctx context.Context, id int64) (*model.Album, error) {
	for _, a := range m.albums {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memAlbumRepo) GetAllAlbums(ctx context.Context) ([]*model.Album, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.albums, nil
}

func (m *memAlbumRepo) DeleteAlbum(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	for i, a := range m.albums {
		if a.ID == id {
			m.albums = append(m.albums[:i], m.albums[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memAlbumRepo) GetAlbumByBarcode(ctx context.Context, barcode string) (*model.Album, error) {
	for _, a := range m.albums {
		if a.Barcode != nil && *a.Barcode == barcode {
			return a, nil
		}
	}
	return nil, nil
}

type memSessionRepo struct {
	albums   *memAlbumRepo
	sessions []*model.PlaySession
	nextID   int64
	err      error
}

func newMemSessionRepo(albums *memAlbumRepo) *memSessionRepo {
	return &memSessionRepo{albums: albums, nextID: 1}
}

func (m *memSessionRepo) albumExists(ctx context.Context, albumID int64) bool {
	album, _ := m.albums.GetAlbumByID(ctx, albumID)
	return album != nil
}

func (m *memSessionRepo) StartSession(ctx context.Context, albumID int64, playedOn string) (*model.PlaySession, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !m.albumExists(ctx, albumID) {
		return nil, model.ErrAlbumNotFound
	}
	for _, s := range m.sessions {
		if s.AlbumID == albumID && s.FinishedOn == nil {
			return nil, model.ErrAlreadyPlaying
		}
	}
	session := &model.PlaySession{ID: m.nextID, AlbumID: albumID, PlayedOn: playedOn}
	m.nextID++
	m.sessions = append(m.sessions, session)
	return session, nil
}

func (m *memSessionRepo) FinishSession(ctx context.Context, albumID int64, finishedOn string) (*model.PlaySession, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.sessions {
		if s.AlbumID == albumID && s.FinishedOn == nil {
			s.FinishedOn = &finishedOn
			return s, nil
		}
	}
	return nil, model.ErrNoOpenSession
}

func (m *memSessionRepo) InsertCompleted(ctx context.Context, albumID int64, playedOn, finishedOn string) (*model.PlaySession, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !m.albumExists(ctx, albumID) {
		return nil, model.ErrAlbumNotFound
	}
	session := &model.PlaySession{ID: m.nextID, AlbumID: albumID, PlayedOn: playedOn, FinishedOn: &finishedOn}
	m.nextID++
	m.sessions = append(m.sessions, session)
	return session, nil
}

func (m *memSessionRepo) GetOpenSession(ctx context.Context, albumID int64) (*model.PlaySession, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.sessions {
		if s.AlbumID == albumID && s.FinishedOn == nil {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memSessionRepo) GetHistory(ctx context.Context, albumID *int64) ([]*model.PlayHistoryRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	var rows []*model.PlayHistoryRow
	for _, s := range m.sessions {
		if albumID != nil && s.AlbumID != *albumID {
			continue
		}
		album, _ := m.albums.GetAlbumByID(ctx, s.AlbumID)
		if album == nil {
			continue
		}
		rows = append(rows, &model.PlayHistoryRow{
			PlayID:     s.ID,
			AlbumID:    s.AlbumID,
			Title:      album.Title,
			Artist:     album.Artist,
			CoverURL:   album.CoverURL,
			PlayedOn:   s.PlayedOn,
			FinishedOn: s.FinishedOn,
		})
	}
	return rows, nil
}

// testServer wires the handler stack over the in-memory repositories.
type testServer struct {
	*httptest.Server
	albums   *memAlbumRepo
	sessions *memSessionRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	albums := newMemAlbumRepo()
	sessions := newMemSessionRepo(albums)
	hub := events.NewHub()

	apiHandler := NewAPIHandler(
		catalog.NewCatalog(albums, nil),
		tracker.NewTracker(sessions, nil, hub),
		hub,
	)

	srv := httptest.NewServer(NewRouter(apiHandler, ""))
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, albums: albums, sessions: sessions}
}
