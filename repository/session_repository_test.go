package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zachgliebs/VinylRecorder/model"
)

// openTestDB opens a fresh in-memory SQLite database with the production
// schema shape. The session SQL is deliberately portable, so the same
// statements run against MySQL and SQLite.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
		CREATE TABLE albums (
			album_id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			cover_url TEXT DEFAULT 'default-cover.jpg',
			barcode TEXT UNIQUE,
			created_on DATETIME DEFAULT CURRENT_TIMESTAMP
		)`).Error)
	require.NoError(t, db.Exec(`
		CREATE TABLE play_sessions (
			play_id INTEGER PRIMARY KEY AUTOINCREMENT,
			album_id INTEGER NOT NULL,
			played_on TEXT NOT NULL,
			finished_on TEXT DEFAULT NULL,
			FOREIGN KEY (album_id) REFERENCES albums (album_id) ON DELETE CASCADE
		)`).Error)

	return db
}

func createTestAlbum(t *testing.T, db *gorm.DB, title, artist string) int64 {
	t.Helper()
	album := &model.Album{Title: title, Artist: artist, CoverURL: model.DefaultCoverURL}
	require.NoError(t, db.Create(album).Error)
	return album.ID
}

func TestStartSession(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()

	albumID := createTestAlbum(t, db, "Kind of Blue", "Miles Davis")

	session, err := repo.StartSession(ctx, albumID, "2024-06-01T20:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, albumID, session.AlbumID)
	assert.Equal(t, "2024-06-01T20:00:00Z", session.PlayedOn)
	assert.Nil(t, session.FinishedOn)
}

func TestStartSessionUnknownAlbum(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormSessionRepository(db)

	_, err := repo.StartSession(context.Background(), 42, "2024-06-01T20:00:00Z")
	assert.ErrorIs(t, err, model.ErrAlbumNotFound)
}

func TestStartSessionConflict(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()

	albumID := createTestAlbum(t, db, "Kind of Blue", "Miles Davis")

	_, err := repo.StartSession(ctx, albumID, "2024-06-01T20:00:00Z")
	require.NoError(t, err)

	_, err = repo.StartSession(ctx, albumID, "2024-06-01T20:05:00Z")
	assert.ErrorIs(t, err, model.ErrAlreadyPlaying)

	// A different album is unaffected.
	otherID := createTestAlbum(t, db, "Blue Train", "John Coltrane")
	_, err = repo.StartSession(ctx, otherID, "2024-06-01T20:05:00Z")
	assert.NoError(t, err)

	// Finishing releases the first album for the next play.
	_, err = repo.FinishSession(ctx, albumID, "2024-06-01T21:00:00Z")
	require.NoError(t, err)
	_, err = repo.StartSession(ctx, albumID, "2024-06-01T22:00:00Z")
	assert.NoError(t, err)
}

func TestFinishSession(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()

	albumID := createTestAlbum(t, db, "Kind of Blue", "Miles Davis")

	started, err := repo.StartSession(ctx, albumID, "2024-06-01T20:00:00Z")
	require.NoError(t, err)

	finished, err := repo.FinishSession(ctx, albumID, "2024-06-01T21:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, started.ID, finished.ID)
	require.NotNil(t, finished.FinishedOn)
	assert.Equal(t, "2024-06-01T21:00:00Z", *finished.FinishedOn)

	open, err := repo.GetOpenSession(ctx, albumID)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestFinishSessionWithNothingOpen(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()

	albumID := createTestAlbum(t, db, "Kind of Blue", "Miles Davis")

	_, err := repo.FinishSession(ctx, albumID, "2024-06-01T21:00:00Z")
	assert.ErrorIs(t, err, model.ErrNoOpenSession)

	// An already-finished session is not touched by a second finish.
	_, err = repo.InsertCompleted(ctx, albumID, "2024-06-01T18:00:00Z", "2024-06-01T19:00:00Z")
	require.NoError(t, err)
	_, err = repo.FinishSession(ctx, albumID, "2024-06-01T21:00:00Z")
	assert.ErrorIs(t, err, model.ErrNoOpenSession)

	rows, err := repo.GetHistory(ctx, &albumID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-06-01T19:00:00Z", *rows[0].FinishedOn)
}

func TestInsertCompleted(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()

	albumID := createTestAlbum(t, db, "Kind of Blue", "Miles Davis")

	session, err := repo.InsertCompleted(ctx, albumID, "2024-06-01T18:00:00Z", "2024-06-01T19:00:00Z")
	require.NoError(t, err)
	assert.NotZero(t, session.ID)
	require.NotNil(t, session.FinishedOn)

	// Backfill does not block a live session.
	_, err = repo.StartSession(ctx, albumID, "2024-06-01T20:00:00Z")
	assert.NoError(t, err)

	_, err = repo.InsertCompleted(ctx, 42, "2024-06-01T18:00:00Z", "2024-06-01T19:00:00Z")
	assert.ErrorIs(t, err, model.ErrAlbumNotFound)
}

func TestGetHistoryJoinsAndOrders(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()

	milesID := createTestAlbum(t, db, "Kind of Blue", "Miles Davis")
	coltraneID := createTestAlbum(t, db, "Blue Train", "John Coltrane")

	_, err := repo.InsertCompleted(ctx, milesID, "2024-06-01T10:00:00Z", "2024-06-01T11:00:00Z")
	require.NoError(t, err)
	_, err = repo.InsertCompleted(ctx, coltraneID, "2024-06-02T10:00:00Z", "2024-06-02T11:00:00Z")
	require.NoError(t, err)
	_, err = repo.StartSession(ctx, milesID, "2024-06-03T10:00:00Z")
	require.NoError(t, err)

	rows, err := repo.GetHistory(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Newest first, with album fields joined in.
	assert.Equal(t, "2024-06-03T10:00:00Z", rows[0].PlayedOn)
	assert.Equal(t, "Kind of Blue", rows[0].Title)
	assert.Equal(t, "Miles Davis", rows[0].Artist)
	assert.Equal(t, model.DefaultCoverURL, rows[0].CoverURL)
	assert.Nil(t, rows[0].FinishedOn)
	assert.Equal(t, "2024-06-02T10:00:00Z", rows[1].PlayedOn)
	assert.Equal(t, "Blue Train", rows[1].Title)
	assert.Equal(t, "2024-06-01T10:00:00Z", rows[2].PlayedOn)

	// Filtered by album, still joined.
	filtered, err := repo.GetHistory(ctx, &coltraneID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, coltraneID, filtered[0].AlbumID)
	assert.Equal(t, "John Coltrane", filtered[0].Artist)
}

func TestDeleteAlbumCascadesSessions(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()

	albumID := createTestAlbum(t, db, "Kind of Blue", "Miles Davis")
	keptID := createTestAlbum(t, db, "Blue Train", "John Coltrane")

	_, err := repo.InsertCompleted(ctx, albumID, "2024-06-01T10:00:00Z", "2024-06-01T11:00:00Z")
	require.NoError(t, err)
	_, err = repo.StartSession(ctx, albumID, "2024-06-02T10:00:00Z")
	require.NoError(t, err)
	_, err = repo.InsertCompleted(ctx, keptID, "2024-06-01T12:00:00Z", "2024-06-01T13:00:00Z")
	require.NoError(t, err)

	require.NoError(t, db.Exec("DELETE FROM albums WHERE album_id = ?", albumID).Error)

	rows, err := repo.GetHistory(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, keptID, rows[0].AlbumID)
}
