package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/zachgliebs/VinylRecorder/model"
)

// SessionRepository defines the play-session database operations.
//
// The open/finished state of a session lives in the nullability of
// finished_on, so the two transitions are written as single conditional
// statements: they stay atomic against concurrent callers on the same album
// without client-side locking.
type SessionRepository interface {
	// StartSession opens a new session for the album, atomically checking
	// that the album exists and has no open session. Returns
	// model.ErrAlbumNotFound or model.ErrAlreadyPlaying accordingly.
	StartSession(ctx context.Context, albumID int64, playedOn string) (*model.PlaySession, error)

	// FinishSession closes the album's open session with the given
	// timestamp. Returns model.ErrNoOpenSession if none is open.
	FinishSession(ctx context.Context, albumID int64, finishedOn string) (*model.PlaySession, error)

	// InsertCompleted records a session with both timestamps known up
	// front, bypassing the open/close protocol. Returns
	// model.ErrAlbumNotFound if the album does not exist.
	InsertCompleted(ctx context.Context, albumID int64, playedOn, finishedOn string) (*model.PlaySession, error)

	// GetOpenSession returns the album's open session, or (nil, nil)
	// when nothing is playing.
	GetOpenSession(ctx context.Context, albumID int64) (*model.PlaySession, error)

	// GetHistory returns sessions joined against their albums, newest
	// first. A nil albumID returns the full history.
	GetHistory(ctx context.Context, albumID *int64) ([]*model.PlayHistoryRow, error)
}

// GormSessionRepository is the GORM implementation of SessionRepository.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GORM session repository.
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// StartSession opens a new session for the album.
//
// The insert sources its rows from the albums table and guards itself with
// NOT EXISTS, so "album exists" and "no open session" are checked by the
// same statement that inserts. Zero rows affected means one of the two
// conditions failed; the follow-up read only picks the error to report.
func (r *GormSessionRepository) StartSession(ctx context.Context, albumID int64, playedOn string) (*model.PlaySession, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO play_sessions (album_id, played_on)
		SELECT a.album_id, ? FROM albums a
		WHERE a.album_id = ?
		AND NOT EXISTS (
			SELECT 1 FROM play_sessions s
			WHERE s.album_id = a.album_id AND s.finished_on IS NULL
		)`, playedOn, albumID)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to start session for album %d: %w", albumID, res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Album{}).
			Where("album_id = ?", albumID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check album %d: %w", albumID, err)
		}
		if count == 0 {
			return nil, model.ErrAlbumNotFound
		}
		return nil, model.ErrAlreadyPlaying
	}

	return r.GetOpenSession(ctx, albumID)
}

// FinishSession closes the album's open session.
//
// At most one session per album is ever open, so the conditional update
// needs no ordering or limit and affects zero or one row.
func (r *GormSessionRepository) FinishSession(ctx context.Context, albumID int64, finishedOn string) (*model.PlaySession, error) {
	res := r.db.WithContext(ctx).Model(&model.PlaySession{}).
		Where("album_id = ? AND finished_on IS NULL", albumID).
		Update("finished_on", finishedOn)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to finish session for album %d: %w", albumID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, model.ErrNoOpenSession
	}

	var session model.PlaySession
	err := r.db.WithContext(ctx).
		Where("album_id = ? AND finished_on = ?", albumID, finishedOn).
		Order("play_id DESC").
		First(&session).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load finished session for album %d: %w", albumID, err)
	}
	return &session, nil
}

// InsertCompleted records an already-finished session.
func (r *GormSessionRepository) InsertCompleted(ctx context.Context, albumID int64, playedOn, finishedOn string) (*model.PlaySession, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Album{}).
		Where("album_id = ?", albumID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check album %d: %w", albumID, err)
	}
	if count == 0 {
		return nil, model.ErrAlbumNotFound
	}

	session := &model.PlaySession{
		AlbumID:    albumID,
		PlayedOn:   playedOn,
		FinishedOn: &finishedOn,
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to insert completed session for album %d: %w", albumID, err)
	}
	return session, nil
}

// GetOpenSession returns the album's open session, if any.
func (r *GormSessionRepository) GetOpenSession(ctx context.Context, albumID int64) (*model.PlaySession, error) {
	var sessions []model.PlaySession
	err := r.db.WithContext(ctx).
		Where("album_id = ? AND finished_on IS NULL", albumID).
		Limit(1).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get open session for album %d: %w", albumID, err)
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// GetHistory returns sessions joined against their albums, newest first.
func (r *GormSessionRepository) GetHistory(ctx context.Context, albumID *int64) ([]*model.PlayHistoryRow, error) {
	q := r.db.WithContext(ctx).Table("play_sessions").
		Select("play_sessions.play_id, play_sessions.album_id, albums.title, albums.artist, albums.cover_url, play_sessions.played_on, play_sessions.finished_on").
		Joins("JOIN albums ON albums.album_id = play_sessions.album_id").
		Order("play_sessions.played_on DESC")
	if albumID != nil {
		q = q.Where("play_sessions.album_id = ?", *albumID)
	}

	var rows []*model.PlayHistoryRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query play history: %w", err)
	}
	return rows, nil
}
