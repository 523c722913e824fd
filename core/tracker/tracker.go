package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/zachgliebs/VinylRecorder/cache"
	"github.com/zachgliebs/VinylRecorder/core/events"
	"github.com/zachgliebs/VinylRecorder/logger"
	"github.com/zachgliebs/VinylRecorder/model"
	"github.com/zachgliebs/VinylRecorder/repository"
)

// Tracker owns the play-session lifecycle: the NoOpenSession/OpenSession
// state machine per album, backed by the nullability of finished_on, and
// the duration computation on the read path.
//
// The atomicity of both transitions lives in SessionRepository; the tracker
// validates input, fills in default timestamps, and keeps the now-playing
// cache and event feed in step. Cache and hub are best effort: their
// failures are logged, never surfaced.
type Tracker struct {
	sessions   repository.SessionRepository
	nowPlaying *cache.NowPlayingCache
	hub        *events.Hub
	now        func() time.Time
}

// NewTracker creates a session tracker. nowPlaying and hub may be nil.
func NewTracker(sessions repository.SessionRepository, nowPlaying *cache.NowPlayingCache, hub *events.Hub) *Tracker {
	return &Tracker{
		sessions:   sessions,
		nowPlaying: nowPlaying,
		hub:        hub,
		now:        time.Now,
	}
}

// timestampOrNow validates a caller-supplied RFC3339 timestamp, or fills in
// the current time when the caller left it empty. Stored timestamps are
// normalized to UTC.
func (t *Tracker) timestampOrNow(value string) (string, error) {
	if value == "" {
		return t.now().UTC().Format(time.RFC3339), nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return "", fmt.Errorf("%w: %q", model.ErrMalformedTimestamp, value)
	}
	return parsed.UTC().Format(time.RFC3339), nil
}

// StartSession opens a play session for the album. At most one session per
// album may be open; a second start is rejected with ErrAlreadyPlaying.
func (t *Tracker) StartSession(ctx context.Context, albumID int64, startedAt string) (*model.PlaySession, error) {
	playedOn, err := t.timestampOrNow(startedAt)
	if err != nil {
		return nil, err
	}

	session, err := t.sessions.StartSession(ctx, albumID, playedOn)
	if err != nil {
		return nil, err
	}

	if t.nowPlaying != nil {
		if cacheErr := t.nowPlaying.Set(ctx, session); cacheErr != nil {
			logger.Warn("failed to cache now-playing entry",
				logger.Int64("albumId", albumID),
				logger.ErrorField(cacheErr),
			)
		}
	}
	t.hub.Broadcast(events.Event{
		Type:    events.EventSessionStarted,
		AlbumID: albumID,
		PlayID:  session.ID,
	})

	logger.Info("play session started",
		logger.Int64("albumId", albumID),
		logger.Int64("playId", session.ID),
		logger.String("playedOn", playedOn),
	)
	return session, nil
}

// FinishSession closes the album's open session. Fails with ErrNoOpenSession
// when nothing is playing; stored state is left unchanged in that case.
func (t *Tracker) FinishSession(ctx context.Context, albumID int64, finishedAt string) (*model.PlaySession, error) {
	finishedOn, err := t.timestampOrNow(finishedAt)
	if err != nil {
		return nil, err
	}

	session, err := t.sessions.FinishSession(ctx, albumID, finishedOn)
	if err != nil {
		return nil, err
	}

	if t.nowPlaying != nil {
		if cacheErr := t.nowPlaying.Clear(ctx, albumID); cacheErr != nil {
			logger.Warn("failed to clear now-playing entry",
				logger.Int64("albumId", albumID),
				logger.ErrorField(cacheErr),
			)
		}
	}
	t.hub.Broadcast(events.Event{
		Type:    events.EventSessionFinished,
		AlbumID: albumID,
		PlayID:  session.ID,
	})

	logger.Info("play session finished",
		logger.Int64("albumId", albumID),
		logger.Int64("playId", session.ID),
		logger.String("finishedOn", finishedOn),
	)
	return session, nil
}

// LogCompletedSession records a play with both timestamps known up front,
// bypassing the open/close protocol. A finish time before the start is
// stored as-is; it surfaces as "Invalid duration" on the read path rather
// than failing the write.
func (t *Tracker) LogCompletedSession(ctx context.Context, albumID int64, startedAt, finishedAt string) (*model.PlaySession, error) {
	if startedAt == "" || finishedAt == "" {
		return nil, fmt.Errorf("%w: both timestamps are required", model.ErrInvalidInput)
	}
	playedOn, err := t.timestampOrNow(startedAt)
	if err != nil {
		return nil, err
	}
	finishedOn, err := t.timestampOrNow(finishedAt)
	if err != nil {
		return nil, err
	}

	session, err := t.sessions.InsertCompleted(ctx, albumID, playedOn, finishedOn)
	if err != nil {
		return nil, err
	}

	t.hub.Broadcast(events.Event{
		Type:    events.EventSessionLogged,
		AlbumID: albumID,
		PlayID:  session.ID,
	})

	logger.Info("completed play session logged",
		logger.Int64("albumId", albumID),
		logger.Int64("playId", session.ID),
	)
	return session, nil
}

// ListHistory returns sessions joined against their albums, newest first,
// with the duration label computed per row. A nil albumID returns the full
// history.
func (t *Tracker) ListHistory(ctx context.Context, albumID *int64) ([]model.PlayHistoryItem, error) {
	rows, err := t.sessions.GetHistory(ctx, albumID)
	if err != nil {
		return nil, err
	}

	items := make([]model.PlayHistoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, model.PlayHistoryItem{
			PlayHistoryRow: *row,
			Duration:       DurationLabel(row.PlayedOn, row.FinishedOn),
		})
	}
	return items, nil
}

// NowPlaying returns the album's open session, or (nil, nil) when nothing
// is playing. The cache answers first; misses and cache errors fall back
// to the store.
func (t *Tracker) NowPlaying(ctx context.Context, albumID int64) (*model.PlaySession, error) {
	if t.nowPlaying != nil {
		session, err := t.nowPlaying.Get(ctx, albumID)
		if err != nil {
			logger.Warn("now-playing cache read failed",
				logger.Int64("albumId", albumID),
				logger.ErrorField(err),
			)
		} else if session != nil {
			return session, nil
		}
	}
	return t.sessions.GetOpenSession(ctx, albumID)
}
