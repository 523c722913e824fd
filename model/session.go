package model

// PlaySession represents one playback of an album, open or finished.
// A session is open while FinishedOn is NULL; setting FinishedOn closes it.
// Timestamps are persisted as RFC3339 strings so that duration arithmetic
// on read is unambiguous across timezones.
type PlaySession struct {
	ID         int64   `gorm:"column:play_id;primaryKey;autoIncrement" json:"play_id"`
	AlbumID    int64   `gorm:"column:album_id;not null" json:"album_id"`
	PlayedOn   string  `gorm:"column:played_on;size:40;not null" json:"played_on"`
	FinishedOn *string `gorm:"column:finished_on;size:40" json:"finished_on,omitempty"`
}

// TableName maps PlaySession onto the play_sessions table.
func (PlaySession) TableName() string {
	return "play_sessions"
}

// Open reports whether the session is still playing.
func (s *PlaySession) Open() bool {
	return s.FinishedOn == nil
}

// PlayHistoryRow is one play session joined against its album, as read
// from the store. Duration is not stored; see PlayHistoryItem.
type PlayHistoryRow struct {
	PlayID     int64   `json:"play_id"`
	AlbumID    int64   `json:"album_id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	CoverURL   string  `json:"cover_url"`
	PlayedOn   string  `json:"played_on"`
	FinishedOn *string `json:"finished_on,omitempty"`
}

// PlayHistoryItem is the API shape of a history entry: the joined row plus
// the duration label computed at read time.
type PlayHistoryItem struct {
	PlayHistoryRow
	Duration string `json:"duration"`
}
