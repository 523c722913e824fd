package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/zachgliebs/VinylRecorder/model"
)

// nowPlayingTTL bounds how long a stale entry can outlive its session.
// The store stays authoritative; the cache is a read shortcut only.
const nowPlayingTTL = 24 * time.Hour

// NowPlayingCache keeps the currently open play session per album in Redis.
type NowPlayingCache struct {
	client *redis.Client
}

// NewNowPlayingCache creates a now-playing cache over the given client.
func NewNowPlayingCache(client *redis.Client) *NowPlayingCache {
	return &NowPlayingCache{client: client}
}

// nowPlayingKey generates the Redis key for an album's open session.
func nowPlayingKey(albumID int64) string {
	return fmt.Sprintf("nowplaying:album:%d", albumID)
}

// Set records the album's open session.
func (c *NowPlayingCache) Set(ctx context.Context, session *model.PlaySession) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal now-playing entry: %w", err)
	}

	if err := c.client.Set(ctx, nowPlayingKey(session.AlbumID), data, nowPlayingTTL).Err(); err != nil {
		return fmt.Errorf("failed to set now-playing entry: %w", err)
	}
	return nil
}

// Get returns the cached open session for the album, or (nil, nil) on a miss.
func (c *NowPlayingCache) Get(ctx context.Context, albumID int64) (*model.PlaySession, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	data, err := c.client.Get(ctx, nowPlayingKey(albumID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get now-playing entry: %w", err)
	}

	var session model.PlaySession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal now-playing entry: %w", err)
	}
	return &session, nil
}

// Clear removes the album's now-playing entry.
func (c *NowPlayingCache) Clear(ctx context.Context, albumID int64) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	if err := c.client.Del(ctx, nowPlayingKey(albumID)).Err(); err != nil {
		return fmt.Errorf("failed to clear now-playing entry: %w", err)
	}
	return nil
}
