package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// CachedProfile is the display snapshot kept per user to avoid a profiles
// lookup on every message render.
type CachedProfile struct {
	UserID    uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      string    `json:"role"`
	CachedAt  time.Time `json:"cached_at"`
}

// ProfileCache is a read-through cache with an explicit TTL. Entries are
// invalidated when a profile update event is published, so a rename or new
// avatar propagates to every instance within one event round-trip.
type ProfileCache struct {
	client *goredis.Client
	ttl    time.Duration
}

const profileKeyPrefix = "profile:"

func NewProfileCache(client *goredis.Client, ttl time.Duration) *ProfileCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &ProfileCache{client: client, ttl: ttl}
}

func (c *ProfileCache) key(userID uuid.UUID) string {
	return fmt.Sprintf("%s%s", profileKeyPrefix, userID.String())
}

// Get returns the cached profile or nil on a miss.
func (c *ProfileCache) Get(ctx context.Context, userID uuid.UUID) (*CachedProfile, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cached CachedProfile
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// Set stores a profile snapshot under the cache TTL.
func (c *ProfileCache) Set(ctx context.Context, p CachedProfile) error {
	p.CachedAt = time.Now().UTC()
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(p.UserID), data, c.ttl).Err()
}

// Invalidate drops a user's cached snapshot.
func (c *ProfileCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}
