package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PresenceStatus is the cached view of a user's online state.
type PresenceStatus struct {
	UserID   string    `json:"user_id"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
}

// PresenceStore tracks online users and ephemeral typing flags in Redis.
// Presence here is best-effort; the profiles table stays the durable record.
type PresenceStore struct {
	client *goredis.Client
	ttl    time.Duration
}

const (
	presenceKeyPrefix = "presence:"       // per-user presence JSON
	presenceOnlineSet = "presence:online" // set of online user IDs
	typingKeyPrefix   = "typing:"         // per-chat set of typing user IDs
)

// typingTTL is a safety net; senders are expected to clear their own flag
// within their 2 second debounce window.
const typingTTL = 10 * time.Second

func NewPresenceStore(client *goredis.Client, ttl time.Duration) *PresenceStore {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &PresenceStore{client: client, ttl: ttl}
}

// SetOnline marks a user as online.
func (p *PresenceStore) SetOnline(ctx context.Context, userID string) error {
	now := time.Now()
	status := PresenceStatus{UserID: userID, IsOnline: true, LastSeen: now}
	data, _ := json.Marshal(status)

	pipe := p.client.Pipeline()
	pipe.Set(ctx, presenceKeyPrefix+userID, data, p.ttl)
	pipe.SAdd(ctx, presenceOnlineSet, userID)
	_, err := pipe.Exec(ctx)
	return err
}

// SetOffline marks a user as offline. The status is kept around longer than
// the online TTL so last-seen queries still resolve.
func (p *PresenceStore) SetOffline(ctx context.Context, userID string) error {
	now := time.Now()
	status := PresenceStatus{UserID: userID, IsOnline: false, LastSeen: now}
	data, _ := json.Marshal(status)

	pipe := p.client.Pipeline()
	pipe.Set(ctx, presenceKeyPrefix+userID, data, 24*time.Hour)
	pipe.SRem(ctx, presenceOnlineSet, userID)
	_, err := pipe.Exec(ctx)
	return err
}

// GetPresence returns the cached presence for a user, defaulting to offline.
func (p *PresenceStore) GetPresence(ctx context.Context, userID string) (*PresenceStatus, error) {
	data, err := p.client.Get(ctx, presenceKeyPrefix+userID).Result()
	if err == goredis.Nil {
		return &PresenceStatus{UserID: userID, IsOnline: false}, nil
	}
	if err != nil {
		return nil, err
	}

	var status PresenceStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// IsOnline checks membership in the online set.
func (p *PresenceStore) IsOnline(ctx context.Context, userID string) (bool, error) {
	return p.client.SIsMember(ctx, presenceOnlineSet, userID).Result()
}

// GetOnlineUsers returns all online user IDs.
func (p *PresenceStore) GetOnlineUsers(ctx context.Context) ([]string, error) {
	return p.client.SMembers(ctx, presenceOnlineSet).Result()
}

// TrackTyping adds or removes a user from a chat's typing set.
func (p *PresenceStore) TrackTyping(ctx context.Context, chatID, userID string, isTyping bool) error {
	key := fmt.Sprintf("%s%s", typingKeyPrefix, chatID)

	if isTyping {
		pipe := p.client.Pipeline()
		pipe.SAdd(ctx, key, userID)
		pipe.Expire(ctx, key, typingTTL)
		_, err := pipe.Exec(ctx)
		return err
	}
	return p.client.SRem(ctx, key, userID).Err()
}

// GetTypingUsers returns the users currently typing in a chat.
func (p *PresenceStore) GetTypingUsers(ctx context.Context, chatID string) ([]string, error) {
	return p.client.SMembers(ctx, fmt.Sprintf("%s%s", typingKeyPrefix, chatID)).Result()
}
