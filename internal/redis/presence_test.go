package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()

	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestPresenceOnlineOffline(t *testing.T) {
	store := NewPresenceStore(newTestClient(t), 0)
	ctx := context.Background()

	require.NoError(t, store.SetOnline(ctx, "user-1"))
	require.NoError(t, store.SetOnline(ctx, "user-2"))

	online, err := store.IsOnline(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, online)

	users, err := store.GetOnlineUsers(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, users)

	require.NoError(t, store.SetOffline(ctx, "user-1"))

	online, err = store.IsOnline(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, online)

	// Last seen survives going offline.
	status, err := store.GetPresence(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, status.IsOnline)
	assert.False(t, status.LastSeen.IsZero())
}

func TestPresenceUnknownUserIsOffline(t *testing.T) {
	store := NewPresenceStore(newTestClient(t), 0)

	status, err := store.GetPresence(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, status.IsOnline)
	assert.Equal(t, "ghost", status.UserID)
}

func TestTrackTyping(t *testing.T) {
	store := NewPresenceStore(newTestClient(t), 0)
	ctx := context.Background()

	require.NoError(t, store.TrackTyping(ctx, "chat-1", "user-1", true))
	require.NoError(t, store.TrackTyping(ctx, "chat-1", "user-2", true))

	typing, err := store.GetTypingUsers(ctx, "chat-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, typing)

	// Other chats are unaffected.
	typing, err = store.GetTypingUsers(ctx, "chat-2")
	require.NoError(t, err)
	assert.Empty(t, typing)

	require.NoError(t, store.TrackTyping(ctx, "chat-1", "user-1", false))
	typing, err = store.GetTypingUsers(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-2"}, typing)
}
