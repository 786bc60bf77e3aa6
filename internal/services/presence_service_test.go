package services

import (
	"context"
	"testing"

	warungredis "warung-pos/internal/redis"
	"warung-pos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceLifecycle(t *testing.T) {
	db := openTestDB(t)
	profileRepo := repository.NewProfileRepository(db)
	store := warungredis.NewPresenceStore(newTestRedis(t), 0)
	svc := NewPresenceService(profileRepo, store, nil)
	ctx := context.Background()

	f := &chatFixture{db: db}
	alice := f.seedUser(t, "Alice")

	require.NoError(t, svc.SetOnline(ctx, alice))

	status, err := svc.GetPresence(ctx, alice)
	require.NoError(t, err)
	assert.True(t, status.IsOnline)

	online, err := svc.OnlineUsers(ctx)
	require.NoError(t, err)
	assert.Contains(t, online, alice.String())

	// The durable profiles row follows the Redis view.
	p, err := profileRepo.GetByUserID(ctx, alice)
	require.NoError(t, err)
	assert.True(t, p.IsOnline)

	require.NoError(t, svc.SetOffline(ctx, alice))

	status, err = svc.GetPresence(ctx, alice)
	require.NoError(t, err)
	assert.False(t, status.IsOnline)
	assert.False(t, status.LastSeen.IsZero())

	online, err = svc.OnlineUsers(ctx)
	require.NoError(t, err)
	assert.NotContains(t, online, alice.String())

	p, err = profileRepo.GetByUserID(ctx, alice)
	require.NoError(t, err)
	assert.False(t, p.IsOnline)
}

func TestPresenceDefaultsOffline(t *testing.T) {
	db := openTestDB(t)
	store := warungredis.NewPresenceStore(newTestRedis(t), 0)
	svc := NewPresenceService(repository.NewProfileRepository(db), store, nil)

	f := &chatFixture{db: db}
	bob := f.seedUser(t, "Bob")

	status, err := svc.GetPresence(context.Background(), bob)
	require.NoError(t, err)
	assert.False(t, status.IsOnline)
}
