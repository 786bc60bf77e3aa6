package redis

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileCacheRoundTrip(t *testing.T) {
	cache := NewProfileCache(newTestClient(t), 0)
	ctx := context.Background()
	userID := uuid.New()

	// Miss returns nil without an error.
	cached, err := cache.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, cached)

	require.NoError(t, cache.Set(ctx, CachedProfile{
		UserID:    userID,
		FullName:  "Siti Kasir",
		AvatarURL: "https://files.example/siti.png",
		Role:      "kasir",
	}))

	cached, err = cache.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Siti Kasir", cached.FullName)
	assert.Equal(t, "kasir", cached.Role)
	assert.False(t, cached.CachedAt.IsZero())

	require.NoError(t, cache.Invalidate(ctx, userID))

	cached, err = cache.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, cached)
}
