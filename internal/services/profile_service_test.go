package services

import (
	"context"
	"testing"

	"warung-pos/internal/domain/profile"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileFields(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")

	name := "Alicia"
	phone := "0812-3456-7890"
	updated, err := f.profiles.Update(ctx, alice, UpdateProfileInput{FullName: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FullName)
	assert.Equal(t, "0812-3456-7890", updated.Phone.String)

	// Fields left nil are untouched.
	avatar := "https://files.example/a.png"
	updated, err = f.profiles.Update(ctx, alice, UpdateProfileInput{AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FullName)
	assert.Equal(t, avatar, updated.AvatarURL.String)

	empty := ""
	_, err = f.profiles.Update(ctx, alice, UpdateProfileInput{FullName: &empty})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
}

func TestSetRole(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	bob := f.seedUser(t, "Bob")

	updated, err := f.profiles.SetRole(ctx, bob, profile.RoleDeliverer)
	require.NoError(t, err)
	assert.Equal(t, profile.RoleDeliverer, updated.Role)

	_, err = f.profiles.SetRole(ctx, bob, "superuser")
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
}

func TestSnapshotsBatchAndCache(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")

	snapshots, err := f.profiles.Snapshots(ctx, []uuid.UUID{alice, bob, alice})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "Alice", snapshots[alice].FullName)
	assert.Equal(t, "Bob", snapshots[bob].FullName)

	// Rename behind the service's back; the cached snapshot still wins until
	// it is invalidated.
	require.NoError(t, f.db.Model(&profile.Profile{}).Where("user_id = ?", alice).Update("full_name", "Alicia").Error)

	snapshots, err = f.profiles.Snapshots(ctx, []uuid.UUID{alice})
	require.NoError(t, err)
	assert.Equal(t, "Alice", snapshots[alice].FullName)

	// Update through the service invalidates, so the next read is fresh.
	name := "Alicia"
	_, err = f.profiles.Update(ctx, alice, UpdateProfileInput{FullName: &name})
	require.NoError(t, err)

	snapshots, err = f.profiles.Snapshots(ctx, []uuid.UUID{alice})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", snapshots[alice].FullName)
}
