package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"warung-pos/internal/domain/chat"
	"warung-pos/internal/domain/profile"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type chatFixture struct {
	db       *gorm.DB
	chats    *ChatService
	messages *MessageService
	profiles *ProfileService
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	db := openTestDB(t)
	profileRepo := repository.NewProfileRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	profiles := NewProfileService(profileRepo, newTestProfileCache(t), nil)
	chats := NewChatService(chatRepo, messageRepo, profiles, nil)
	messages := NewMessageService(messageRepo, chatRepo, profiles, nil)

	return &chatFixture{db: db, chats: chats, messages: messages, profiles: profiles}
}

func (f *chatFixture) seedUser(t *testing.T, name string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	now := time.Now()
	p := profile.Profile{
		ID:        uuid.New(),
		UserID:    userID,
		FullName:  name,
		Role:      profile.RoleCashier,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return userID
}

func TestGetOrCreateDirectChatIdempotent(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")

	first, err := f.chats.GetOrCreateDirectChat(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, chat.TypeDirect, first.ChatType)

	// Either participant asking again gets the same chat back.
	again, err := f.chats.GetOrCreateDirectChat(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = f.chats.GetOrCreateDirectChat(ctx, alice, alice)
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
}

func TestGetOrCreateDirectChatConcurrentCreate(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")

	// Interleave two find-or-create flows at the repository level: both
	// finds miss, then both try to insert the pair's chat.
	chatRepo := repository.NewChatRepository(f.db)
	_, err := chatRepo.FindDirectChat(ctx, alice, bob)
	require.ErrorIs(t, err, warung_errors.ErrNotFound)

	now := time.Now()
	winner := &chat.Chat{
		ID:        uuid.New(),
		ChatType:  chat.TypeDirect,
		DirectKey: sql.NullString{String: chat.DirectKey(alice, bob), Valid: true},
		CreatedBy: alice,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, chatRepo.CreateChat(ctx, winner))
	for _, uid := range []uuid.UUID{alice, bob} {
		require.NoError(t, chatRepo.AddParticipant(ctx, &chat.Participant{
			ID:       uuid.New(),
			ChatID:   winner.ID,
			UserID:   uid,
			Role:     "member",
			JoinedAt: now,
		}))
	}

	// The second insert hits the pair key whichever way its arguments were
	// ordered.
	loser := &chat.Chat{
		ID:        uuid.New(),
		ChatType:  chat.TypeDirect,
		DirectKey: sql.NullString{String: chat.DirectKey(bob, alice), Valid: true},
		CreatedBy: bob,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.ErrorIs(t, chatRepo.CreateChat(ctx, loser), warung_errors.ErrAlreadyExists)

	// The service side of the losing request converges on the winner's chat.
	got, err := f.chats.GetOrCreateDirectChat(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)

	var count int64
	require.NoError(t, f.db.Model(&chat.Chat{}).Where("chat_type = ?", chat.TypeDirect).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Group chats carry no pair key, so any number of them coexist.
	_, err = f.chats.CreateGroupChat(ctx, alice, "Tim Pagi", "", []uuid.UUID{bob})
	require.NoError(t, err)
	_, err = f.chats.CreateGroupChat(ctx, alice, "Tim Malam", "", []uuid.UUID{bob})
	require.NoError(t, err)
}

func TestCreateGroupChat(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	admin := f.seedUser(t, "Admin")
	member := f.seedUser(t, "Member")

	// Creator repeated in member list must not produce a duplicate row.
	created, err := f.chats.CreateGroupChat(ctx, admin, "Tim Toko", "koordinasi harian", []uuid.UUID{member, admin})
	require.NoError(t, err)
	assert.Equal(t, chat.TypeGroup, created.ChatType)

	participants, err := f.chats.GetParticipants(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, participants, 2)

	roles := map[uuid.UUID]string{}
	for _, p := range participants {
		roles[p.UserID] = p.Role
	}
	assert.Equal(t, "admin", roles[admin])
	assert.Equal(t, "member", roles[member])

	_, err = f.chats.CreateGroupChat(ctx, admin, "   ", "", nil)
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
}

func TestUnreadCountLifecycle(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")

	c, err := f.chats.GetOrCreateDirectChat(ctx, alice, bob)
	require.NoError(t, err)

	// Bob has never opened the chat, so no badge even with traffic.
	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: alice, Content: "halo"})
	require.NoError(t, err)

	summaries, err := f.chats.GetUserChats(ctx, bob)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(0), summaries[0].UnreadCount)

	// Backdate Bob's read marker to before the first message, then let Alice
	// send two more: all three count as unread.
	chatRepo := repository.NewChatRepository(f.db)
	require.NoError(t, chatRepo.UpdateLastReadAt(ctx, c.ID, bob, time.Now().Add(-time.Minute)))

	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: alice, Content: "stok beras habis"})
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: alice, Content: "tolong restock"})
	require.NoError(t, err)

	// Bob's own messages never count against him.
	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: bob, Content: "siap"})
	require.NoError(t, err)

	summaries, err = f.chats.GetUserChats(ctx, bob)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(3), summaries[0].UnreadCount)

	// Opening clears the badge.
	_, err = f.chats.OpenChat(ctx, c.ID, bob)
	require.NoError(t, err)

	summaries, err = f.chats.GetUserChats(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summaries[0].UnreadCount)
}

func TestDirectChatDisplayName(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")

	c, err := f.chats.GetOrCreateDirectChat(ctx, alice, bob)
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: bob, Content: "pagi"})
	require.NoError(t, err)

	summaries, err := f.chats.GetUserChats(ctx, alice)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Bob", summaries[0].DisplayName)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "pagi", summaries[0].LastMessage.Content)
}

func TestOpenChatRequiresMembership(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")
	eve := f.seedUser(t, "Eve")

	c, err := f.chats.GetOrCreateDirectChat(ctx, alice, bob)
	require.NoError(t, err)

	_, err = f.chats.OpenChat(ctx, c.ID, eve)
	assert.ErrorIs(t, err, warung_errors.ErrForbidden)

	err = f.chats.MarkRead(ctx, c.ID, eve)
	assert.ErrorIs(t, err, warung_errors.ErrForbidden)
}
