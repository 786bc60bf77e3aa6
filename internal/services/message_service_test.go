package services

import (
	"context"
	"strings"
	"testing"

	"warung-pos/internal/domain/message"
	warung_errors "warung-pos/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTextMessage(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")
	c, err := f.chats.GetOrCreateDirectChat(ctx, alice, bob)
	require.NoError(t, err)

	msg, err := f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: alice, Content: "  halo bos  "})
	require.NoError(t, err)
	assert.Equal(t, "halo bos", msg.Content)
	assert.Equal(t, message.TypeText, msg.MessageType)

	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: alice, Content: "   "})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)

	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: alice, Content: strings.Repeat("a", maxMessageLength+1)})
	assert.ErrorIs(t, err, warung_errors.ErrTooLarge)
}

func TestSendAttachmentCaptions(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")
	c, err := f.chats.GetOrCreateDirectChat(ctx, alice, bob)
	require.NoError(t, err)

	img, err := f.messages.Send(ctx, SendMessageInput{
		ChatID:      c.ID,
		SenderID:    alice,
		MessageType: message.TypeFile,
		FileURL:     "https://files.example/nota.jpg",
		FileName:    "nota.jpg",
		IsImage:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "📷 nota.jpg", img.Content)
	assert.Equal(t, "https://files.example/nota.jpg", img.FileURL.String)

	doc, err := f.messages.Send(ctx, SendMessageInput{
		ChatID:      c.ID,
		SenderID:    alice,
		MessageType: message.TypeFile,
		FileURL:     "https://files.example/laporan.pdf",
		FileName:    "laporan.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "📎 laporan.pdf", doc.Content)

	voice, err := f.messages.Send(ctx, SendMessageInput{
		ChatID:      c.ID,
		SenderID:    alice,
		MessageType: message.TypeVoice,
		FileURL:     "https://files.example/voice.webm",
	})
	require.NoError(t, err)
	assert.Equal(t, "🎤 Voice Message", voice.Content)

	// A caller-provided caption wins over the derived one.
	captioned, err := f.messages.Send(ctx, SendMessageInput{
		ChatID:      c.ID,
		SenderID:    alice,
		MessageType: message.TypeFile,
		FileURL:     "https://files.example/foto.png",
		FileName:    "foto.png",
		IsImage:     true,
		Content:     "foto etalase baru",
	})
	require.NoError(t, err)
	assert.Equal(t, "foto etalase baru", captioned.Content)

	// Attachments without an uploaded file are rejected.
	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: alice, MessageType: message.TypeFile})
	assert.ErrorIs(t, err, warung_errors.ErrNotUploaded)
	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: alice, MessageType: message.TypeVoice})
	assert.ErrorIs(t, err, warung_errors.ErrNotUploaded)
}

func TestSendRequiresMembership(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")
	eve := f.seedUser(t, "Eve")
	c, err := f.chats.GetOrCreateDirectChat(ctx, alice, bob)
	require.NoError(t, err)

	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: eve, Content: "halo"})
	assert.ErrorIs(t, err, warung_errors.ErrForbidden)
}

func TestReplyToStaysInChat(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")
	carol := f.seedUser(t, "Carol")

	c1, err := f.chats.GetOrCreateDirectChat(ctx, alice, bob)
	require.NoError(t, err)
	c2, err := f.chats.GetOrCreateDirectChat(ctx, alice, carol)
	require.NoError(t, err)

	parent, err := f.messages.Send(ctx, SendMessageInput{ChatID: c1.ID, SenderID: alice, Content: "induk"})
	require.NoError(t, err)

	reply, err := f.messages.Send(ctx, SendMessageInput{ChatID: c1.ID, SenderID: bob, Content: "balasan", ReplyTo: &parent.ID})
	require.NoError(t, err)
	assert.Equal(t, parent.ID, reply.ReplyTo.UUID)

	// Replying across chats is rejected.
	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c2.ID, SenderID: alice, Content: "nyasar", ReplyTo: &parent.ID})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
}

func TestEditMessage(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")
	c, err := f.chats.GetOrCreateDirectChat(ctx, alice, bob)
	require.NoError(t, err)

	msg, err := f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: alice, Content: "harga 10rb"})
	require.NoError(t, err)

	edited, err := f.messages.Edit(ctx, msg.ID, alice, "harga 12rb")
	require.NoError(t, err)
	assert.Equal(t, "harga 12rb", edited.Content)
	assert.True(t, edited.EditedAt.Valid)

	// Only the sender may edit.
	_, err = f.messages.Edit(ctx, msg.ID, bob, "harga 5rb")
	assert.ErrorIs(t, err, warung_errors.ErrForbidden)

	// Attachments cannot be edited.
	voice, err := f.messages.Send(ctx, SendMessageInput{
		ChatID:      c.ID,
		SenderID:    alice,
		MessageType: message.TypeVoice,
		FileURL:     "https://files.example/v.webm",
	})
	require.NoError(t, err)
	_, err = f.messages.Edit(ctx, voice.ID, alice, "teks baru")
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
}

func TestHistoryOrderAndSenders(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "Alice")
	bob := f.seedUser(t, "Bob")
	c, err := f.chats.GetOrCreateDirectChat(ctx, alice, bob)
	require.NoError(t, err)

	for _, content := range []string{"satu", "dua", "tiga"} {
		_, err := f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: alice, Content: content})
		require.NoError(t, err)
	}
	_, err = f.messages.Send(ctx, SendMessageInput{ChatID: c.ID, SenderID: bob, Content: "empat"})
	require.NoError(t, err)

	views, err := f.messages.History(ctx, c.ID, bob)
	require.NoError(t, err)
	require.Len(t, views, 4)

	// Oldest first, each with its sender's display name.
	assert.Equal(t, "satu", views[0].Message.Content)
	assert.Equal(t, "empat", views[3].Message.Content)
	assert.Equal(t, "Alice", views[0].Sender.FullName)
	assert.Equal(t, "Bob", views[3].Sender.FullName)

	_, err = f.messages.History(ctx, c.ID, f.seedUser(t, "Eve"))
	assert.ErrorIs(t, err, warung_errors.ErrForbidden)
}
