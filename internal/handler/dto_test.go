package handler

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"warung-pos/internal/domain/chat"
	"warung-pos/internal/domain/message"
	"warung-pos/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMessageDTOOptionalFields(t *testing.T) {
	now := time.Now()
	m := message.Message{
		ID:          uuid.New(),
		ChatID:      uuid.New(),
		SenderID:    uuid.New(),
		Content:     "halo",
		MessageType: message.TypeText,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	dto := toMessageDTO(m)
	assert.Equal(t, m.ID.String(), dto.ID)
	assert.Empty(t, dto.FileURL)
	assert.Empty(t, dto.ReplyTo)
	assert.Nil(t, dto.EditedAt)

	replyTo := uuid.New()
	m.FileURL = sql.NullString{String: "https://cdn.example.com/nota.jpg", Valid: true}
	m.ReplyTo = uuid.NullUUID{UUID: replyTo, Valid: true}
	m.EditedAt = sql.NullTime{Time: now, Valid: true}

	dto = toMessageDTO(m)
	assert.Equal(t, "https://cdn.example.com/nota.jpg", dto.FileURL)
	assert.Equal(t, replyTo.String(), dto.ReplyTo)
	require.NotNil(t, dto.EditedAt)
	assert.Equal(t, now.Unix(), dto.EditedAt.Unix())
}

func TestChatSummaryDTOWireShape(t *testing.T) {
	now := time.Now()
	alice := uuid.New()
	bob := uuid.New()
	c := chat.Chat{
		ID:        uuid.New(),
		ChatType:  chat.TypeDirect,
		DirectKey: sql.NullString{String: chat.DirectKey(alice, bob), Valid: true},
		CreatedBy: alice,
		CreatedAt: now,
		UpdatedAt: now,
	}
	last := message.Message{
		ID:          uuid.New(),
		ChatID:      c.ID,
		SenderID:    bob,
		Content:     "pagi",
		MessageType: message.TypeText,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	summary := services.ChatSummary{
		Chat:        c,
		DisplayName: "Bob",
		LastMessage: &last,
		UnreadCount: 2,
		Members: []services.ParticipantView{
			{UserID: alice, FullName: "Alice", Role: "member"},
			{UserID: bob, FullName: "Bob", Role: "member"},
		},
	}

	raw, err := json.Marshal(toChatSummaryDTO(summary))
	require.NoError(t, err)
	body := string(raw)

	// Nullable columns never leak their driver wrappers or the pair key.
	assert.NotContains(t, body, "Valid")
	assert.NotContains(t, body, "direct_key")
	assert.NotContains(t, body, chat.DirectKey(alice, bob))

	assert.Contains(t, body, `"chat_type":"direct"`)
	assert.Contains(t, body, `"unread_count":2`)
	assert.Contains(t, body, `"content":"pagi"`)
	assert.Contains(t, body, `"full_name":"Alice"`)
}

func TestToChatDTODescription(t *testing.T) {
	now := time.Now()
	c := chat.Chat{
		ID:        uuid.New(),
		Name:      "Tim Toko",
		ChatType:  chat.TypeGroup,
		CreatedBy: uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	assert.Empty(t, toChatDTO(c).Description)

	c.Description = sql.NullString{String: "koordinasi harian", Valid: true}
	assert.Equal(t, "koordinasi harian", toChatDTO(c).Description)
}
