package httpdto

import "time"

// DirectChatRequest is used for POST /v1/chats/direct
type DirectChatRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// GroupChatRequest is used for POST /v1/chats/group
type GroupChatRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"member_ids"`
}

// TypingRequest is used for POST /v1/chats/:chatId/typing
type TypingRequest struct {
	IsTyping bool `json:"is_typing"`
}

// ChatDTO is the wire shape of a chat.
type ChatDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	ChatType    string    `json:"chat_type"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChatSummaryDTO is one row of the chat list.
type ChatSummaryDTO struct {
	Chat        ChatDTO          `json:"chat"`
	DisplayName string           `json:"display_name"`
	AvatarURL   string           `json:"avatar_url,omitempty"`
	LastMessage *MessageDTO      `json:"last_message,omitempty"`
	UnreadCount int64            `json:"unread_count"`
	Members     []ParticipantDTO `json:"members"`
}

// ParticipantDTO is the wire shape of a chat member.
type ParticipantDTO struct {
	UserID     string     `json:"user_id"`
	FullName   string     `json:"full_name"`
	AvatarURL  string     `json:"avatar_url,omitempty"`
	Role       string     `json:"role"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
}
