package httpdto

import "time"

// SendMessageRequest is used for POST /v1/chats/:chatId/messages
type SendMessageRequest struct {
	Content     string `json:"content,omitempty"`
	MessageType string `json:"message_type,omitempty"`
	FileURL     string `json:"file_url,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	IsImage     bool   `json:"is_image,omitempty"`
	ReplyTo     string `json:"reply_to,omitempty"`
}

// EditMessageRequest is used for PATCH /v1/messages/:messageId
type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// MessageDTO is the wire shape of a message.
type MessageDTO struct {
	ID          string     `json:"id"`
	ChatID      string     `json:"chat_id"`
	SenderID    string     `json:"sender_id"`
	Content     string     `json:"content"`
	MessageType string     `json:"message_type"`
	FileURL     string     `json:"file_url,omitempty"`
	ReplyTo     string     `json:"reply_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	EditedAt    *time.Time `json:"edited_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MessageViewDTO is a message joined with its sender's display snapshot.
type MessageViewDTO struct {
	Message MessageDTO `json:"message"`
	Sender  SenderDTO  `json:"sender"`
}

// SenderDTO identifies who sent a message.
type SenderDTO struct {
	UserID    string `json:"user_id"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
