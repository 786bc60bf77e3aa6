package chat

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Chat types.
const (
	TypeDirect = "direct"
	TypeGroup  = "group"
)

// Chat represents the chats table. A direct chat's display name is derived
// from the other participant by the reader, not stored. DirectKey is the
// normalized participant pair of a direct chat; its unique index is what
// keeps concurrent find-or-create calls from inserting the pair twice.
// Group chats leave it NULL.
type Chat struct {
	ID          uuid.UUID
	Name        string
	Description sql.NullString
	ChatType    string
	DirectKey   sql.NullString `gorm:"uniqueIndex"`
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DirectKey builds the canonical pair key for a direct chat, identical for
// either argument order.
func DirectKey(a, b uuid.UUID) string {
	if a.String() < b.String() {
		return a.String() + ":" + b.String()
	}
	return b.String() + ":" + a.String()
}

// Participant represents the chat_participants table. LastReadAt is the
// high-water mark for unread counting.
type Participant struct {
	ID         uuid.UUID
	ChatID     uuid.UUID
	UserID     uuid.UUID
	Role       string
	JoinedAt   time.Time
	LastReadAt sql.NullTime
}

// TypingIndicator represents the typing_indicators table. Rows are ephemeral
// liveness flags; the sender flips IsTyping off after its debounce window.
type TypingIndicator struct {
	ID        uuid.UUID
	ChatID    uuid.UUID
	UserID    uuid.UUID
	IsTyping  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Chat) TableName() string {
	return "chats"
}

func (Participant) TableName() string {
	return "chat_participants"
}

func (TypingIndicator) TableName() string {
	return "typing_indicators"
}
