package message

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Message types.
const (
	TypeText  = "text"
	TypeFile  = "file"
	TypeVoice = "voice"
)

// Message represents the messages table. Messages are immutable once sent
// except for edits; there is no delete.
type Message struct {
	ID          uuid.UUID
	ChatID      uuid.UUID
	SenderID    uuid.UUID
	Content     string
	MessageType string
	FileURL     sql.NullString
	ReplyTo     uuid.NullUUID
	CreatedAt   time.Time
	EditedAt    sql.NullTime
	UpdatedAt   time.Time
}

func (Message) TableName() string {
	return "messages"
}
