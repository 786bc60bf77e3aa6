package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User represents the users table. Profile data lives in profiles; this row
// only carries credentials.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSession represents the user_sessions table
type UserSession struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt sql.NullTime
	CreatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

func (UserSession) TableName() string {
	return "user_sessions"
}
