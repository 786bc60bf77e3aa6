package profile

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Roles a profile can hold.
const (
	RoleAdmin     = "admin"
	RoleCashier   = "kasir"
	RoleDeliverer = "pengantar"
)

// Profile represents the profiles table
type Profile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FullName  string
	Phone     sql.NullString
	AvatarURL sql.NullString
	Role      string
	IsOnline  bool
	LastSeen  sql.NullTime
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Profile) TableName() string {
	return "profiles"
}
