package httpdto

import "time"

// UpdateProfileRequest is used for PATCH /v1/profiles/me
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// SetRoleRequest is used for PUT /v1/profiles/:userId/role
type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ProfileDTO is the wire shape of a profile.
type ProfileDTO struct {
	UserID    string     `json:"user_id"`
	FullName  string     `json:"full_name"`
	Phone     string     `json:"phone,omitempty"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	Role      string     `json:"role"`
	IsOnline  bool       `json:"is_online"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
}

// PresenceDTO is returned from presence lookups.
type PresenceDTO struct {
	UserID   string    `json:"user_id"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
}
