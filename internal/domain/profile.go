package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a profiles row. One profile exists per authenticated
// identity; its id equals the auth user id.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Status      string    `json:"status,omitempty"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileUpdate holds the writable profile fields. Nil fields are left
// untouched by an update.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// VIPProfile is the public projection of the admin profile returned by the
// get_vip_profile procedure.
type VIPProfile struct {
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}
