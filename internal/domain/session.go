package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated identity held by the auth provider.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Session holds the tokens issued by the auth provider. The refresh token is
// exchanged transparently by the backend client when the access token nears
// expiry.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token is past (or within margin of) its
// expiry.
func (s *Session) Expired(margin time.Duration) bool {
	return !s.ExpiresAt.IsZero() && time.Now().Add(margin).After(s.ExpiresAt)
}
