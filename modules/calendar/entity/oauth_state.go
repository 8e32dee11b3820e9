package entity

import (
	"time"

	"github.com/google/uuid"
)

// OAuthState is a one-time token binding a Google consent round trip to the
// user who started it.
type OAuthState struct {
	State     string    `db:"state"`
	UserID    uuid.UUID `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
