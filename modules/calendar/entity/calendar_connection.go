package entity

import (
	"time"

	"github.com/google/uuid"
)

// CalendarConnection stores a user's external calendar link: OAuth tokens for
// Google or a feed URL for ICS subscriptions.
type CalendarConnection struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	Provider       string     `db:"provider" json:"provider"` // "google" | "ics"
	AccessToken    string     `db:"access_token" json:"-"`
	RefreshToken   string     `db:"refresh_token" json:"-"`
	TokenExpiresAt *time.Time `db:"token_expires_at" json:"token_expires_at,omitempty"`
	FeedURL        string     `db:"feed_url" json:"feed_url,omitempty"`
	Label          string     `db:"label" json:"label"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name
func (CalendarConnection) TableName() string {
	return "calendar_connections"
}

// Event is a provider event before it is shaped into a slot.
type Event struct {
	UID     string
	Summary string
	Start   time.Time
	End     time.Time
	AllDay  bool
}
