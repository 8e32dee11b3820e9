package dto

import (
	"time"

	"pairtime-api/modules/calendar/entity"
)

// Provider constants
const (
	ProviderGoogle = "google"
	ProviderICS    = "ics"
)

// ========== Calendar Connection DTOs ==========

// ConnectGoogleRequest stores tokens obtained by the account service's OAuth flow
type ConnectGoogleRequest struct {
	AccessToken  string     `json:"access_token" validate:"required"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at"`
	Label        string     `json:"label"`
}

// GoogleAuthURLResponse carries the consent page to open
type GoogleAuthURLResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// GoogleCallbackRequest completes the consent flow
type GoogleCallbackRequest struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state" validate:"required"`
	Label string `json:"label"`
}

// SubscribeICSRequest subscribes to an ICS feed
type SubscribeICSRequest struct {
	FeedURL string `json:"feed_url" validate:"required"`
	Label   string `json:"label"`
}

// CalendarConnectionResponse represents a calendar connection
type CalendarConnectionResponse struct {
	ID           string     `json:"id"`
	Provider     string     `json:"provider"`
	Source       string     `json:"source"`
	Label        string     `json:"label"`
	IsActive     bool       `json:"is_active"`
	ConnectedAt  string     `json:"connected_at"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// CalendarConnectionListResponse represents list of connections
type CalendarConnectionListResponse struct {
	Connections []CalendarConnectionResponse `json:"connections"`
}

// ImportedEventResponse is one imported event as the engine sees it
type ImportedEventResponse struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Title  string `json:"title,omitempty"`
	Source string `json:"source"`
}

// ToConnectionResponse maps entity to DTO
func ToConnectionResponse(conn entity.CalendarConnection, source string) CalendarConnectionResponse {
	return CalendarConnectionResponse{
		ID:          conn.ID.String(),
		Provider:    conn.Provider,
		Source:      source,
		Label:       conn.Label,
		IsActive:    conn.IsActive,
		ConnectedAt: conn.CreatedAt.Format(time.RFC3339),
	}
}
