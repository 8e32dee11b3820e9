package dto

import (
	"github.com/google/uuid"
)

// MarkAsReadRequest lists the notifications to mark read
type MarkAsReadRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

// CreateNotificationRequest is written by background producers such as the
// reminder worker; it is not exposed over HTTP.
type CreateNotificationRequest struct {
	UserID  uuid.UUID      `json:"user_id"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Data    map[string]any `json:"data"`
}

// UnreadCountResponse is the inbox badge count
type UnreadCountResponse struct {
	Count int `json:"count"`
}
