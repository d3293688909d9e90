package dto

import (
	"time"

	"github.com/meeras/brigadier/internal/app/models"
)

// CreateNotificationRequest is the body of POST /api/notifications.
type CreateNotificationRequest struct {
	Title      string       `json:"title" binding:"required"`
	Message    string       `json:"message" binding:"required"`
	Type       string       `json:"type,omitempty"`
	TargetRole *models.Role `json:"targetRole,omitempty"`
	IsGlobal   bool         `json:"isGlobal"`
	ExpiresAt  *time.Time   `json:"expiresAt,omitempty"`
}

// NotificationListResponse is the paginated reply of GET /api/notifications.
type NotificationListResponse struct {
	Notifications []*models.UserNotification `json:"notifications"`
	Pagination    PaginationInfo             `json:"pagination"`
}

// UnreadCountResponse is the reply of GET /api/notifications/unread-count.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
