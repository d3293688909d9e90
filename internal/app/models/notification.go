package models

import "time"

// Notification is an announcement fanned out to users as UserNotification rows.
// It targets either everyone (IsGlobal) or all active users of TargetRole.
type Notification struct {
	ID         string     `json:"id" db:"id"`
	Title      string     `json:"title" db:"title"`
	Message    string     `json:"message" db:"message"`
	Type       string     `json:"type" db:"type"`
	TargetRole *Role      `json:"targetRole,omitempty" db:"target_role"`
	IsGlobal   bool       `json:"isGlobal" db:"is_global"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

// UserNotification carries the per-recipient read state of a Notification.
type UserNotification struct {
	ID             string     `json:"id" db:"id"`
	UserID         string     `json:"userId" db:"user_id"`
	NotificationID string     `json:"notificationId" db:"notification_id"`
	IsRead         bool       `json:"isRead" db:"is_read"`
	ReadAt         *time.Time `json:"readAt,omitempty" db:"read_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`

	Notification *Notification `json:"notification,omitempty"`
}
