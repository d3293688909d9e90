package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/logger"
)

// NotificationRepository handles database operations for notifications and
// their per-user read state
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (title, message, type, target_role, is_global, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.TargetRole,
		notification.IsGlobal,
		notification.ExpiresAt,
	).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}

	return nil
}

// FanOut creates the per-recipient rows for a notification in bulk
func (r *NotificationRepository) FanOut(ctx context.Context, notificationID string, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	rows := make([][]interface{}, 0, len(userIDs))
	for _, userID := range userIDs {
		rows = append(rows, []interface{}{userID, notificationID})
	}

	copied, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"user_notifications"},
		[]string{"user_id", "notification_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return copied, fmt.Errorf("error fanning out notification: %w", err)
	}
	if copied != int64(len(userIDs)) {
		logger.Warn().
			Str("notification_id", notificationID).
			Int64("copied", copied).
			Int("expected", len(userIDs)).
			Msg("Notification fan-out copied fewer rows than expected")
	}

	return copied, nil
}

func scanUserNotification(row pgx.Row) (*models.UserNotification, error) {
	var un models.UserNotification
	var n models.Notification
	err := row.Scan(
		&un.ID,
		&un.UserID,
		&un.NotificationID,
		&un.IsRead,
		&un.ReadAt,
		&un.CreatedAt,
		&n.ID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.TargetRole,
		&n.IsGlobal,
		&n.ExpiresAt,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	un.Notification = &n
	return &un, nil
}

const userNotificationSelect = `
	SELECT un.id, un.user_id, un.notification_id, un.is_read, un.read_at, un.created_at,
	       n.id, n.title, n.message, n.type, n.target_role, n.is_global, n.expires_at, n.created_at
	FROM user_notifications un
	JOIN notifications n ON n.id = un.notification_id
`

// ListForUser retrieves a user's notifications, newest first, skipping
// expired ones
func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, unreadOnly bool, offset, limit int) ([]*models.UserNotification, int64, error) {
	where := ` WHERE un.user_id = $1 AND (n.expires_at IS NULL OR n.expires_at > NOW())`
	if unreadOnly {
		where += ` AND un.is_read = false`
	}

	countQuery := `
		SELECT count(*)
		FROM user_notifications un
		JOIN notifications n ON n.id = un.notification_id
	` + where
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting notifications: %w", err)
	}

	listQuery := userNotificationSelect + where + ` ORDER BY un.created_at DESC OFFSET $2 LIMIT $3`
	rows, err := r.db.Query(ctx, listQuery, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.UserNotification
	for rows.Next() {
		un, err := scanUserNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, un)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// UnreadCount counts a user's unread, unexpired notifications
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	query := `
		SELECT count(*)
		FROM user_notifications un
		JOIN notifications n ON n.id = un.notification_id
		WHERE un.user_id = $1 AND un.is_read = false
		  AND (n.expires_at IS NULL OR n.expires_at > NOW())
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags a user's own notification row as read and returns it.
// Rows belonging to other users look like missing rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) (*models.UserNotification, error) {
	query := `
		UPDATE user_notifications
		SET is_read = true, read_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id
	`

	var updatedID string
	err := r.db.QueryRow(ctx, query, id, userID).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("error marking notification read: %w", err)
	}

	un, err := scanUserNotification(r.db.QueryRow(ctx, userNotificationSelect+` WHERE un.id = $1`, updatedID))
	if err != nil {
		return nil, fmt.Errorf("error reloading notification: %w", err)
	}

	return un, nil
}
