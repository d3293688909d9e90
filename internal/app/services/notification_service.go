package services

import (
	"context"
	"strconv"
	"time"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/helpers"
	"github.com/meeras/brigadier/internal/pkg/logger"
)

const (
	unreadCountKeyPrefix = "notifications:unread:"
	unreadCountTTL       = 60 * time.Second
	defaultNotifType     = "INFO"
)

// NotificationStore is the slice of the notification repository the service needs.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	FanOut(ctx context.Context, notificationID string, userIDs []string) (int64, error)
	ListForUser(ctx context.Context, userID string, unreadOnly bool, offset, limit int) ([]*models.UserNotification, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) (*models.UserNotification, error)
}

// NotificationAudienceStore resolves the recipients of an announcement.
type NotificationAudienceStore interface {
	ListActiveIDs(ctx context.Context, role *models.Role) ([]string, error)
}

// NotificationPusher delivers a notification to connected clients.
type NotificationPusher interface {
	NotifyUsers(userIDs []string, payload interface{})
	NotifyAll(payload interface{})
}

// NotificationCache holds per-user unread counts. *db.Redis satisfies it.
type NotificationCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Del(ctx context.Context, keys ...string)
}

// NotificationService handles announcements and per-user read state. The
// unread count is cached with a short TTL when a cache is wired, and
// invalidated whenever the count may have changed.
type NotificationService struct {
	notifications NotificationStore
	audience      NotificationAudienceStore
	cache         NotificationCache
	pusher        NotificationPusher
}

// NewNotificationService creates a new notification service. cache and
// pusher may be nil.
func NewNotificationService(notifications NotificationStore, audience NotificationAudienceStore, cache NotificationCache, pusher NotificationPusher) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		audience:      audience,
		cache:         cache,
		pusher:        pusher,
	}
}

// Create stores the notification and fans it out to all active users (global)
// or the active users of the target role. The fan-out is best effort: a
// partial failure leaves the notification itself in place.
func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error) {
	notifType := req.Type
	if notifType == "" {
		notifType = defaultNotifType
	}

	notification := &models.Notification{
		Title:      req.Title,
		Message:    req.Message,
		Type:       notifType,
		TargetRole: req.TargetRole,
		IsGlobal:   req.IsGlobal,
		ExpiresAt:  req.ExpiresAt,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}

	var role *models.Role
	if !notification.IsGlobal {
		if notification.TargetRole == nil {
			// Neither global nor role-targeted: nobody to notify.
			return notification, nil
		}
		role = notification.TargetRole
	}

	userIDs, err := s.audience.ListActiveIDs(ctx, role)
	if err != nil {
		logger.Error().Err(err).Str("notification_id", notification.ID).Msg("Failed to resolve notification audience")
		return notification, nil
	}

	copied, err := s.notifications.FanOut(ctx, notification.ID, userIDs)
	if err != nil {
		logger.Error().Err(err).
			Str("notification_id", notification.ID).
			Int64("copied", copied).
			Msg("Notification fan-out failed")
		return notification, nil
	}

	logger.Info().
		Str("notification_id", notification.ID).
		Int64("recipients", copied).
		Msg("Notification created")

	// The recipients' unread counts just changed.
	s.invalidateUnreadCounts(ctx, userIDs)

	if s.pusher != nil {
		if notification.IsGlobal {
			s.pusher.NotifyAll(notification)
		} else {
			s.pusher.NotifyUsers(userIDs, notification)
		}
	}

	return notification, nil
}

// List retrieves the caller's notifications
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, page, limit int) (*dto.NotificationListResponse, error) {
	offset, lim := helpers.CalculateOffsetLimit(page, limit)

	notifications, total, err := s.notifications.ListForUser(ctx, userID, unreadOnly, int(offset), lim)
	if err != nil {
		return nil, err
	}

	return &dto.NotificationListResponse{
		Notifications: notifications,
		Pagination:    helpers.NewPaginationInfo(total, page, lim),
	}, nil
}

// UnreadCount returns the caller's unread count, served from the cache when
// one is wired and warm
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	key := unreadCountKeyPrefix + userID

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	count, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, strconv.FormatInt(count, 10), unreadCountTTL)
	}

	return count, nil
}

// MarkRead flags one of the caller's notifications as read and drops the
// cached unread count
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (*models.UserNotification, error) {
	un, err := s.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	s.invalidateUnreadCounts(ctx, []string{userID})

	return un, nil
}

func (s *NotificationService) invalidateUnreadCounts(ctx context.Context, userIDs []string) {
	if s.cache == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = unreadCountKeyPrefix + id
	}
	s.cache.Del(ctx, keys...)
}
