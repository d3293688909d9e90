package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
)

type fakeNotificationStore struct {
	created   []*models.Notification
	fannedOut map[string][]string
	unread    map[string]int64
	failFan   bool
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{
		fannedOut: make(map[string][]string),
		unread:    make(map[string]int64),
	}
}

func (f *fakeNotificationStore) Create(_ context.Context, notification *models.Notification) error {
	notification.ID = "notif-1"
	notification.CreatedAt = time.Now()
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeNotificationStore) FanOut(_ context.Context, notificationID string, userIDs []string) (int64, error) {
	if f.failFan {
		return 0, assert.AnError
	}
	f.fannedOut[notificationID] = userIDs
	return int64(len(userIDs)), nil
}

func (f *fakeNotificationStore) ListForUser(_ context.Context, _ string, _ bool, _, _ int) ([]*models.UserNotification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotificationStore) UnreadCount(_ context.Context, userID string) (int64, error) {
	return f.unread[userID], nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id, userID string) (*models.UserNotification, error) {
	if id != "un-1" {
		return nil, apperrors.ErrNotificationNotFound
	}
	return &models.UserNotification{ID: id, UserID: userID, IsRead: true}, nil
}

type fakeAudience struct {
	all      []string
	students []string
}

func (f *fakeAudience) ListActiveIDs(_ context.Context, role *models.Role) ([]string, error) {
	if role != nil && *role == models.RoleStudent {
		return f.students, nil
	}
	return f.all, nil
}

type recordingPusher struct {
	toUsers [][]string
	toAll   int
}

func (r *recordingPusher) NotifyUsers(userIDs []string, _ interface{}) {
	r.toUsers = append(r.toUsers, userIDs)
}

func (r *recordingPusher) NotifyAll(_ interface{}) {
	r.toAll++
}

type fakeUnreadCache struct {
	values  map[string]string
	deleted []string
}

func newFakeUnreadCache() *fakeUnreadCache {
	return &fakeUnreadCache{values: make(map[string]string)}
}

func (f *fakeUnreadCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeUnreadCache) Set(_ context.Context, key, value string, _ time.Duration) {
	f.values[key] = value
}

func (f *fakeUnreadCache) Del(_ context.Context, keys ...string) {
	for _, key := range keys {
		delete(f.values, key)
		f.deleted = append(f.deleted, key)
	}
}

func TestNotificationService_Create(t *testing.T) {
	ctx := context.Background()
	audience := &fakeAudience{
		all:      []string{"u1", "u2", "u3"},
		students: []string{"u2"},
	}

	t.Run("global fans out to every active user", func(t *testing.T) {
		store := newFakeNotificationStore()
		pusher := &recordingPusher{}
		svc := services.NewNotificationService(store, audience, nil, pusher)

		notification, err := svc.Create(ctx, &dto.CreateNotificationRequest{
			Title:    "Camp tomorrow",
			Message:  "Assemble at 08:30",
			IsGlobal: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "INFO", notification.Type)
		assert.Equal(t, []string{"u1", "u2", "u3"}, store.fannedOut[notification.ID])
		assert.Equal(t, 1, pusher.toAll)
	})

	t.Run("role targeted fans out to that role only", func(t *testing.T) {
		store := newFakeNotificationStore()
		pusher := &recordingPusher{}
		svc := services.NewNotificationService(store, audience, nil, pusher)

		role := models.RoleStudent
		notification, err := svc.Create(ctx, &dto.CreateNotificationRequest{
			Title:      "Uniform check",
			Message:    "Bring your ID",
			Type:       "ALERT",
			TargetRole: &role,
		})
		require.NoError(t, err)
		assert.Equal(t, "ALERT", notification.Type)
		assert.Equal(t, []string{"u2"}, store.fannedOut[notification.ID])
		require.Len(t, pusher.toUsers, 1)
		assert.Equal(t, []string{"u2"}, pusher.toUsers[0])
		assert.Zero(t, pusher.toAll)
	})

	t.Run("neither global nor targeted reaches nobody", func(t *testing.T) {
		store := newFakeNotificationStore()
		pusher := &recordingPusher{}
		svc := services.NewNotificationService(store, audience, nil, pusher)

		notification, err := svc.Create(ctx, &dto.CreateNotificationRequest{
			Title:   "Draft",
			Message: "Not addressed yet",
		})
		require.NoError(t, err)
		assert.Empty(t, store.fannedOut[notification.ID])
		assert.Empty(t, pusher.toUsers)
		assert.Zero(t, pusher.toAll)
	})

	t.Run("drops the recipients' cached unread counts", func(t *testing.T) {
		store := newFakeNotificationStore()
		cache := newFakeUnreadCache()
		cache.values["notifications:unread:u1"] = "2"
		cache.values["notifications:unread:u2"] = "0"
		cache.values["notifications:unread:u3"] = "5"
		svc := services.NewNotificationService(store, audience, cache, nil)

		_, err := svc.Create(ctx, &dto.CreateNotificationRequest{
			Title:    "Schedule change",
			Message:  "FN moved to 10:00",
			IsGlobal: true,
		})
		require.NoError(t, err)
		assert.Empty(t, cache.values)
		assert.ElementsMatch(t, []string{
			"notifications:unread:u1",
			"notifications:unread:u2",
			"notifications:unread:u3",
		}, cache.deleted)
	})

	t.Run("fan-out failure does not fail the create", func(t *testing.T) {
		store := newFakeNotificationStore()
		store.failFan = true
		svc := services.NewNotificationService(store, audience, nil, nil)

		notification, err := svc.Create(ctx, &dto.CreateNotificationRequest{
			Title:    "Flaky",
			Message:  "Still stored",
			IsGlobal: true,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, notification.ID)
		assert.Len(t, store.created, 1)
	})
}

func TestNotificationService_UnreadCount(t *testing.T) {
	ctx := context.Background()

	t.Run("reads from the store without a cache", func(t *testing.T) {
		store := newFakeNotificationStore()
		store.unread["u1"] = 7
		svc := services.NewNotificationService(store, &fakeAudience{}, nil, nil)

		count, err := svc.UnreadCount(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
	})

	t.Run("serves a warm cache entry", func(t *testing.T) {
		store := newFakeNotificationStore()
		store.unread["u1"] = 7
		cache := newFakeUnreadCache()
		cache.values["notifications:unread:u1"] = "5"
		svc := services.NewNotificationService(store, &fakeAudience{}, cache, nil)

		count, err := svc.UnreadCount(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})

	t.Run("a miss populates the cache", func(t *testing.T) {
		store := newFakeNotificationStore()
		store.unread["u1"] = 7
		cache := newFakeUnreadCache()
		svc := services.NewNotificationService(store, &fakeAudience{}, cache, nil)

		count, err := svc.UnreadCount(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.Equal(t, "7", cache.values["notifications:unread:u1"])
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("marks own notification and drops the cached count", func(t *testing.T) {
		cache := newFakeUnreadCache()
		cache.values["notifications:unread:u1"] = "3"
		svc := services.NewNotificationService(newFakeNotificationStore(), &fakeAudience{}, cache, nil)

		un, err := svc.MarkRead(ctx, "un-1", "u1")
		require.NoError(t, err)
		assert.True(t, un.IsRead)
		assert.Empty(t, cache.values)
	})

	t.Run("unknown or foreign row", func(t *testing.T) {
		svc := services.NewNotificationService(newFakeNotificationStore(), &fakeAudience{}, nil, nil)

		_, err := svc.MarkRead(ctx, "un-9", "u1")
		assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
	})
}
