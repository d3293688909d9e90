package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
)

type fakeEventStore struct {
	events        map[string]*models.Event
	attendance    map[string]bool
	deactivated   []string
	nextID        int
	currentResult *models.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{
		events:     make(map[string]*models.Event),
		attendance: make(map[string]bool),
	}
}

func (f *fakeEventStore) Create(_ context.Context, event *models.Event) error {
	f.nextID++
	event.ID = "ev-" + strconv.Itoa(f.nextID)
	for i, day := range event.EventDays {
		day.ID = event.ID + "-day-" + strconv.Itoa(i+1)
		day.EventID = event.ID
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id string) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventStore) List(_ context.Context, _, _ int) ([]*models.Event, int64, error) {
	var out []*models.Event
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEventStore) GetCurrent(_ context.Context, _ time.Time) (*models.Event, error) {
	if f.currentResult == nil {
		return nil, apperrors.ErrNoCurrentEvent
	}
	return f.currentResult, nil
}

func (f *fakeEventStore) ListDays(_ context.Context, eventID string) ([]*models.EventDay, error) {
	return f.events[eventID].EventDays, nil
}

func (f *fakeEventStore) GetDayByID(_ context.Context, dayID string) (*models.EventDay, error) {
	for _, event := range f.events {
		for _, day := range event.EventDays {
			if day.ID == dayID {
				return day, nil
			}
		}
	}
	return nil, apperrors.ErrEventDayNotFound
}

func (f *fakeEventStore) Update(_ context.Context, id string, req *dto.UpdateEventRequest) error {
	event := f.events[id]
	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	return nil
}

func (f *fakeEventStore) UpdateDay(_ context.Context, dayID string, req *dto.UpdateEventDayRequest) error {
	day, err := f.GetDayByID(context.Background(), dayID)
	if err != nil {
		return err
	}
	if req.FNEnabled != nil {
		day.FNEnabled = *req.FNEnabled
	}
	if req.ANEnabled != nil {
		day.ANEnabled = *req.ANEnabled
	}
	if req.FNStartTime != nil {
		day.FNStartTime = *req.FNStartTime
	}
	return nil
}

func (f *fakeEventStore) Deactivate(_ context.Context, id string) error {
	f.deactivated = append(f.deactivated, id)
	delete(f.events, id)
	return nil
}

func (f *fakeEventStore) HasAttendance(_ context.Context, eventID string) (bool, error) {
	return f.attendance[eventID], nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("applies day defaults", func(t *testing.T) {
		store := newFakeEventStore()
		svc := NewEventService(store)

		event, err := svc.CreateEvent(ctx, &dto.CreateEventRequest{
			Name:      "Summer Camp",
			StartDate: date(2026, time.June, 1),
			EndDate:   date(2026, time.June, 3),
			EventDays: []dto.EventDayInput{
				{Date: date(2026, time.June, 1)},
				{Date: date(2026, time.June, 2)},
			},
		})
		require.NoError(t, err)
		require.Len(t, event.EventDays, 2)

		day := event.EventDays[0]
		assert.True(t, day.FNEnabled)
		assert.True(t, day.ANEnabled)
		assert.Equal(t, "09:00", day.FNStartTime)
		assert.Equal(t, "09:30", day.FNEndTime)
		assert.Equal(t, "14:00", day.ANStartTime)
		assert.Equal(t, "14:30", day.ANEndTime)
	})

	t.Run("honors per-day overrides", func(t *testing.T) {
		store := newFakeEventStore()
		svc := NewEventService(store)

		disabled := false
		event, err := svc.CreateEvent(ctx, &dto.CreateEventRequest{
			Name:      "Drill",
			StartDate: date(2026, time.June, 1),
			EndDate:   date(2026, time.June, 2),
			EventDays: []dto.EventDayInput{
				{Date: date(2026, time.June, 1), ANEnabled: &disabled, FNStartTime: "08:00"},
			},
		})
		require.NoError(t, err)

		day := event.EventDays[0]
		assert.False(t, day.ANEnabled)
		assert.Equal(t, "08:00", day.FNStartTime)
		assert.Equal(t, "09:30", day.FNEndTime)
	})

	t.Run("rejects end date before start date", func(t *testing.T) {
		svc := NewEventService(newFakeEventStore())

		_, err := svc.CreateEvent(ctx, &dto.CreateEventRequest{
			Name:      "Backwards",
			StartDate: date(2026, time.June, 3),
			EndDate:   date(2026, time.June, 1),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	})

	t.Run("rejects equal start and end", func(t *testing.T) {
		svc := NewEventService(newFakeEventStore())

		_, err := svc.CreateEvent(ctx, &dto.CreateEventRequest{
			Name:      "Zero Length",
			StartDate: date(2026, time.June, 1),
			EndDate:   date(2026, time.June, 1),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	})

	t.Run("rejects malformed time window", func(t *testing.T) {
		svc := NewEventService(newFakeEventStore())

		_, err := svc.CreateEvent(ctx, &dto.CreateEventRequest{
			Name:      "Bad Clock",
			StartDate: date(2026, time.June, 1),
			EndDate:   date(2026, time.June, 2),
			EventDays: []dto.EventDayInput{
				{Date: date(2026, time.June, 1), FNStartTime: "9am"},
			},
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidTimeWindow)
	})
}

func TestEventService_GetCurrentEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("matches today's day", func(t *testing.T) {
		store := newFakeEventStore()
		store.currentResult = &models.Event{
			ID:        "ev-1",
			Name:      "Camp",
			StartDate: date(2026, time.June, 1),
			EndDate:   date(2026, time.June, 3),
			EventDays: []*models.EventDay{
				{ID: "day-1", Date: date(2026, time.June, 1)},
				{ID: "day-2", Date: date(2026, time.June, 2)},
			},
		}

		svc := NewEventService(store)
		svc.now = func() time.Time { return time.Date(2026, time.June, 2, 10, 30, 0, 0, time.Local) }

		resp, err := svc.GetCurrentEvent(ctx)
		require.NoError(t, err)
		require.NotNil(t, resp.CurrentDay)
		assert.Equal(t, "day-2", resp.CurrentDay.ID)
	})

	t.Run("no day falls on today", func(t *testing.T) {
		store := newFakeEventStore()
		store.currentResult = &models.Event{
			ID:        "ev-1",
			StartDate: date(2026, time.June, 1),
			EndDate:   date(2026, time.June, 5),
			EventDays: []*models.EventDay{
				{ID: "day-1", Date: date(2026, time.June, 1)},
			},
		}

		svc := NewEventService(store)
		svc.now = func() time.Time { return time.Date(2026, time.June, 3, 10, 0, 0, 0, time.Local) }

		resp, err := svc.GetCurrentEvent(ctx)
		require.NoError(t, err)
		assert.Nil(t, resp.CurrentDay)
	})

	t.Run("no running event", func(t *testing.T) {
		svc := NewEventService(newFakeEventStore())

		_, err := svc.GetCurrentEvent(ctx)
		assert.ErrorIs(t, err, apperrors.ErrNoCurrentEvent)
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	store := newFakeEventStore()
	svc := NewEventService(store)

	event, err := svc.CreateEvent(ctx, &dto.CreateEventRequest{
		Name:      "Camp",
		StartDate: date(2026, time.June, 1),
		EndDate:   date(2026, time.June, 3),
	})
	require.NoError(t, err)

	t.Run("keeps range valid against stored dates", func(t *testing.T) {
		badEnd := date(2026, time.May, 1)
		_, err := svc.UpdateEvent(ctx, event.ID, &dto.UpdateEventRequest{EndDate: &badEnd})
		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	})

	t.Run("applies partial update", func(t *testing.T) {
		name := "Winter Camp"
		updated, err := svc.UpdateEvent(ctx, event.ID, &dto.UpdateEventRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Winter Camp", updated.Name)
		assert.Equal(t, date(2026, time.June, 1), updated.StartDate)
	})
}

func TestEventService_UpdateEventDay(t *testing.T) {
	ctx := context.Background()
	store := newFakeEventStore()
	svc := NewEventService(store)

	event, err := svc.CreateEvent(ctx, &dto.CreateEventRequest{
		Name:      "Camp",
		StartDate: date(2026, time.June, 1),
		EndDate:   date(2026, time.June, 3),
		EventDays: []dto.EventDayInput{{Date: date(2026, time.June, 1)}},
	})
	require.NoError(t, err)
	dayID := event.EventDays[0].ID

	t.Run("rejects malformed clock", func(t *testing.T) {
		bad := "half past nine"
		_, err := svc.UpdateEventDay(ctx, dayID, &dto.UpdateEventDayRequest{FNStartTime: &bad})
		assert.ErrorIs(t, err, apperrors.ErrInvalidTimeWindow)
	})

	t.Run("toggles a session off", func(t *testing.T) {
		off := false
		day, err := svc.UpdateEventDay(ctx, dayID, &dto.UpdateEventDayRequest{ANEnabled: &off})
		require.NoError(t, err)
		assert.False(t, day.ANEnabled)
		assert.False(t, day.SessionEnabled(models.SessionAN))
		assert.True(t, day.SessionEnabled(models.SessionFN))
	})

	t.Run("unknown day", func(t *testing.T) {
		_, err := svc.UpdateEventDay(ctx, "nope", &dto.UpdateEventDayRequest{})
		assert.ErrorIs(t, err, apperrors.ErrEventDayNotFound)
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked once attendance exists", func(t *testing.T) {
		store := newFakeEventStore()
		svc := NewEventService(store)

		event, err := svc.CreateEvent(ctx, &dto.CreateEventRequest{
			Name:      "Camp",
			StartDate: date(2026, time.June, 1),
			EndDate:   date(2026, time.June, 3),
		})
		require.NoError(t, err)
		store.attendance[event.ID] = true

		err = svc.DeleteEvent(ctx, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrEventHasAttendance)
		assert.Empty(t, store.deactivated)
	})

	t.Run("soft deletes otherwise", func(t *testing.T) {
		store := newFakeEventStore()
		svc := NewEventService(store)

		event, err := svc.CreateEvent(ctx, &dto.CreateEventRequest{
			Name:      "Camp",
			StartDate: date(2026, time.June, 1),
			EndDate:   date(2026, time.June, 3),
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteEvent(ctx, event.ID))
		assert.Equal(t, []string{event.ID}, store.deactivated)
	})
}
