package services

import (
	"context"
	"time"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/helpers"
)

// Default session windows applied when a day omits them.
const (
	defaultFNStart = "09:00"
	defaultFNEnd   = "09:30"
	defaultANStart = "14:00"
	defaultANEnd   = "14:30"
)

// EventStore is the slice of the event repository the service needs.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, offset, limit int) ([]*models.Event, int64, error)
	GetCurrent(ctx context.Context, now time.Time) (*models.Event, error)
	ListDays(ctx context.Context, eventID string) ([]*models.EventDay, error)
	GetDayByID(ctx context.Context, dayID string) (*models.EventDay, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest) error
	UpdateDay(ctx context.Context, dayID string, req *dto.UpdateEventDayRequest) error
	Deactivate(ctx context.Context, id string) error
	HasAttendance(ctx context.Context, eventID string) (bool, error)
}

// EventService handles events and their per-day session configuration.
type EventService struct {
	events EventStore
	now    func() time.Time
}

// NewEventService creates a new event service
func NewEventService(events EventStore) *EventService {
	return &EventService{
		events: events,
		now:    time.Now,
	}
}

// ListEvents lists active events with their days
func (s *EventService) ListEvents(ctx context.Context, page, limit int) (*dto.EventListResponse, error) {
	offset, lim := helpers.CalculateOffsetLimit(page, limit)

	events, total, err := s.events.List(ctx, int(offset), lim)
	if err != nil {
		return nil, err
	}

	return &dto.EventListResponse{
		Events:     events,
		Pagination: helpers.NewPaginationInfo(total, page, lim),
	}, nil
}

// GetEvent retrieves one event with its days
func (s *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.events.GetByID(ctx, id)
}

// GetEventDays retrieves the days of an event in date order
func (s *EventService) GetEventDays(ctx context.Context, eventID string) ([]*models.EventDay, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.events.ListDays(ctx, eventID)
}

// GetCurrentEvent retrieves the event running now and the day matching today,
// if any. CurrentDay is nil when no day falls on today's local date.
func (s *EventService) GetCurrentEvent(ctx context.Context) (*dto.CurrentEventResponse, error) {
	now := s.now()

	event, err := s.events.GetCurrent(ctx, now)
	if err != nil {
		return nil, err
	}

	var currentDay *models.EventDay
	for _, day := range event.EventDays {
		if helpers.SameLocalDay(day.Date, now) {
			currentDay = day
			break
		}
	}

	return &dto.CurrentEventResponse{Event: event, CurrentDay: currentDay}, nil
}

// CreateEvent creates an event and its days in one transaction
func (s *EventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*models.Event, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	event := &models.Event{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	for _, input := range req.EventDays {
		day := &models.EventDay{
			Date:        input.Date,
			FNEnabled:   true,
			ANEnabled:   true,
			FNStartTime: defaultFNStart,
			FNEndTime:   defaultFNEnd,
			ANStartTime: defaultANStart,
			ANEndTime:   defaultANEnd,
		}
		if input.FNEnabled != nil {
			day.FNEnabled = *input.FNEnabled
		}
		if input.ANEnabled != nil {
			day.ANEnabled = *input.ANEnabled
		}
		if input.FNStartTime != "" {
			day.FNStartTime = input.FNStartTime
		}
		if input.FNEndTime != "" {
			day.FNEndTime = input.FNEndTime
		}
		if input.ANStartTime != "" {
			day.ANStartTime = input.ANStartTime
		}
		if input.ANEndTime != "" {
			day.ANEndTime = input.ANEndTime
		}
		if err := validateDayWindows(day.FNStartTime, day.FNEndTime, day.ANStartTime, day.ANEndTime); err != nil {
			return nil, err
		}
		event.EventDays = append(event.EventDays, day)
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func validateDayWindows(clocks ...string) error {
	for _, clock := range clocks {
		if !helpers.ValidClock(clock) {
			return apperrors.ErrInvalidTimeWindow
		}
	}
	return nil
}

// UpdateEvent applies a partial update, keeping the date range valid
func (s *EventService) UpdateEvent(ctx context.Context, id string, req *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start := event.StartDate
	end := event.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if !end.After(start) {
		return nil, apperrors.ErrInvalidDateRange
	}

	if err := s.events.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.events.GetByID(ctx, id)
}

// UpdateEventDay adjusts a day's session flags and time windows
func (s *EventService) UpdateEventDay(ctx context.Context, dayID string, req *dto.UpdateEventDayRequest) (*models.EventDay, error) {
	if _, err := s.events.GetDayByID(ctx, dayID); err != nil {
		return nil, err
	}

	for _, clock := range []*string{req.FNStartTime, req.FNEndTime, req.ANStartTime, req.ANEndTime} {
		if clock != nil && !helpers.ValidClock(*clock) {
			return nil, apperrors.ErrInvalidTimeWindow
		}
	}

	if err := s.events.UpdateDay(ctx, dayID, req); err != nil {
		return nil, err
	}

	return s.events.GetDayByID(ctx, dayID)
}

// DeleteEvent soft deletes an event unless attendance was already recorded
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.events.GetByID(ctx, id); err != nil {
		return err
	}

	has, err := s.events.HasAttendance(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return apperrors.ErrEventHasAttendance
	}

	return s.events.Deactivate(ctx, id)
}
